package web

import (
	"errors"

	engine "github.com/elmandalorian-thx/droplit/internal/droplit"
)

// Client message types.
const (
	msgLevel   = "level"
	msgPlace   = "place"
	msgPowerup = "powerup"
	msgFresh   = "fresh"
)

// Error kinds sent to clients.
const (
	kindBusy        = "busy"
	kindNotPlaying  = "not_playing"
	kindNoBudget    = "no_budget"
	kindOutOfBounds = "out_of_bounds"
	kindBadRequest  = "bad_request"
)

// clientMessage is any message a browser sends.
type clientMessage struct {
	Type  string `json:"type"`
	Level int    `json:"level,omitempty"`
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Kind  string `json:"kind,omitempty"`
	Axis  string `json:"axis,omitempty"`
}

type eventMessage struct {
	Kind    string `json:"kind"`
	Round   int    `json:"round"`
	Row     int    `json:"row"`
	Col     int    `json:"col"`
	FromRow int    `json:"fromRow"`
	FromCol int    `json:"fromCol"`
	Dir     string `json:"dir,omitempty"`
	Landed  bool   `json:"landed,omitempty"`
}

// stateMessage is the snapshot sent after every accepted message.
type stateMessage struct {
	Type       string           `json:"type"`
	Level      int              `json:"level"`
	Grid       [][]int          `json:"grid"`
	Placements int              `json:"placements"`
	FreeNext   bool             `json:"freeNext"`
	Inventory  engine.Inventory `json:"inventory"`
	Status     string           `json:"status"`
	Combo      int              `json:"combo"`
	ComboDelta int              `json:"comboDelta"`
	Rounds     int              `json:"rounds"`
	CapHit     bool             `json:"capHit,omitempty"`
	Events     []eventMessage   `json:"events"`
}

type errorMessage struct {
	Type    string `json:"type"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// newState snapshots s and consumes its pending events.
func newState(s *engine.Session, out engine.ActionOutcome) stateMessage {
	st := s.Snapshot()
	msg := stateMessage{
		Type:       "state",
		Level:      st.Level,
		Grid:       s.Grid().Charges(),
		Placements: st.PlacementsRemaining,
		FreeNext:   st.FreeNextPlacement,
		Inventory:  st.Inventory,
		Status:     st.Status.String(),
		Combo:      st.Combo,
		ComboDelta: out.ComboDelta,
		Rounds:     out.Rounds,
		CapHit:     out.CapHit,
	}
	events := s.DrainEvents()
	msg.Events = make([]eventMessage, 0, len(events))
	for _, ev := range events {
		em := eventMessage{
			Kind:   ev.Kind.String(),
			Round:  ev.Round,
			Row:    ev.Cell.Row,
			Col:    ev.Cell.Col,
			Landed: ev.Landed,
		}
		if ev.Kind == engine.EventImpact {
			em.FromRow, em.FromCol = ev.From.Row, ev.From.Col
			em.Dir = ev.Dir.String()
		}
		msg.Events = append(msg.Events, em)
	}
	return msg
}

func newError(err error) errorMessage {
	kind := kindBadRequest
	switch {
	case errors.Is(err, engine.ErrBusy):
		kind = kindBusy
	case errors.Is(err, engine.ErrNotPlaying):
		kind = kindNotPlaying
	case errors.Is(err, engine.ErrNoBudget):
		kind = kindNoBudget
	case errors.Is(err, engine.ErrOutOfBounds):
		kind = kindOutOfBounds
	}
	return errorMessage{Type: "error", Kind: kind, Message: err.Error()}
}
