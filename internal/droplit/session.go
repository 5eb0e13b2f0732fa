package droplit

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
)

// Status is the game status of a session.
type Status uint8

const (
	StatusPlaying Status = iota
	StatusWon
	StatusLost
)

func (s Status) String() string {
	switch s {
	case StatusWon:
		return "won"
	case StatusLost:
		return "lost"
	default:
		return "playing"
	}
}

// Terminal reports whether no further actions are accepted.
func (s Status) Terminal() bool { return s != StatusPlaying }

// State is a value copy of the session counters.
type State struct {
	Level               int
	PlacementsRemaining int
	FreeNextPlacement   bool
	Inventory           Inventory
	Selected            PowerupKind
	LaserAxis           Axis
	Combo               int
	Status              Status
	Busy                bool
}

// Stats accumulate over one level attempt.
type Stats struct {
	BestCombo       int
	TotalDischarges int
	PlacementsUsed  int
	PowerupsUsed    int
	CapHits         int
}

// ActionOutcome is returned by every accepted action.
type ActionOutcome struct {
	Status     Status
	ComboDelta int
	Events     []Event
	Busy       bool // Stepping mode: resolution started, call Advance
	Rounds     int
	CapHit     bool
}

// RoundOutcome is returned by Advance.
type RoundOutcome struct {
	Round      int
	Exploded   []Cell
	Events     []Event
	ComboDelta int
	Done       bool
	CapHit     bool
	Status     Status
}

// Session owns one grid and its counters. A Session is not safe for
// concurrent use; callers own it exclusively.
type Session struct {
	rules    Rules
	grid     *Grid
	state    State
	stats    Stats
	rng      *rand.Rand
	stepping bool
	log      *log.Logger

	resolver *Resolver
	events   []Event
}

// Option configures a Session.
type Option func(*Session)

// WithRules replaces the default rules.
func WithRules(r Rules) Option {
	return func(s *Session) { s.rules = r }
}

// WithSeed fixes the shuffle RNG seed.
func WithSeed(seed int64) Option {
	return func(s *Session) { s.rng = rand.New(rand.NewSource(seed)) }
}

// WithStepping selects round-by-round resolution driven by Advance.
func WithStepping(on bool) Option {
	return func(s *Session) { s.stepping = on }
}

// WithLogger sets the logger used for round and cap diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.log = l }
}

// NewSession creates a session on a fresh grid at level 1.
// It panics if the rules are invalid.
func NewSession(opts ...Option) *Session {
	s := &Session{rules: DefaultRules()}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.rules.Validate(); err != nil {
		panic(err)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.log == nil {
		s.log = log.Default()
	}
	s.state.Level = 1
	s.ResetToFreshGrid()
	return s
}

// Rules returns the session rules.
func (s *Session) Rules() Rules { return s.rules }

// Grid returns a copy of the grid.
func (s *Session) Grid() *Grid { return s.grid.Clone() }

// Snapshot returns a copy of the session counters.
func (s *Session) Snapshot() State { return s.state }

// Status returns the current status.
func (s *Session) Status() Status { return s.state.Status }

// Busy reports whether a stepped resolution is in flight.
func (s *Session) Busy() bool { return s.state.Busy }

// Stepping reports whether the session resolves round by round.
func (s *Session) Stepping() bool { return s.stepping }

// Stats returns the counters of the current level attempt.
func (s *Session) Stats() Stats { return s.stats }

// DrainEvents returns the events produced since the last call and clears them.
func (s *Session) DrainEvents() []Event {
	ev := s.events
	s.events = nil
	return ev
}

// InitializeLevel replaces the grid with a shuffled board built from cfg.
// The session is reset wholesale: budget, inventory for the level, combo,
// selection and any in-flight resolution.
func (s *Session) InitializeLevel(cfg LevelConfig, level int) error {
	if err := cfg.Validate(s.rules.Rows, s.rules.Cols); err != nil {
		return err
	}
	if level < 1 {
		level = 1
	}
	cells := ShuffleBoard(cfg, s.rules.Rows, s.rules.Cols, s.rng)
	g := NewGrid(s.rules.Rows, s.rules.Cols)
	copy(g.charges, cells)
	s.reset(g, level, cfg.Placements, s.rules.InventoryFor(level))
	s.log.Debug("level initialized", "level", level, "placements", cfg.Placements, "filled", g.FilledCount())
	return nil
}

// LoadBoard replaces the grid with a fixed board. Every charge must lie in
// [0, critical charge]. The board may differ in size from the rules grid.
func (s *Session) LoadBoard(charges [][]int, placements int, inv Inventory) error {
	g, err := GridFromRows(charges)
	if err != nil {
		return err
	}
	if cells := g.Above(s.rules.CriticalCharge); len(cells) > 0 {
		return fmt.Errorf("droplit: charge %d at %v exceeds critical charge %d",
			g.Get(cells[0]), cells[0], s.rules.CriticalCharge)
	}
	if placements < 0 {
		return fmt.Errorf("droplit: negative placements %d", placements)
	}
	if err := inv.Validate(); err != nil {
		return err
	}
	s.reset(g, s.state.Level, placements, inv)
	return nil
}

// ResetToFreshGrid empties the grid and restores the fresh budget and the
// inventory of the current level.
func (s *Session) ResetToFreshGrid() {
	level := s.state.Level
	if level < 1 {
		level = 1
	}
	s.reset(NewGrid(s.rules.Rows, s.rules.Cols), level, s.rules.FreshPlacements, s.rules.InventoryFor(level))
}

func (s *Session) reset(g *Grid, level, placements int, inv Inventory) {
	s.grid = g
	s.state = State{
		Level:               level,
		PlacementsRemaining: placements,
		Inventory:           inv,
		LaserAxis:           s.state.LaserAxis,
		Status:              StatusPlaying,
	}
	s.stats = Stats{}
	s.resolver = nil
	s.events = nil
}

// evaluate applies terminal evaluation after an action settles.
func (s *Session) evaluate() {
	switch {
	case s.grid.IsEmpty():
		s.state.Status = StatusWon
	case s.state.PlacementsRemaining <= 0 && !s.state.FreeNextPlacement:
		s.state.Status = StatusLost
	default:
		s.state.Status = StatusPlaying
	}
	if s.state.Status.Terminal() {
		s.log.Debug("session settled", "status", s.state.Status, "level", s.state.Level)
	}
}

func (s *Session) emit(ev []Event) {
	s.events = append(s.events, ev...)
}
