package droplit

import "fmt"

// guard validates an action in the fixed order status, busy, bounds.
func (s *Session) guard(op string, c Cell, targeted bool) error {
	if s.state.Status.Terminal() {
		return refuse(op, ErrNotPlaying, c)
	}
	if s.state.Busy {
		return refuse(op, ErrBusy, c)
	}
	if targeted && !s.grid.InBounds(c) {
		return refuse(op, ErrOutOfBounds, c)
	}
	return nil
}

func (s *Session) guardPowerup(k PowerupKind, c Cell) error {
	if err := s.guard(k.String(), c, k.NeedsTarget()); err != nil {
		return err
	}
	if s.state.Inventory.Count(k) <= 0 {
		return refuse(k.String(), ErrNoBudget, c)
	}
	return nil
}

func (s *Session) consume(k PowerupKind) {
	s.state.Inventory.add(k, -1)
	s.state.Selected = PowerupNone
	s.stats.PowerupsUsed++
}

// PlaceCharge adds one charge to c. A pending free placement is consumed
// instead of the budget. Combo restarts at zero.
func (s *Session) PlaceCharge(c Cell) (ActionOutcome, error) {
	if err := s.guard("place", c, true); err != nil {
		return ActionOutcome{}, err
	}
	if !s.state.FreeNextPlacement && s.state.PlacementsRemaining <= 0 {
		return ActionOutcome{}, refuse("place", ErrNoBudget, c)
	}

	if s.state.FreeNextPlacement {
		s.state.FreeNextPlacement = false
	} else {
		s.state.PlacementsRemaining--
	}
	s.state.Selected = PowerupNone
	s.state.Combo = 0
	s.stats.PlacementsUsed++

	var seeds []Cell
	if s.grid.Increment(c, 1) > s.rules.CriticalCharge {
		seeds = []Cell{c}
	}
	return s.settle(seeds, nil), nil
}

// UseRain adds one charge to every cell of the 3x3 block around c, capped
// at the rain cap, and resolves all cells it pushed over the threshold
// together.
func (s *Session) UseRain(c Cell) (ActionOutcome, error) {
	if err := s.guardPowerup(PowerupRain, c); err != nil {
		return ActionOutcome{}, err
	}
	s.consume(PowerupRain)

	var seeds []Cell
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			n := At(c.Row+dr, c.Col+dc)
			if !s.grid.InBounds(n) {
				continue
			}
			v := min(s.grid.Get(n)+1, s.rules.RainCap)
			s.grid.Set(n, v)
			if v > s.rules.CriticalCharge {
				seeds = append(seeds, n)
			}
		}
	}
	return s.settle(seeds, nil), nil
}

// UseBomb empties the 3x3 block around c without any chain reaction.
func (s *Session) UseBomb(c Cell) (ActionOutcome, error) {
	if err := s.guardPowerup(PowerupBomb, c); err != nil {
		return ActionOutcome{}, err
	}
	s.consume(PowerupBomb)

	var events []Event
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			events = s.clearCell(At(c.Row+dr, c.Col+dc), events)
		}
	}
	return s.settle(nil, events), nil
}

// UseLaser empties the full row or column through c without any chain
// reaction.
func (s *Session) UseLaser(c Cell, axis Axis) (ActionOutcome, error) {
	if err := s.guardPowerup(PowerupLaser, c); err != nil {
		return ActionOutcome{}, err
	}
	if !axis.Valid() {
		return ActionOutcome{}, refuse("laser", ErrBadAxis, c)
	}
	s.consume(PowerupLaser)

	var events []Event
	switch axis {
	case AxisColumn:
		for r := 0; r < s.grid.Rows(); r++ {
			events = s.clearCell(At(r, c.Col), events)
		}
	case AxisRow:
		for col := 0; col < s.grid.Cols(); col++ {
			events = s.clearCell(At(c.Row, col), events)
		}
	}
	return s.settle(nil, events), nil
}

// UseFreeze makes the next placement free.
func (s *Session) UseFreeze() (ActionOutcome, error) {
	if err := s.guardPowerup(PowerupFreeze, Cell{}); err != nil {
		return ActionOutcome{}, err
	}
	s.consume(PowerupFreeze)
	s.state.FreeNextPlacement = true
	return s.settle(nil, nil), nil
}

func (s *Session) clearCell(c Cell, events []Event) []Event {
	if !s.grid.InBounds(c) || s.grid.Get(c) == 0 {
		return events
	}
	s.grid.Set(c, 0)
	return append(events, Clear(c))
}

// SelectPowerup arms a targeted powerup for the next Tap. Selecting the
// armed kind again disarms it.
func (s *Session) SelectPowerup(k PowerupKind) error {
	if !k.NeedsTarget() {
		return fmt.Errorf("droplit: %s cannot be armed", k)
	}
	if err := s.guard(k.String(), Cell{}, false); err != nil {
		return err
	}
	if s.state.Selected == k {
		s.state.Selected = PowerupNone
		return nil
	}
	if s.state.Inventory.Count(k) <= 0 {
		return refuse(k.String(), ErrNoBudget, Cell{})
	}
	s.state.Selected = k
	return nil
}

// ClearSelection returns to normal placement mode.
func (s *Session) ClearSelection() {
	s.state.Selected = PowerupNone
}

// ToggleLaserAxis flips the axis used by Tap for an armed laser.
func (s *Session) ToggleLaserAxis() Axis {
	s.state.LaserAxis = s.state.LaserAxis.Toggle()
	return s.state.LaserAxis
}

// SetLaserAxis sets the axis used by Tap for an armed laser.
func (s *Session) SetLaserAxis(a Axis) error {
	if !a.Valid() {
		return refuse("axis", ErrBadAxis, Cell{})
	}
	s.state.LaserAxis = a
	return nil
}

// Tap applies the armed powerup at c, or places a charge when none is armed.
func (s *Session) Tap(c Cell) (ActionOutcome, error) {
	switch s.state.Selected {
	case PowerupRain:
		return s.UseRain(c)
	case PowerupBomb:
		return s.UseBomb(c)
	case PowerupLaser:
		return s.UseLaser(c, s.state.LaserAxis)
	default:
		return s.PlaceCharge(c)
	}
}

// settle runs or starts the resolution for seeds, then evaluates the
// terminal status once no resolution is in flight.
func (s *Session) settle(seeds []Cell, events []Event) ActionOutcome {
	out := ActionOutcome{Events: events}
	s.emit(events)

	if len(seeds) == 0 {
		s.evaluate()
		out.Status = s.state.Status
		return out
	}

	s.resolver = NewResolver(s.grid, seeds, s.rules.CriticalCharge, s.rules.MaxRounds)
	if s.stepping {
		s.state.Busy = true
		out.Busy = true
		out.Status = s.state.Status
		return out
	}

	for !s.resolver.Done() {
		ro := s.round()
		out.ComboDelta += ro.ComboDelta
		out.Events = append(out.Events, ro.Events...)
		out.CapHit = out.CapHit || ro.CapHit
	}
	out.Rounds = s.resolver.Round()
	s.resolver = nil
	s.evaluate()
	out.Status = s.state.Status
	return out
}

// Advance runs one round of the in-flight resolution. When the resolution
// finishes the session is evaluated and accepts actions again.
func (s *Session) Advance() (RoundOutcome, error) {
	if s.resolver == nil {
		return RoundOutcome{Status: s.state.Status}, refuse("advance", ErrIdle, Cell{})
	}
	ro := s.round()
	if ro.Done {
		s.resolver = nil
		s.state.Busy = false
		s.evaluate()
	}
	ro.Status = s.state.Status
	return ro, nil
}

// round executes one resolver round and folds it into the counters.
func (s *Session) round() RoundOutcome {
	rr := s.resolver.Step()
	n := len(rr.Exploded)
	s.state.Combo += n
	s.stats.TotalDischarges += n
	s.stats.BestCombo = max(s.stats.BestCombo, s.state.Combo)
	s.emit(rr.Events)

	s.log.Debug("round resolved", "round", rr.Round, "exploded", n, "next", len(rr.Next), "misses", rr.Misses)
	if rr.CapHit {
		s.stats.CapHits++
		s.log.Warn("resolution hit round cap", "rounds", rr.Round, "forced", len(rr.Forced), "level", s.state.Level)
	}

	return RoundOutcome{
		Round:      rr.Round,
		Exploded:   rr.Exploded,
		Events:     rr.Events,
		ComboDelta: n,
		Done:       s.resolver.Done(),
		CapHit:     rr.CapHit,
		Status:     s.state.Status,
	}
}
