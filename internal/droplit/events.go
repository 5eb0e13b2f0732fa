package droplit

// EventKind identifies what happened to a cell.
type EventKind uint8

const (
	// EventDischarge: an exploding cell emptied.
	EventDischarge EventKind = iota
	// EventImpact: a projection from From reached Cell. Landed is false for
	// misses, in which case Cell is the first coordinate past the grid edge.
	EventImpact
	// EventClear: Bomb or Laser removed the charge at Cell.
	EventClear
)

// String returns the event kind name used in logs and on the wire.
func (k EventKind) String() string {
	switch k {
	case EventDischarge:
		return "discharge"
	case EventImpact:
		return "impact"
	case EventClear:
		return "clear"
	default:
		return "unknown"
	}
}

// Event is an identity-free record of one visual occurrence.
// Renderers assign their own keys.
type Event struct {
	Kind   EventKind
	Round  int  // Resolver round (1-based); 0 for non-chaining actions
	Cell   Cell // Discharged/cleared cell, or impact destination
	From   Cell // Impact source; zero for other kinds
	Dir    Dir  // Impact direction
	Landed bool // Impact deposited charge on a target
}

// Discharge builds a discharge event.
func Discharge(round int, c Cell) Event {
	return Event{Kind: EventDischarge, Round: round, Cell: c}
}

// Impact builds an impact event.
func Impact(round int, from, to Cell, d Dir, landed bool) Event {
	return Event{Kind: EventImpact, Round: round, Cell: to, From: from, Dir: d, Landed: landed}
}

// Clear builds a clear event.
func Clear(c Cell) Event {
	return Event{Kind: EventClear, Cell: c}
}
