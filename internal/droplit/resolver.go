package droplit

// RoundResult describes one discharge/project/apply batch.
type RoundResult struct {
	Round    int
	Exploded []Cell  // Cells discharged this round
	Next     []Cell  // Cells that will explode next round
	Events   []Event // Discharges first, then impacts in projection order
	Misses   int     // Impacts that left the grid
	CapHit   bool    // Round cap reached; Forced lists the cleared cells
	Forced   []Cell
}

// Resolution is the accumulated result of a full resolution sequence.
type Resolution struct {
	Rounds int
	Combo  int // Cells discharged across all rounds
	Events []Event
	CapHit bool
	Forced []Cell
}

// Resolver runs the chain reaction as an explicit round-batched loop.
//
// Each round discharges every pending cell at once, then projects four
// impacts per discharged cell against the post-discharge grid, then applies
// all landed impacts. Cells pushed over the threshold explode next round.
type Resolver struct {
	grid      *Grid
	threshold int
	maxRounds int

	pending []Cell
	round   int
	combo   int
	done    bool
	capHit  bool
}

// NewResolver prepares a resolution over g starting from seeds.
// Duplicate and out-of-bounds seeds are dropped. A resolver with no valid
// seeds is already done.
func NewResolver(g *Grid, seeds []Cell, threshold, maxRounds int) *Resolver {
	if maxRounds < 1 {
		maxRounds = 1
	}
	r := &Resolver{
		grid:      g,
		threshold: threshold,
		maxRounds: maxRounds,
	}
	seen := make(map[Cell]bool, len(seeds))
	for _, c := range seeds {
		if !g.InBounds(c) || seen[c] {
			continue
		}
		seen[c] = true
		r.pending = append(r.pending, c)
	}
	r.done = len(r.pending) == 0
	return r
}

// Done reports whether the sequence has reached its fixpoint or the cap.
func (r *Resolver) Done() bool { return r.done }

// Round returns the number of rounds executed so far.
func (r *Resolver) Round() int { return r.round }

// Combo returns the number of cells discharged so far.
func (r *Resolver) Combo() int { return r.combo }

// CapHit reports whether the round cap forced termination.
func (r *Resolver) CapHit() bool { return r.capHit }

// Pending returns the cells queued to explode in the next round.
func (r *Resolver) Pending() []Cell {
	out := make([]Cell, len(r.pending))
	copy(out, r.pending)
	return out
}

type impact struct {
	from, to Cell
	dir      Dir
	landed   bool
}

// Step executes one round. Calling Step on a finished resolver returns a
// zero RoundResult.
func (r *Resolver) Step() RoundResult {
	if r.done {
		return RoundResult{Round: r.round}
	}
	r.round++
	exploding := r.pending
	r.pending = nil

	res := RoundResult{
		Round:    r.round,
		Exploded: exploding,
		Events:   make([]Event, 0, len(exploding)*5),
	}

	// Discharge all before any projection.
	for _, c := range exploding {
		r.grid.Set(c, 0)
		res.Events = append(res.Events, Discharge(r.round, c))
	}

	// Project all against the post-discharge grid.
	impacts := make([]impact, 0, len(exploding)*len(Directions))
	for _, c := range exploding {
		for _, d := range Directions {
			to, landed := r.grid.Raycast(c, d)
			impacts = append(impacts, impact{from: c, to: to, dir: d, landed: landed})
		}
	}

	// Apply all.
	queued := make(map[Cell]bool)
	for _, imp := range impacts {
		res.Events = append(res.Events, Impact(r.round, imp.from, imp.to, imp.dir, imp.landed))
		if !imp.landed {
			res.Misses++
			continue
		}
		if r.grid.Increment(imp.to, 1) > r.threshold && !queued[imp.to] {
			queued[imp.to] = true
			res.Next = append(res.Next, imp.to)
		}
	}

	r.combo += len(exploding)

	switch {
	case len(res.Next) == 0:
		r.done = true
	case r.round >= r.maxRounds:
		res.Forced = r.forceClear()
		res.CapHit = true
		res.Next = nil
		r.capHit = true
		r.done = true
	default:
		r.pending = res.Next
	}
	return res
}

// forceClear zeroes every over-threshold cell without propagation.
func (r *Resolver) forceClear() []Cell {
	cells := r.grid.Above(r.threshold)
	for _, c := range cells {
		r.grid.Set(c, 0)
	}
	return cells
}

// Run steps until done and returns the accumulated resolution.
func (r *Resolver) Run() Resolution {
	var out Resolution
	for !r.done {
		res := r.Step()
		out.Events = append(out.Events, res.Events...)
		if res.CapHit {
			out.CapHit = true
			out.Forced = res.Forced
		}
	}
	out.Rounds = r.round
	out.Combo = r.combo
	return out
}
