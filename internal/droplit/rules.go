package droplit

import "fmt"

// Unlock grants uses of a powerup from a level onwards.
type Unlock struct {
	Kind      PowerupKind
	FromLevel int
	Uses      int
}

// Rules are the fixed parameters of a session.
type Rules struct {
	Rows            int
	Cols            int
	CriticalCharge  int // A cell above this value discharges
	MaxRounds       int // Resolver safety cap
	RainCap         int // Rain never raises a cell above this before resolution
	FreshPlacements int // Budget for ResetToFreshGrid
	Unlocks         []Unlock
}

// DefaultRules returns the reference configuration.
func DefaultRules() Rules {
	return Rules{
		Rows:            8,
		Cols:            6,
		CriticalCharge:  3,
		MaxRounds:       30,
		RainCap:         4,
		FreshPlacements: 40,
		Unlocks: []Unlock{
			{Kind: PowerupRain, FromLevel: 1, Uses: 1},
			{Kind: PowerupFreeze, FromLevel: 5, Uses: 1},
			{Kind: PowerupBomb, FromLevel: 10, Uses: 1},
			{Kind: PowerupLaser, FromLevel: 15, Uses: 1},
		},
	}
}

// Validate checks the rules are usable.
func (r Rules) Validate() error {
	if r.Rows < 1 || r.Cols < 1 {
		return fmt.Errorf("droplit: invalid grid size %dx%d", r.Rows, r.Cols)
	}
	if r.CriticalCharge < 3 {
		return fmt.Errorf("droplit: critical charge must be at least 3, got %d", r.CriticalCharge)
	}
	if r.MaxRounds < 1 {
		return fmt.Errorf("droplit: max rounds must be positive, got %d", r.MaxRounds)
	}
	if r.RainCap <= r.CriticalCharge {
		return fmt.Errorf("droplit: rain cap %d must exceed critical charge %d", r.RainCap, r.CriticalCharge)
	}
	if r.FreshPlacements < 0 {
		return fmt.Errorf("droplit: negative fresh placements %d", r.FreshPlacements)
	}
	for _, u := range r.Unlocks {
		if u.Kind == PowerupNone || u.Uses < 0 {
			return fmt.Errorf("droplit: invalid unlock %+v", u)
		}
	}
	return nil
}

// InventoryFor returns the powerup uses granted at a level.
func (r Rules) InventoryFor(level int) Inventory {
	var inv Inventory
	for _, u := range r.Unlocks {
		if level >= u.FromLevel {
			inv.add(u.Kind, u.Uses)
		}
	}
	return inv
}

// UnlockedAt returns the kinds available at a level, in bar order.
func (r Rules) UnlockedAt(level int) []PowerupKind {
	inv := r.InventoryFor(level)
	var kinds []PowerupKind
	for _, k := range PowerupKinds {
		if inv.Count(k) > 0 {
			kinds = append(kinds, k)
		}
	}
	return kinds
}
