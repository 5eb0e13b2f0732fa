package droplit

import (
	"fmt"
	"strings"
)

// PowerupKind names a one-shot ability.
type PowerupKind uint8

const (
	PowerupNone PowerupKind = iota
	PowerupRain
	PowerupFreeze
	PowerupBomb
	PowerupLaser
)

// PowerupKinds lists the abilities in bar order.
var PowerupKinds = [4]PowerupKind{PowerupRain, PowerupFreeze, PowerupBomb, PowerupLaser}

func (k PowerupKind) String() string {
	switch k {
	case PowerupRain:
		return "rain"
	case PowerupFreeze:
		return "freeze"
	case PowerupBomb:
		return "bomb"
	case PowerupLaser:
		return "laser"
	default:
		return "none"
	}
}

// NeedsTarget reports whether the ability is aimed at a cell.
func (k PowerupKind) NeedsTarget() bool {
	return k == PowerupRain || k == PowerupBomb || k == PowerupLaser
}

// ParsePowerup converts a name to a PowerupKind.
func ParsePowerup(s string) (PowerupKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rain":
		return PowerupRain, nil
	case "freeze":
		return PowerupFreeze, nil
	case "bomb":
		return PowerupBomb, nil
	case "laser":
		return PowerupLaser, nil
	default:
		return PowerupNone, fmt.Errorf("droplit: unknown powerup %q", s)
	}
}

// Inventory holds remaining uses per powerup kind.
type Inventory struct {
	Rain   int `yaml:"rain" json:"rain"`
	Freeze int `yaml:"freeze" json:"freeze"`
	Bomb   int `yaml:"bomb" json:"bomb"`
	Laser  int `yaml:"laser" json:"laser"`
}

// Count returns the remaining uses of k.
func (inv Inventory) Count(k PowerupKind) int {
	switch k {
	case PowerupRain:
		return inv.Rain
	case PowerupFreeze:
		return inv.Freeze
	case PowerupBomb:
		return inv.Bomb
	case PowerupLaser:
		return inv.Laser
	default:
		return 0
	}
}

func (inv *Inventory) add(k PowerupKind, n int) {
	switch k {
	case PowerupRain:
		inv.Rain += n
	case PowerupFreeze:
		inv.Freeze += n
	case PowerupBomb:
		inv.Bomb += n
	case PowerupLaser:
		inv.Laser += n
	}
}

// Validate rejects negative counts.
func (inv Inventory) Validate() error {
	for _, k := range PowerupKinds {
		if inv.Count(k) < 0 {
			return fmt.Errorf("droplit: negative %s count %d", k, inv.Count(k))
		}
	}
	return nil
}

// Axis selects the line a Laser clears.
type Axis uint8

const (
	AxisRow Axis = iota
	AxisColumn
)

// Valid reports whether a is one of the named axes.
func (a Axis) Valid() bool {
	return a == AxisRow || a == AxisColumn
}

func (a Axis) String() string {
	if a == AxisColumn {
		return "column"
	}
	return "row"
}

// Toggle returns the other axis.
func (a Axis) Toggle() Axis {
	if a == AxisRow {
		return AxisColumn
	}
	return AxisRow
}

// ParseAxis converts "row"/"column" (or "col") to an Axis.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "row", "":
		return AxisRow, nil
	case "column", "col":
		return AxisColumn, nil
	default:
		return AxisRow, fmt.Errorf("droplit: unknown axis %q", s)
	}
}
