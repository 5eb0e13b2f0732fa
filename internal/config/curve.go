package config

import (
	"fmt"
	"math"

	"github.com/elmandalorian-thx/droplit/internal/droplit"
)

// Curve generates level configs. Placements shrink and both the empty cell
// count and the high/mid ratios grow with the level number, each clamped.
type Curve struct {
	Placements PlacementCurve `yaml:"placements"`
	EmptyCells EmptyCurve     `yaml:"empty_cells"`
	HighRatio  RatioCurve     `yaml:"high_ratio"`
	MidRatio   RatioCurve     `yaml:"mid_ratio"`

	// PlacementBonus is set by difficulty presets, not by YAML.
	PlacementBonus int `yaml:"-"`
}

// PlacementCurve: max(Min, Base - floor(level*PerLevel)).
type PlacementCurve struct {
	Base     int     `yaml:"base"`
	PerLevel float64 `yaml:"per_level"`
	Min      int     `yaml:"min"`
}

// EmptyCurve: min(Max, floor(level/Every)).
type EmptyCurve struct {
	Every int `yaml:"every"`
	Max   int `yaml:"max"`
}

// RatioCurve: min(Max, Base + level*PerLevel).
type RatioCurve struct {
	Base     float64 `yaml:"base"`
	PerLevel float64 `yaml:"per_level"`
	Max      float64 `yaml:"max"`
}

// Validate rejects curves that can produce invalid level configs.
func (c Curve) Validate() error {
	if c.EmptyCells.Every < 1 {
		return fmt.Errorf("curve: empty_cells.every must be positive")
	}
	if c.Placements.Min < 1 {
		return fmt.Errorf("curve: placements.min must be positive")
	}
	if c.HighRatio.Max+c.MidRatio.Max > 1 {
		return fmt.Errorf("curve: high_ratio.max + mid_ratio.max exceeds 1")
	}
	if c.HighRatio.Base < 0 || c.MidRatio.Base < 0 {
		return fmt.Errorf("curve: ratios must not be negative")
	}
	return nil
}

// Level returns the level config for level n (1-based).
func (c Curve) Level(n int) droplit.LevelConfig {
	if n < 1 {
		n = 1
	}
	lv := float64(n)
	placements := max(c.Placements.Min, c.Placements.Base-int(math.Floor(lv*c.Placements.PerLevel)))
	placements = max(1, placements+c.PlacementBonus)

	every := max(1, c.EmptyCells.Every)
	return droplit.LevelConfig{
		Placements: placements,
		EmptyCells: min(c.EmptyCells.Max, n/every),
		HighRatio:  math.Min(c.HighRatio.Max, c.HighRatio.Base+lv*c.HighRatio.PerLevel),
		MidRatio:   math.Min(c.MidRatio.Max, c.MidRatio.Base+lv*c.MidRatio.PerLevel),
	}
}

// DifficultyMessage returns the flavour line shown for a level.
func DifficultyMessage(level int) string {
	switch {
	case level <= 5:
		return "Breathe and observe."
	case level <= 10:
		return "Patterns emerge."
	case level <= 20:
		return "Flow with intention."
	case level <= 30:
		return "Deeper waters."
	case level <= 40:
		return "Mastery in stillness."
	default:
		return "One with the current."
	}
}

// VisibleLevels returns how many levels the level list shows for a player
// whose highest cleared level is highest.
func VisibleLevels(highest int) int {
	return min(50, max(20, highest+5))
}

// Unlocked reports whether a level can be started.
func Unlocked(level, highest int) bool {
	return level >= 1 && level <= max(1, highest+1)
}
