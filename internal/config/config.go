// Package config provides YAML-based configuration loading for Droplit:
// grid rules, the level curve, powerup unlocks and animation pacing.
package config

import (
	"fmt"

	"github.com/elmandalorian-thx/droplit/internal/droplit"
)

// DroplitConfig contains all configuration for the game.
type DroplitConfig struct {
	Grid       GridConfig       `yaml:"grid"`
	Rules      RulesConfig      `yaml:"rules"`
	Curve      Curve            `yaml:"curve"`
	Powerups   []UnlockConfig   `yaml:"powerups"`
	Pacing     PacingConfig     `yaml:"pacing"`
	Fresh      FreshConfig      `yaml:"fresh"`
	Difficulty DifficultyPreset `yaml:"difficulty"`
}

// GridConfig defines the board dimensions.
type GridConfig struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// RulesConfig defines the chain reaction parameters.
type RulesConfig struct {
	CriticalCharge int `yaml:"critical_charge"`
	MaxRounds      int `yaml:"max_rounds"`
	RainCap        int `yaml:"rain_cap"`
}

// UnlockConfig grants a powerup from a level onwards.
type UnlockConfig struct {
	Kind      string `yaml:"kind"`
	FromLevel int    `yaml:"from_level"`
	Uses      int    `yaml:"uses"`
}

// PacingConfig defines how long the renderer shows each stage.
type PacingConfig struct {
	RoundMs  int `yaml:"round_ms"`  // Delay between resolver rounds
	ImpactMs int `yaml:"impact_ms"` // Lifetime of impact markers
	ClearMs  int `yaml:"clear_ms"`  // Lifetime of bomb/laser markers
}

// FreshConfig defines the empty sandbox board.
type FreshConfig struct {
	Placements int `yaml:"placements"`
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset validates a preset name. Empty means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", s)
	}
}

// IsFixedPreset returns true if the preset disables level progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *DroplitConfig, preset DifficultyPreset) {
	cfg.Difficulty = preset
	switch preset {
	case DifficultyEasy:
		cfg.Curve.PlacementBonus = 10
	case DifficultyHard:
		cfg.Curve.PlacementBonus = -5
	default:
		cfg.Curve.PlacementBonus = 0
	}
}

// EngineRules converts the config into engine rules.
func (c DroplitConfig) EngineRules() (droplit.Rules, error) {
	rules := droplit.Rules{
		Rows:            c.Grid.Rows,
		Cols:            c.Grid.Cols,
		CriticalCharge:  c.Rules.CriticalCharge,
		MaxRounds:       c.Rules.MaxRounds,
		RainCap:         c.Rules.RainCap,
		FreshPlacements: c.Fresh.Placements,
	}
	for _, u := range c.Powerups {
		kind, err := droplit.ParsePowerup(u.Kind)
		if err != nil {
			return droplit.Rules{}, fmt.Errorf("invalid powerup unlock: %w", err)
		}
		rules.Unlocks = append(rules.Unlocks, droplit.Unlock{Kind: kind, FromLevel: u.FromLevel, Uses: u.Uses})
	}
	if err := rules.Validate(); err != nil {
		return droplit.Rules{}, err
	}
	return rules, nil
}

// Level returns the curve's config for level n fitted to the grid. At least
// one cell of every level holds a charge.
func (c DroplitConfig) Level(n int) droplit.LevelConfig {
	lc := c.Curve.Level(n)
	lc.EmptyCells = min(lc.EmptyCells, max(0, c.Grid.Rows*c.Grid.Cols-1))
	return lc
}

// Validate checks the config is usable by the engine and the renderer.
func (c DroplitConfig) Validate() error {
	if _, err := c.EngineRules(); err != nil {
		return err
	}
	if cells := c.Grid.Rows * c.Grid.Cols; c.Curve.EmptyCells.Max >= cells {
		return fmt.Errorf("curve: empty_cells.max %d must be below the %d grid cells", c.Curve.EmptyCells.Max, cells)
	}
	if c.Pacing.RoundMs < 0 || c.Pacing.ImpactMs < 0 || c.Pacing.ClearMs < 0 {
		return fmt.Errorf("pacing durations must not be negative")
	}
	if _, err := ParsePreset(string(c.Difficulty)); err != nil {
		return err
	}
	return c.Curve.Validate()
}
