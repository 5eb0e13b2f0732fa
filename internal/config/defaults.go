package config

import (
	_ "embed"
)

//go:embed defaults/droplit.yaml
var defaultDroplitYAML []byte

// DefaultDroplitConfig returns the default configuration.
func DefaultDroplitConfig() DroplitConfig {
	return DroplitConfig{
		Grid: GridConfig{Rows: 8, Cols: 6},
		Rules: RulesConfig{
			CriticalCharge: 3,
			MaxRounds:      30,
			RainCap:        4,
		},
		Curve: Curve{
			Placements: PlacementCurve{Base: 55, PerLevel: 0.7, Min: 20},
			EmptyCells: EmptyCurve{Every: 3, Max: 20},
			HighRatio:  RatioCurve{Base: 0.08, PerLevel: 0.006, Max: 0.35},
			MidRatio:   RatioCurve{Base: 0.20, PerLevel: 0.004, Max: 0.40},
		},
		Powerups: []UnlockConfig{
			{Kind: "rain", FromLevel: 1, Uses: 1},
			{Kind: "freeze", FromLevel: 5, Uses: 1},
			{Kind: "bomb", FromLevel: 10, Uses: 1},
			{Kind: "laser", FromLevel: 15, Uses: 1},
		},
		Pacing: PacingConfig{
			RoundMs:  450,
			ImpactMs: 800,
			ClearMs:  500,
		},
		Fresh:      FreshConfig{Placements: 40},
		Difficulty: DifficultyNormal,
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultDroplitYAML
}
