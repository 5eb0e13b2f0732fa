package core

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW    int    // Screen width in characters
	ScreenH    int    // Screen height in characters
	TickRate   int    // Simulation ticks per second (default 60)
	Seed       int64  // RNG seed for deterministic gameplay
	StartLevel int    // Campaign level to begin at (default 1)
	PuzzleID   string // Puzzle to open in puzzle mode; empty picks the first
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:    80,
		ScreenH:    24,
		TickRate:   60,
		Seed:       0, // 0 means use current time in platform layer
		StartLevel: 1,
	}
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score    int  // Cells discharged over the run
	Level    int  // Current level, or puzzle index in puzzle mode
	GameOver bool // Whether the run has ended
	Paused   bool // Whether the game is paused
}

// LevelResult summarises one finished level attempt for the profile store.
type LevelResult struct {
	Level      int
	Won        bool
	BestCombo  int
	DropsUsed  int
	Discharges int
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
	// Finished is set on the tick a level attempt ends.
	Finished *LevelResult
}
