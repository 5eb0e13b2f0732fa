package main

import (
	"fmt"

	"github.com/spf13/cobra"

	game "github.com/elmandalorian-thx/droplit/internal/games/droplit"
	"github.com/elmandalorian-thx/droplit/internal/platform/tui"
	"github.com/elmandalorian-thx/droplit/internal/registry"
	"github.com/elmandalorian-thx/droplit/internal/storage"
)

var (
	flagLevel  int
	flagPuzzle string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the campaign or a puzzle",
	Long: `Start playing Droplit directly.

Controls:
  Arrows/WASD  - Move cursor
  Enter/Space  - Drop a charge, or fire the armed powerup
  1 2 3 4      - Rain, Freeze, Bomb, Laser (press again to disarm)
  X            - Toggle laser row/column
  P            - Pause
  R            - Retry level
  Esc/Q        - Quit

Difficulty options:
  easy   - 10 extra drops per level
  normal - The standard curve
  hard   - 5 fewer drops per level
  fixed  - Replay the start level instead of advancing

Examples:
  droplit play
  droplit play --level 10
  droplit play --difficulty hard
  droplit play --puzzle p02
  droplit play --config ./my-rules.yaml`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagLevel, "level", 0, "Campaign level to start at (default: the profile's current level)")
	playCmd.Flags().StringVar(&flagPuzzle, "puzzle", "", "Play puzzle mode, starting at this puzzle id")
}

func runPlay(cmd *cobra.Command, _ []string) error {
	logger, closeLog := fileLogger()
	defer closeLog()

	cfg, rules, err := loadGameConfig()
	if err != nil {
		return err
	}
	setupGame(cfg, logger)

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	var profile *storage.Profile
	if store != nil {
		profile, err = store.GetOrCreateProfile(profileName())
		if err != nil {
			logger.Warn("could not load profile", "error", err)
		}
	}

	rc := runtimeConfig()
	id := game.CampaignID
	switch {
	case cmd.Flags().Changed("puzzle"):
		id = game.PuzzlesID
		rc.PuzzleID = flagPuzzle
	case flagLevel > 0:
		rc.StartLevel = flagLevel
	case profile != nil:
		rc.StartLevel = max(1, profile.Stats.CurrentLevel)
	}

	g, err := registry.Create(id)
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}
	if err := tui.Run(g, store, profile, rules, rc); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}
