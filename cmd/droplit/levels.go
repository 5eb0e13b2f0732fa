package main

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/elmandalorian-thx/droplit/internal/config"
	"github.com/elmandalorian-thx/droplit/internal/puzzles"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Show the level curve and unlock status",
	Long: `Print the generated level parameters: drop budget, empty cells and the
share of high (3) and mid (2) charge cells. With a database, levels the
profile has not unlocked yet are marked.

Examples:
  droplit levels
  droplit levels --profile ada --difficulty hard`,
	Args: cobra.NoArgs,
	RunE: runLevels,
}

var puzzlesCmd = &cobra.Command{
	Use:   "puzzles",
	Short: "List available puzzles",
	Long: `List the built-in puzzles together with any found in ~/.droplit/puzzles.
A user puzzle with the same id as a built-in one replaces it.`,
	Args: cobra.NoArgs,
	RunE: runPuzzles,
}

func runLevels(_ *cobra.Command, _ []string) error {
	cfg, rules, err := loadGameConfig()
	if err != nil {
		return err
	}

	highest := -1
	if store := openStore(log.Default()); store != nil {
		defer store.Close()
		if p, err := store.GetProfileByName(profileName()); err == nil {
			highest = p.Stats.HighestLevel
		}
	}

	count := config.VisibleLevels(max(0, highest))
	fmt.Printf("Levels (%s, %dx%d)\n\n", cfg.Difficulty, rules.Rows, rules.Cols)
	fmt.Printf("  %-5s  %-5s  %-5s  %-5s  %-5s  %-8s  %s\n", "Level", "Drops", "Empty", "High", "Mid", "Powerups", "Note")
	fmt.Printf("  %-5s  %-5s  %-5s  %-5s  %-5s  %-8s  %s\n", "-----", "-----", "-----", "----", "---", "--------", "----")

	for n := 1; n <= count; n++ {
		lc := cfg.Level(n)
		note := config.DifficultyMessage(n)
		if highest >= 0 && !config.Unlocked(n, highest) {
			note = "locked"
		}
		fmt.Printf("  %-5d  %-5d  %-5d  %-5.2f  %-5.2f  %-8d  %s\n",
			n, lc.Placements, lc.EmptyCells, lc.HighRatio, lc.MidRatio, len(rules.UnlockedAt(n)), note)
	}
	return nil
}

func runPuzzles(_ *cobra.Command, _ []string) error {
	dir := ""
	if home := config.HomeDir(); home != "" {
		dir = filepath.Join(home, "puzzles")
	}
	pzs, err := puzzles.Catalog(dir)
	if err != nil {
		return err
	}
	if len(pzs) == 0 {
		fmt.Println("No puzzles available.")
		return nil
	}

	maxIDLen := 2 // "ID" header
	for _, pz := range pzs {
		maxIDLen = max(maxIDLen, len(pz.ID))
	}

	fmt.Println("Available puzzles:")
	fmt.Println()
	fmt.Printf("  %-*s  %-5s  %-5s  %s\n", maxIDLen, "ID", "Size", "Drops", "Name")
	fmt.Printf("  %-*s  %-5s  %-5s  %s\n", maxIDLen, "--", "----", "-----", "----")
	for _, pz := range pzs {
		size := fmt.Sprintf("%dx%d", pz.Rows(), pz.Cols())
		fmt.Printf("  %-*s  %-5s  %-5d  %s\n", maxIDLen, pz.ID, size, pz.Placements, pz.Name)
	}
	fmt.Println()
	fmt.Println("Run 'droplit play --puzzle <id>' to play one.")
	return nil
}
