package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	game "github.com/elmandalorian-thx/droplit/internal/games/droplit"
	"github.com/elmandalorian-thx/droplit/internal/registry"
	"github.com/elmandalorian-thx/droplit/internal/storage"
)

var flagLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show run high scores",
	Long: `Display the top run scores (cells discharged over a campaign run).

Examples:
  droplit scores
  droplit scores droplit --limit 25`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List player profiles by leaderboard rank",
	Args:  cobra.NoArgs,
	RunE:  runProfiles,
}

var profileShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a profile with its recent level runs",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileShow,
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a profile and its history",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileDelete,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of entries to show")
	profilesCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of entries to show")
	profilesCmd.AddCommand(profileShowCmd)
	profilesCmd.AddCommand(profileDeleteCmd)
}

// mustStore opens the database for commands that cannot work without it.
func mustStore() (*storage.Store, error) {
	store, err := storage.Open(viper.GetString("db"))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return store, nil
}

func runScores(_ *cobra.Command, args []string) error {
	gameID := game.CampaignID
	if len(args) == 1 {
		gameID = args[0]
	}
	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown mode %q", gameID)
	}

	store, err := mustStore()
	if err != nil {
		return err
	}
	defer store.Close()

	scores, err := store.TopScores(gameID, flagLimit)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	fmt.Printf("High Scores - %s\n\n", gameID)
	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'droplit play' to set the first high score!")
		return nil
	}

	fmt.Printf("  %-4s  %-16s  %-8s  %s\n", "Rank", "Player", "Score", "Date")
	fmt.Printf("  %-4s  %-16s  %-8s  %s\n", "----", "------", "-----", "----")
	for i, entry := range scores {
		fmt.Printf("  %-4d  %-16s  %-8d  %s\n", i+1, entry.Player, entry.Score, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	if stats, err := store.GetGameStats(gameID); err == nil {
		fmt.Println()
		fmt.Printf("Runs: %d   Best: %d   Average: %.1f\n", stats.GamesCount, stats.HighScore, stats.AvgScore)
	}
	return nil
}

func runProfiles(_ *cobra.Command, _ []string) error {
	store, err := mustStore()
	if err != nil {
		return err
	}
	defer store.Close()

	profiles, err := store.Leaderboard(flagLimit)
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		fmt.Println("No profiles yet.")
		return nil
	}

	fmt.Printf("  %-4s  %-16s  %-7s  %-6s  %-5s  %-5s  %s\n", "Rank", "Player", "Highest", "Clears", "Combo", "Games", "Powerups")
	fmt.Printf("  %-4s  %-16s  %-7s  %-6s  %-5s  %-5s  %s\n", "----", "------", "-------", "------", "-----", "-----", "--------")
	for i, p := range profiles {
		st := p.Stats
		fmt.Printf("  %-4d  %-16s  %-7d  %-6d  %-5d  %-5d  %v\n",
			i+1, p.Name, st.HighestLevel, st.TotalClears, st.BestCombo, st.GamesPlayed, p.Powerups)
	}
	return nil
}

func runProfileShow(_ *cobra.Command, args []string) error {
	store, err := mustStore()
	if err != nil {
		return err
	}
	defer store.Close()

	p, err := store.GetProfileByName(args[0])
	if err != nil {
		return err
	}
	st := p.Stats
	fmt.Printf("%s (created %s)\n\n", p.Name, p.CreatedAt.Format("2006-01-02"))
	fmt.Printf("  Highest level   %d\n", st.HighestLevel)
	fmt.Printf("  Current level   %d\n", st.CurrentLevel)
	fmt.Printf("  Levels cleared  %d\n", st.TotalClears)
	fmt.Printf("  Levels played   %d\n", st.GamesPlayed)
	fmt.Printf("  Best combo      %d\n", st.BestCombo)
	fmt.Printf("  Drops used      %d\n", st.TotalDropsUsed)
	fmt.Printf("  Powerups        %v\n", p.Powerups)

	runs, err := store.RecentRuns(p.ID, flagLimit)
	if err != nil {
		log.Warn("could not load recent runs", "error", err)
		return nil
	}
	if len(runs) > 0 {
		fmt.Println()
		fmt.Printf("  %-5s  %-6s  %-5s  %-5s  %-10s  %s\n", "Level", "Result", "Combo", "Drops", "Discharges", "Date")
		for _, r := range runs {
			result := "lost"
			if r.Won {
				result = "won"
			}
			fmt.Printf("  %-5d  %-6s  %-5d  %-5d  %-10d  %s\n",
				r.Level, result, r.BestCombo, r.DropsUsed, r.Discharges, r.CreatedAt.Format("2006-01-02 15:04"))
		}
	}
	return nil
}

func runProfileDelete(_ *cobra.Command, args []string) error {
	store, err := mustStore()
	if err != nil {
		return err
	}
	defer store.Close()

	p, err := store.GetProfileByName(args[0])
	if errors.Is(err, storage.ErrProfileNotFound) {
		return fmt.Errorf("no profile named %q", args[0])
	}
	if err != nil {
		return err
	}
	if err := store.DeleteProfile(p.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted profile %s.\n", p.Name)
	return nil
}
