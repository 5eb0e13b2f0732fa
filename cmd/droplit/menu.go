package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/elmandalorian-thx/droplit/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the interactive menu",
	Long: `Open the Droplit menu: continue the campaign, pick an unlocked level,
play puzzles or browse the leaderboard.

Without --profile you are asked who is playing.`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
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

	return tui.RunSession(store, runtimeConfig(), rules, strings.TrimSpace(viper.GetString("profile")))
}
