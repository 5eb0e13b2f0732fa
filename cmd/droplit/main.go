// droplit is a chain-reaction grid puzzle for the terminal.
//
// Usage:
//
//	droplit play             - Play the campaign (or a puzzle with --puzzle)
//	droplit menu             - Start the interactive menu
//	droplit levels           - Show the level curve and unlock status
//	droplit puzzles          - List available puzzles
//	droplit scores           - Show run high scores
//	droplit profiles         - List, show and delete player profiles
//	droplit serve            - Serve over SSH and/or WebSocket
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible boards
//	--db <path>           - Set database path (default: ~/.droplit/droplit.db)
//	--profile <name>      - Player profile name
//	--difficulty <preset> - easy, normal, hard or fixed
//	--config <path>       - Custom rules/curve YAML
//	--log-level <level>   - debug, info, warn or error
//
// Every flag can also be set with a DROPLIT_ environment variable or in
// ~/.droplit/settings.yaml.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/elmandalorian-thx/droplit/internal/config"
	"github.com/elmandalorian-thx/droplit/internal/core"
	engine "github.com/elmandalorian-thx/droplit/internal/droplit"
	game "github.com/elmandalorian-thx/droplit/internal/games/droplit"
	"github.com/elmandalorian-thx/droplit/internal/storage"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "droplit",
	Short: "Droplit - one drop, then the chain",
	Long: `Droplit is a chain-reaction grid puzzle. Drop charges on cells; a cell
pushed past its critical charge discharges into its neighbours in every
direction, and whole boards can clear from a single well-placed drop.

Available commands:
  play      - Play the campaign or a puzzle
  menu      - Interactive menu with profiles and level select
  levels    - Show the level curve
  puzzles   - List puzzles
  scores    - View run high scores
  profiles  - Manage player profiles
  serve     - Serve over SSH and WebSocket

Examples:
  droplit play
  droplit play --level 12 --difficulty hard
  droplit play --puzzle p02
  droplit menu --profile ada
  droplit serve --ssh :23234 --ws :8080`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return initSettings(cmd)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.Int("fps", 60, "Tick rate (frames per second)")
	flags.Int64("seed", 0, "RNG seed (0 = random based on time)")
	flags.String("db", "~/.droplit/droplit.db", "Path to the database")
	flags.String("profile", "", "Player profile name")
	flags.String("difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	flags.String("config", "", "Path to custom rules YAML")
	flags.String("log-level", "warn", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(puzzlesCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(profilesCmd)
	rootCmd.AddCommand(serveCmd)
}

// initSettings layers flags over DROPLIT_ environment variables over the
// optional settings file.
func initSettings(cmd *cobra.Command) error {
	viper.SetEnvPrefix("droplit")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if dir := config.HomeDir(); dir != "" {
		viper.SetConfigFile(filepath.Join(dir, "settings.yaml"))
		if err := viper.ReadInConfig(); err != nil && !settingsMissing(err) {
			return fmt.Errorf("failed to read settings: %w", err)
		}
	}
	return viper.BindPFlags(cmd.Flags())
}

func settingsMissing(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound)
}

// newLogger creates the process logger at the configured level.
func newLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		level = log.WarnLevel
	}
	logger.SetLevel(level)
	return logger
}

// fileLogger logs to ~/.droplit/droplit.log so the terminal UI stays clean,
// and installs the logger as the default. It falls back to discarding output.
func fileLogger() (*log.Logger, func()) {
	dir := config.HomeDir()
	if dir == "" {
		log.SetDefault(newLogger(io.Discard, "droplit"))
		return log.Default(), func() {}
	}
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)
	f, err := os.OpenFile(filepath.Join(dir, "droplit.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		log.SetDefault(newLogger(io.Discard, "droplit"))
		return log.Default(), func() {}
	}
	logger := newLogger(f, "droplit")
	log.SetDefault(logger)
	return logger, func() { f.Close() }
}

// loadGameConfig loads the rules/curve document and applies the difficulty
// preset from the flags.
func loadGameConfig() (config.DroplitConfig, engine.Rules, error) {
	cfg, err := config.Load(viper.GetString("config"))
	if err != nil {
		return config.DroplitConfig{}, engine.Rules{}, err
	}
	if d := viper.GetString("difficulty"); d != "" {
		preset, err := config.ParsePreset(d)
		if err != nil {
			return config.DroplitConfig{}, engine.Rules{}, err
		}
		config.ApplyPreset(&cfg, preset)
	}
	rules, err := cfg.EngineRules()
	if err != nil {
		return config.DroplitConfig{}, engine.Rules{}, err
	}
	return cfg, rules, nil
}

// setupGame hands configuration to the game package before games are created.
func setupGame(cfg config.DroplitConfig, logger *log.Logger) {
	game.SetConfig(cfg)
	game.SetLogger(logger)
	if dir := config.HomeDir(); dir != "" {
		game.SetPuzzleDir(filepath.Join(dir, "puzzles"))
	}
}

// runtimeConfig builds the runtime config from the terminal size and flags.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = viper.GetInt("fps")
	cfg.Seed = viper.GetInt64("seed")
	return cfg
}

// openStore opens the database. Play commands continue without one.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(viper.GetString("db"))
	if err != nil {
		logger.Warn("could not open database, progress will not be saved", "error", err)
		return nil
	}
	return store
}

// profileName returns the --profile setting, falling back to the login name.
func profileName() string {
	if name := strings.TrimSpace(viper.GetString("profile")); name != "" {
		return name
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "player"
}
