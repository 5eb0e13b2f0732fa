package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/elmandalorian-thx/droplit/internal/config"
	"github.com/elmandalorian-thx/droplit/internal/core"
	engine "github.com/elmandalorian-thx/droplit/internal/droplit"
	"github.com/elmandalorian-thx/droplit/internal/registry"
	"github.com/elmandalorian-thx/droplit/internal/storage"
)

// Resizer is implemented by games that can adapt to a new screen size
// without a reset.
type Resizer interface {
	Resize(w, h int)
}

// GameModel is the Bubble Tea model for one running game.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	profile    *storage.Profile
	rules      engine.Rules
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	help       help.Model
	log        *log.Logger
	standalone bool // Back quits the program instead of returning to a menu
	quitting   bool
	backToMenu bool
	scoreSaved bool // Whether score has been saved for current game over
}

// NewGameModel creates a game model. profile may be nil, in which case
// level results are not recorded.
func NewGameModel(game registry.Game, store *storage.Store, profile *storage.Profile, rules engine.Rules, cfg core.RuntimeConfig) GameModel {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	m := GameModel{
		game:       game,
		store:      store,
		profile:    profile,
		rules:      rules,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		help:       help.New(),
		log:        log.Default(),
	}
	m.screen = core.NewScreen(cfg.ScreenW, m.gameConfig().ScreenH)
	return m
}

// gameConfig reserves the bottom row for the help bar.
func (m GameModel) gameConfig() core.RuntimeConfig {
	cfg := m.config
	cfg.ScreenH = max(1, cfg.ScreenH-1)
	return cfg
}

// Init initializes the model and starts the game.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.gameConfig())
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	switch {
	case isQuit:
		m.quitting = true
		return m, tea.Quit
	case action == core.ActionBack:
		if m.standalone {
			m.quitting = true
			return m, tea.Quit
		}
		m.backToMenu = true
		return m, nil
	case action != core.ActionNone:
		m.inputFrame.Set(action)
	}

	return m, nil
}

// handleResize processes window resize events.
func (m GameModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	cfg := m.gameConfig()
	m.screen.Resize(cfg.ScreenW, cfg.ScreenH)

	if r, ok := m.game.(Resizer); ok {
		r.Resize(cfg.ScreenW, cfg.ScreenH)
	} else if !m.gameState.GameOver {
		m.game.Reset(cfg)
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if result.Finished != nil {
		m.recordLevel(*result.Finished)
	}

	// Save score on game over (once)
	if m.gameState.GameOver && !m.scoreSaved && m.gameState.Score > 0 {
		if m.store != nil {
			if _, err := m.store.SaveScore(m.game.ID(), m.playerName(), m.gameState.Score); err != nil {
				m.log.Warn("could not save score", "game", m.game.ID(), "error", err)
			}
		}
		m.scoreSaved = true
	}
	if !m.gameState.GameOver {
		m.scoreSaved = false
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// recordLevel folds a finished level into the profile, unlocking the
// powerups available at the following level.
func (m *GameModel) recordLevel(res core.LevelResult) {
	if m.store == nil || m.profile == nil {
		return
	}
	var unlocked []string
	for _, k := range m.rules.UnlockedAt(res.Level + 1) {
		unlocked = append(unlocked, k.String())
	}
	p, err := m.store.RecordLevelResult(m.profile.ID, res, unlocked...)
	if err != nil {
		m.log.Warn("could not record level result", "profile", m.profile.Name, "level", res.Level, "error", err)
		return
	}
	m.profile = p
}

func (m GameModel) playerName() string {
	if m.profile == nil {
		return ""
	}
	return m.profile.Name
}

// saveScreenshot saves the current screen to a file.
func (m *GameModel) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(config.HomeDir(), "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp)

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(filepath.Join(dir, filename), []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	m.help.Width = m.config.ScreenW
	return RenderScreen(m.screen) + "\n" + centerText(m.help.View(m.keyMapper.Keys()), m.config.ScreenW)
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Profile returns the profile with the stats recorded so far.
func (m GameModel) Profile() *storage.Profile {
	return m.profile
}

// Run starts a single game in its own Bubble Tea program.
func Run(game registry.Game, store *storage.Store, profile *storage.Profile, rules engine.Rules, cfg core.RuntimeConfig) error {
	model := NewGameModel(game, store, profile, rules, cfg)
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
