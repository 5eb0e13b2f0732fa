package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/elmandalorian-thx/droplit/internal/core"
	engine "github.com/elmandalorian-thx/droplit/internal/droplit"
	game "github.com/elmandalorian-thx/droplit/internal/games/droplit"
	"github.com/elmandalorian-thx/droplit/internal/registry"
	"github.com/elmandalorian-thx/droplit/internal/storage"
)

type sessionScreen int

const (
	screenProfile sessionScreen = iota
	screenMenu
	screenLevels
	screenScores
	screenGame
)

// SessionModel manages the full session flow: profile -> menu -> game -> menu.
// It is the top-level model for both the local menu and SSH sessions.
type SessionModel struct {
	store     *storage.Store
	config    core.RuntimeConfig
	rules     engine.Rules
	log       *log.Logger
	profile   *storage.Profile
	canSwitch bool
	screen    sessionScreen

	prompt    ProfileModel
	menu      MenuModel
	levels    LevelsModel
	scores    ScoreboardModel
	gameModel *GameModel
	quitting  bool
}

// NewSessionModel creates a session. A non-empty profileName skips the
// name prompt. store may be nil.
func NewSessionModel(store *storage.Store, cfg core.RuntimeConfig, rules engine.Rules, profileName string) SessionModel {
	m := SessionModel{
		store:     store,
		config:    cfg,
		rules:     rules,
		log:       log.Default(),
		canSwitch: store != nil && profileName == "",
	}
	if profileName != "" {
		m.profile = m.loadProfile(profileName)
		m.toMenu()
		return m
	}
	m.prompt = NewProfileModel(store, "", cfg.ScreenW)
	m.screen = screenProfile
	return m
}

// SetLogger replaces the session logger.
func (m *SessionModel) SetLogger(l *log.Logger) {
	m.log = l
}

func (m SessionModel) loadProfile(name string) *storage.Profile {
	if m.store == nil {
		return &storage.Profile{Name: name, Stats: storage.ProfileStats{CurrentLevel: 1}}
	}
	p, err := m.store.GetOrCreateProfile(name)
	if err != nil {
		m.log.Warn("could not load profile", "name", name, "error", err)
		return nil
	}
	return p
}

func (m *SessionModel) toMenu() {
	m.menu = NewMenuModel(m.profile, m.config, m.canSwitch)
	m.screen = screenMenu
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	if m.screen == screenProfile {
		return m.prompt.Init()
	}
	return nil
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenProfile:
		return m.updateProfile(msg)
	case screenLevels:
		return m.updateLevels(msg)
	case screenScores:
		return m.updateScores(msg)
	case screenGame:
		return m.updateGame(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) updateProfile(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.prompt.Update(msg)
	m.prompt = next.(ProfileModel)
	if m.prompt.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if p := m.prompt.Profile(); p != nil {
		m.profile = p
		m.toMenu()
		m.log.Info("player joined", "profile", p.Name)
		return m, nil
	}
	return m, cmd
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	m.menu = next.(MenuModel)

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	selected := m.menu.Selected()
	if selected == nil {
		return m, cmd
	}
	m.config = m.menu.Config()

	switch selected.Choice {
	case ChoiceContinue, ChoiceNewGame:
		return m.startGame(game.CampaignID, selected.Level, "")
	case ChoicePuzzles:
		return m.startGame(game.PuzzlesID, 1, "")
	case ChoiceLevels:
		m.levels = NewLevelsModel(m.profile, m.config)
		m.screen = screenLevels
	case ChoiceLeaderboard:
		m.scores = NewScoreboardModel(m.store, m.config.ScreenW, m.config.ScreenH)
		m.screen = screenScores
	case ChoiceProfile:
		name := ""
		if m.profile != nil {
			name = m.profile.Name
		}
		m.prompt = NewProfileModel(m.store, name, m.config.ScreenW)
		m.screen = screenProfile
		return m, m.prompt.Init()
	}
	return m, nil
}

func (m SessionModel) updateLevels(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.levels.Update(msg)
	m.levels = next.(LevelsModel)
	switch {
	case m.levels.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.levels.IsGoingBack():
		m.toMenu()
		return m, nil
	case m.levels.Chosen() > 0:
		return m.startGame(game.CampaignID, m.levels.Chosen(), "")
	}
	return m, cmd
}

func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scores.Update(msg)
	m.scores = next.(ScoreboardModel)
	switch {
	case m.scores.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.scores.IsGoingBack():
		m.toMenu()
		return m, nil
	}
	return m, cmd
}

// startGame creates the game for id and switches to it.
func (m SessionModel) startGame(id string, level int, puzzleID string) (tea.Model, tea.Cmd) {
	g, err := registry.Create(id)
	if err != nil {
		m.log.Error("could not start game", "game", id, "error", err)
		m.toMenu()
		return m, nil
	}

	cfg := m.config
	cfg.StartLevel = level
	cfg.PuzzleID = puzzleID
	gm := NewGameModel(g, m.store, m.profile, m.rules, cfg)
	gm.log = m.log
	m.gameModel = &gm
	m.screen = screenGame
	return m, m.gameModel.Init()
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.gameModel.Update(msg)
	gm := next.(GameModel)
	m.gameModel = &gm

	if gm.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if gm.BackToMenu() {
		m.profile = gm.Profile()
		m.gameModel = nil
		m.toMenu()
		return m, nil
	}
	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.screen {
	case screenProfile:
		return m.prompt.View()
	case screenLevels:
		return m.levels.View()
	case screenScores:
		return m.scores.View()
	case screenGame:
		return m.gameModel.View()
	default:
		return m.menu.View()
	}
}

// Profile returns the active profile, if any.
func (m SessionModel) Profile() *storage.Profile {
	return m.profile
}

// RunSession runs the interactive session in the local terminal.
func RunSession(store *storage.Store, cfg core.RuntimeConfig, rules engine.Rules, profileName string) error {
	p := tea.NewProgram(NewSessionModel(store, cfg, rules, profileName), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
