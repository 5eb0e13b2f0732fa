package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/elmandalorian-thx/droplit/internal/config"
	"github.com/elmandalorian-thx/droplit/internal/core"
	"github.com/elmandalorian-thx/droplit/internal/storage"
)

// MenuChoice identifies a main menu entry.
type MenuChoice int

const (
	ChoiceNone MenuChoice = iota
	ChoiceContinue
	ChoiceNewGame
	ChoiceLevels
	ChoicePuzzles
	ChoiceLeaderboard
	ChoiceProfile
	ChoiceQuit
)

// MenuItem represents a selectable menu entry.
type MenuItem struct {
	Choice MenuChoice
	Title  string
	Level  int // Start level for Continue
}

// MenuModel is the Bubble Tea model for the main menu.
type MenuModel struct {
	items     []MenuItem
	cursor    int
	width     int
	height    int
	profile   *storage.Profile
	config    core.RuntimeConfig
	keyMapper *KeyMapper
	help      help.Model
	quitting  bool
	selected  *MenuItem // Set when user selects an entry
}

// NewMenuModel creates a new menu model. canSwitch adds the profile entry.
func NewMenuModel(profile *storage.Profile, cfg core.RuntimeConfig, canSwitch bool) MenuModel {
	var items []MenuItem
	if profile != nil && profile.Stats.HighestLevel > 0 {
		level := max(1, profile.Stats.CurrentLevel)
		items = append(items, MenuItem{Choice: ChoiceContinue, Title: fmt.Sprintf("Continue: Level %d", level), Level: level})
	}
	items = append(items,
		MenuItem{Choice: ChoiceNewGame, Title: "New Game", Level: 1},
		MenuItem{Choice: ChoiceLevels, Title: "Select Level"},
		MenuItem{Choice: ChoicePuzzles, Title: "Puzzles"},
		MenuItem{Choice: ChoiceLeaderboard, Title: "Leaderboard"},
	)
	if canSwitch {
		items = append(items, MenuItem{Choice: ChoiceProfile, Title: "Switch Profile"})
	}
	items = append(items, MenuItem{Choice: ChoiceQuit, Title: "Quit"})

	return MenuModel{
		items:     items,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		profile:   profile,
		config:    cfg,
		keyMapper: NewKeyMapper(),
		help:      help.New(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true

	case MenuActionUp:
		m.cursor = core.Wrap(m.cursor-1, len(m.items))

	case MenuActionDown:
		m.cursor = core.Wrap(m.cursor+1, len(m.items))

	case MenuActionSelect:
		selected := m.items[m.cursor]
		if selected.Choice == ChoiceQuit {
			m.quitting = true
			break
		}
		m.selected = &selected

	case MenuActionScoreboard:
		m.selected = &MenuItem{Choice: ChoiceLeaderboard}
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  D R O P L I T  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(subtitleStyle.Render("One drop. Then the chain."), m.width))
	b.WriteString("\n")

	if m.profile != nil {
		st := m.profile.Stats
		line := fmt.Sprintf("%s · highest level %d · %d clears · best combo %d",
			m.profile.Name, st.HighestLevel, st.TotalClears, st.BestCombo)
		b.WriteString(centerText(dimStyle.Render(line), m.width))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, item := range m.items {
		line := "  " + item.Title
		if i == m.cursor {
			line = selectedStyle.Render("> " + item.Title)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	if sel := m.items[m.cursor]; sel.Choice == ChoiceContinue || sel.Choice == ChoiceNewGame {
		b.WriteString("\n")
		b.WriteString(centerText(dimStyle.Render(config.DifficultyMessage(sel.Level)), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(m.help.View(m.keyMapper.MenuKeys()), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}
