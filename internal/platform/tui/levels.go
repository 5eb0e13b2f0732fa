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

const levelColumns = 5

// LevelsModel is a grid of campaign levels. Levels beyond the player's
// highest clear plus one are locked.
type LevelsModel struct {
	width     int
	height    int
	highest   int
	count     int
	cursor    int // zero-based level index
	keyMapper *KeyMapper
	help      help.Model
	chosen    int
	goingBack bool
	quitting  bool
}

// NewLevelsModel creates the level picker for profile (nil means a new player).
func NewLevelsModel(profile *storage.Profile, cfg core.RuntimeConfig) LevelsModel {
	highest := 0
	if profile != nil {
		highest = profile.Stats.HighestLevel
	}
	count := config.VisibleLevels(highest)
	return LevelsModel{
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		highest:   highest,
		count:     count,
		cursor:    core.Clamp(highest, 0, count-1),
		keyMapper: NewKeyMapper(),
		help:      help.New(),
	}
}

func (m LevelsModel) Init() tea.Cmd { return nil }

func (m LevelsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch m.keyMapper.MapKeyToMenuAction(msg) {
		case MenuActionQuit:
			m.quitting = true
		case MenuActionBack:
			m.goingBack = true
		case MenuActionLeft:
			m.cursor = core.Clamp(m.cursor-1, 0, m.count-1)
		case MenuActionRight:
			m.cursor = core.Clamp(m.cursor+1, 0, m.count-1)
		case MenuActionUp:
			m.cursor = core.Clamp(m.cursor-levelColumns, 0, m.count-1)
		case MenuActionDown:
			m.cursor = core.Clamp(m.cursor+levelColumns, 0, m.count-1)
		case MenuActionSelect:
			if level := m.cursor + 1; config.Unlocked(level, m.highest) {
				m.chosen = level
			}
		}
	}
	return m, nil
}

func (m LevelsModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("SELECT LEVEL"), m.width))
	b.WriteString("\n\n")

	for row := 0; row*levelColumns < m.count; row++ {
		var cells []string
		for col := range levelColumns {
			i := row*levelColumns + col
			if i >= m.count {
				break
			}
			cells = append(cells, m.levelCell(i))
		}
		b.WriteString(centerText(strings.Join(cells, " "), m.width))
		b.WriteString("\n")
	}

	level := m.cursor + 1
	b.WriteString("\n")
	if config.Unlocked(level, m.highest) {
		b.WriteString(centerText(subtitleStyle.Render(fmt.Sprintf("Level %d · %s", level, config.DifficultyMessage(level))), m.width))
	} else {
		b.WriteString(centerText(warnStyle.Render(fmt.Sprintf("Clear level %d to unlock", level-1)), m.width))
	}
	b.WriteString("\n\n")
	b.WriteString(centerText(m.help.View(m.keyMapper.MenuKeys()), m.width))
	b.WriteString("\n")
	return b.String()
}

func (m LevelsModel) levelCell(i int) string {
	level := i + 1
	label := fmt.Sprintf("%3d", level)
	switch {
	case !config.Unlocked(level, m.highest):
		label = dimStyle.Render(" · ")
	case level <= m.highest:
		label = goodStyle.Render(label)
	}
	if i == m.cursor {
		return selectedStyle.Render("[") + label + selectedStyle.Render("]")
	}
	return " " + label + " "
}

// Chosen returns the selected level, or 0.
func (m LevelsModel) Chosen() int { return m.chosen }

// IsGoingBack returns true if user wants to go back to menu.
func (m LevelsModel) IsGoingBack() bool { return m.goingBack }

// IsQuitting returns true if user wants to quit entirely.
func (m LevelsModel) IsQuitting() bool { return m.quitting }
