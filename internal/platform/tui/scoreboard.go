package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/elmandalorian-thx/droplit/internal/registry"
	"github.com/elmandalorian-thx/droplit/internal/storage"
)

const maxScores = 100

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextTab, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextTab, k.PrevTab},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next board"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev board"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// scoreTab is one page of the scoreboard: the player leaderboard, or the
// run scores of a registered game mode.
type scoreTab struct {
	title  string
	gameID string // empty for the player leaderboard
}

// ScoreboardModel shows the player leaderboard and per-mode run scores.
type ScoreboardModel struct {
	tabs      []scoreTab
	tab       int
	store     *storage.Store
	rows      []table.Row
	err       error
	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	tabs := []scoreTab{{title: "Players"}}
	for _, g := range registry.List() {
		tabs = append(tabs, scoreTab{title: g.Title, gameID: g.ID})
	}

	m := ScoreboardModel{
		tabs:   tabs,
		store:  store,
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.reload()
	return m
}

func (m ScoreboardModel) columns() []table.Column {
	if m.tabs[m.tab].gameID == "" {
		return []table.Column{
			{Title: "Rank", Width: 6},
			{Title: "Player", Width: 16},
			{Title: "Highest", Width: 8},
			{Title: "Clears", Width: 8},
			{Title: "Combo", Width: 7},
			{Title: "Games", Width: 7},
		}
	}
	return []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Player", Width: 16},
		{Title: "Score", Width: 10},
		{Title: "Date", Width: 14},
	}
}

// createTable creates a table sized to the terminal for the current tab.
func (m *ScoreboardModel) createTable() table.Model {
	t := table.New(
		table.WithColumns(m.columns()),
		table.WithRows(m.rows),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-9)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("24")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// reload fetches rows for the current tab and rebuilds the table.
func (m *ScoreboardModel) reload() {
	m.rows, m.err = nil, nil
	if m.store != nil {
		if id := m.tabs[m.tab].gameID; id == "" {
			m.loadLeaderboard()
		} else {
			m.loadScores(id)
		}
	}
	m.table = m.createTable()
}

func (m *ScoreboardModel) loadLeaderboard() {
	profiles, err := m.store.Leaderboard(maxScores)
	if err != nil {
		m.err = err
		return
	}
	for i, p := range profiles {
		m.rows = append(m.rows, table.Row{
			fmt.Sprintf("#%d", i+1),
			p.Name,
			fmt.Sprintf("%d", p.Stats.HighestLevel),
			fmt.Sprintf("%d", p.Stats.TotalClears),
			fmt.Sprintf("%d", p.Stats.BestCombo),
			fmt.Sprintf("%d", p.Stats.GamesPlayed),
		})
	}
}

func (m *ScoreboardModel) loadScores(gameID string) {
	scores, err := m.store.TopScores(gameID, maxScores)
	if err != nil {
		m.err = err
		return
	}
	for i, s := range scores {
		player := s.Player
		if player == "" {
			player = "-"
		}
		m.rows = append(m.rows, table.Row{
			fmt.Sprintf("#%d", i+1),
			player,
			fmt.Sprintf("%d", s.Score),
			s.CreatedAt.Format("Jan 02 15:04"),
		})
	}
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, nil

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil

		case key.Matches(msg, m.keys.NextTab):
			m.tab = (m.tab + 1) % len(m.tabs)
			m.reload()
			return m, nil

		case key.Matches(msg, m.keys.PrevTab):
			m.tab = (m.tab - 1 + len(m.tabs)) % len(m.tabs)
			m.reload()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table = m.createTable()
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("LEADERBOARD"), m.width))
	b.WriteString("\n\n")

	activeTab := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("24")).
		Padding(0, 1)

	tabs := make([]string, len(m.tabs))
	for i, t := range m.tabs {
		if i == m.tab {
			tabs[i] = activeTab.Render(t.title)
		} else {
			tabs[i] = dimStyle.Render(" " + t.title + " ")
		}
	}
	b.WriteString(centerText(strings.Join(tabs, " "), m.width))
	b.WriteString("\n\n")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(centerBlock(box.Render(m.tableContent()), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(m.help.View(m.keys), m.width))
	return b.String()
}

func (m ScoreboardModel) tableContent() string {
	empty := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(1, 4)
	switch {
	case m.store == nil:
		return empty.Render("Scores are not being recorded.")
	case m.err != nil:
		return warnStyle.Render("Could not load scores: " + m.err.Error())
	case len(m.rows) == 0:
		return empty.Render("Nothing recorded yet.\nClear a level to get on the board!")
	}
	return m.table.View()
}

// centerBlock centers every line of a multi-line block as one unit.
func centerBlock(block string, width int) string {
	pad := (width - lipgloss.Width(block)) / 2
	if pad <= 0 {
		return block
	}
	lines := strings.Split(block, "\n")
	for i, l := range lines {
		lines[i] = strings.Repeat(" ", pad) + l
	}
	return strings.Join(lines, "\n")
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard as its own program.
func RunScoreboard(store *storage.Store, width, height int) error {
	p := tea.NewProgram(scoreboardProgram{NewScoreboardModel(store, width, height)}, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// scoreboardProgram quits the program when the scoreboard is left.
type scoreboardProgram struct{ ScoreboardModel }

func (p scoreboardProgram) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := p.ScoreboardModel.Update(msg)
	p.ScoreboardModel = m.(ScoreboardModel)
	if p.goingBack || p.quitting {
		return p, tea.Quit
	}
	return p, cmd
}
