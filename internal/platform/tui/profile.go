package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/elmandalorian-thx/droplit/internal/storage"
)

const maxNameLength = 24

// ProfileModel asks for a player name and loads or creates its profile.
type ProfileModel struct {
	store    *storage.Store
	input    textinput.Model
	known    []string
	width    int
	profile  *storage.Profile
	err      error
	quitting bool
}

// NewProfileModel creates the profile prompt, prefilled with name.
func NewProfileModel(store *storage.Store, name string, width int) ProfileModel {
	ti := textinput.New()
	ti.Placeholder = "your name"
	ti.CharLimit = maxNameLength
	ti.Width = maxNameLength
	ti.SetValue(name)
	ti.Focus()

	m := ProfileModel{store: store, input: ti, width: width}
	if store != nil {
		if profiles, err := store.ListProfiles(); err == nil {
			for _, p := range profiles {
				m.known = append(m.known, p.Name)
			}
		}
	}
	return m
}

func (m ProfileModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m ProfileModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, nil
		case tea.KeyEnter:
			m.submit()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *ProfileModel) submit() {
	name := strings.TrimSpace(m.input.Value())
	if name == "" {
		return
	}
	if m.store == nil {
		m.profile = &storage.Profile{Name: name, Stats: storage.ProfileStats{CurrentLevel: 1}}
		return
	}
	p, err := m.store.GetOrCreateProfile(name)
	if err != nil {
		m.err = err
		return
	}
	m.profile = p
}

func (m ProfileModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  D R O P L I T  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(subtitleStyle.Render("Who is playing?"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.input.View(), m.width))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(centerText(warnStyle.Render(m.err.Error()), m.width))
		b.WriteString("\n")
	}
	if len(m.known) > 0 {
		b.WriteString(centerText(dimStyle.Render("Known players: "+strings.Join(m.known, ", ")), m.width))
		b.WriteString("\n")
	}
	b.WriteString(centerText(dimStyle.Render("enter: continue   esc: quit"), m.width))
	b.WriteString("\n")
	return b.String()
}

// Profile returns the chosen profile once the name is submitted.
func (m ProfileModel) Profile() *storage.Profile { return m.profile }

// IsQuitting returns true if user wants to quit entirely.
func (m ProfileModel) IsQuitting() bool { return m.quitting }
