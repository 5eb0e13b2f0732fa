package tui

import (
	"io"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elmandalorian-thx/droplit/internal/core"
	engine "github.com/elmandalorian-thx/droplit/internal/droplit"
	"github.com/elmandalorian-thx/droplit/internal/storage"
)

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testRuntime() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 30, TickRate: 30, Seed: 7}
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "droplit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()
	cases := map[string]core.Action{
		"w": core.ActionUp,
		"j": core.ActionDown,
		"a": core.ActionLeft,
		"l": core.ActionRight,
		" ": core.ActionConfirm,
		"1": core.ActionRain,
		"2": core.ActionFreeze,
		"3": core.ActionBomb,
		"4": core.ActionLaser,
		"x": core.ActionAxis,
		"p": core.ActionPause,
		"r": core.ActionRestart,
	}
	for in, want := range cases {
		action, quit := km.MapKey(runes(in))
		assert.Equal(t, want, action, "key %q", in)
		assert.False(t, quit)
	}

	_, quit := km.MapKey(runes("q"))
	assert.True(t, quit)
	action, _ := km.MapKey(keyEnter)
	assert.Equal(t, core.ActionConfirm, action)
	action, _ = km.MapKey(keyEsc)
	assert.Equal(t, core.ActionBack, action)
}

func TestMenuChoices(t *testing.T) {
	m := NewMenuModel(nil, testRuntime(), false)
	require.Equal(t, ChoiceNewGame, m.items[0].Choice)
	for _, it := range m.items {
		assert.NotEqual(t, ChoiceProfile, it.Choice)
	}

	p := &storage.Profile{Name: "ada", Stats: storage.ProfileStats{HighestLevel: 4, CurrentLevel: 5}}
	m = NewMenuModel(p, testRuntime(), true)
	require.Equal(t, ChoiceContinue, m.items[0].Choice)
	assert.Equal(t, 5, m.items[0].Level)
	assert.Equal(t, "Continue: Level 5", m.items[0].Title)
	assert.Contains(t, m.View(), "ada")

	next, _ := m.Update(keyEnter)
	m = next.(MenuModel)
	require.NotNil(t, m.Selected())
	assert.Equal(t, ChoiceContinue, m.Selected().Choice)
}

func TestMenuWrapsAndQuits(t *testing.T) {
	m := NewMenuModel(nil, testRuntime(), false)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(MenuModel)
	assert.Equal(t, ChoiceQuit, m.items[m.cursor].Choice)

	next, _ = m.Update(keyEnter)
	m = next.(MenuModel)
	assert.True(t, m.IsQuitting())
	assert.Nil(t, m.Selected())
}

func TestLevelsLockAheadOfProgress(t *testing.T) {
	p := &storage.Profile{Stats: storage.ProfileStats{HighestLevel: 2}}
	m := NewLevelsModel(p, testRuntime())
	assert.Equal(t, 20, m.count)
	assert.Equal(t, 2, m.cursor, "cursor starts on the next unplayed level")

	next, _ := m.Update(runes("l"))
	m = next.(LevelsModel)
	next, _ = m.Update(keyEnter)
	m = next.(LevelsModel)
	assert.Zero(t, m.Chosen(), "level 4 is locked")
	assert.Contains(t, m.View(), "Clear level 3 to unlock")

	next, _ = m.Update(runes("h"))
	m = next.(LevelsModel)
	next, _ = m.Update(keyEnter)
	m = next.(LevelsModel)
	assert.Equal(t, 3, m.Chosen())
}

func TestProfilePromptCreatesProfile(t *testing.T) {
	store := openStore(t)
	m := NewProfileModel(store, "", 80)

	next, _ := m.Update(keyEnter)
	m = next.(ProfileModel)
	assert.Nil(t, m.Profile(), "empty names are ignored")

	for _, r := range "ada" {
		next, _ = m.Update(runes(string(r)))
		m = next.(ProfileModel)
	}
	next, _ = m.Update(keyEnter)
	m = next.(ProfileModel)
	require.NotNil(t, m.Profile())
	assert.Equal(t, "ada", m.Profile().Name)

	_, err := store.GetProfileByName("ada")
	assert.NoError(t, err)
}

func TestScoreboardShowsLeaderboardAndRuns(t *testing.T) {
	store := openStore(t)
	p, err := store.CreateProfile("ada")
	require.NoError(t, err)
	_, err = store.RecordLevelResult(p.ID, core.LevelResult{Level: 1, Won: true, BestCombo: 3, DropsUsed: 2})
	require.NoError(t, err)
	_, err = store.SaveScore("droplit", "ada", 42)
	require.NoError(t, err)

	m := NewScoreboardModel(store, 100, 30)
	require.Len(t, m.rows, 1)
	assert.Equal(t, "ada", m.rows[0][1])
	assert.Equal(t, "1", m.rows[0][2])

	for m.tabs[m.tab].gameID != "droplit" {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
		m = next.(ScoreboardModel)
	}
	require.Len(t, m.rows, 1)
	assert.Equal(t, "42", m.rows[0][2])

	next, _ := m.Update(keyEsc)
	assert.True(t, next.(ScoreboardModel).IsGoingBack())
}

func TestScoreboardWithoutStore(t *testing.T) {
	m := NewScoreboardModel(nil, 80, 24)
	assert.Contains(t, m.View(), "not being recorded")
}

func TestSessionFlow(t *testing.T) {
	store := openStore(t)
	m := NewSessionModel(store, testRuntime(), engine.DefaultRules(), "ada")
	m.SetLogger(log.New(io.Discard))
	require.Equal(t, screenMenu, m.screen)
	require.NotNil(t, m.Profile())
	assert.False(t, m.canSwitch, "named sessions keep their profile")

	next, _ := m.Update(keyEnter) // New Game
	m = next.(SessionModel)
	require.Equal(t, screenGame, m.screen)
	require.NotNil(t, m.gameModel)
	assert.Contains(t, m.View(), "DROPLIT")

	next, _ = m.Update(keyEsc)
	m = next.(SessionModel)
	assert.Equal(t, screenMenu, m.screen)
	assert.Nil(t, m.gameModel)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(SessionModel)
	assert.Equal(t, screenScores, m.screen)

	next, _ = m.Update(keyEsc)
	m = next.(SessionModel)
	assert.Equal(t, screenMenu, m.screen)
}

func TestSessionPromptsForProfile(t *testing.T) {
	m := NewSessionModel(openStore(t), testRuntime(), engine.DefaultRules(), "")
	m.SetLogger(log.New(io.Discard))
	require.Equal(t, screenProfile, m.screen)
	assert.True(t, m.canSwitch)

	next, _ := m.Update(runes("bo"))
	m = next.(SessionModel)
	next, _ = m.Update(keyEnter)
	m = next.(SessionModel)
	require.Equal(t, screenMenu, m.screen)
	assert.Equal(t, "bo", m.Profile().Name)

	// New Game, Select Level
	next, _ = m.Update(keyDown)
	m = next.(SessionModel)
	next, _ = m.Update(keyEnter)
	m = next.(SessionModel)
	assert.Equal(t, screenLevels, m.screen)
}

func TestGameModelRecordsFinishedLevels(t *testing.T) {
	store := openStore(t)
	p, err := store.CreateProfile("ada")
	require.NoError(t, err)

	m := NewGameModel(nil, store, p, engine.DefaultRules(), testRuntime())
	m.recordLevel(core.LevelResult{Level: 1, Won: true, BestCombo: 4, DropsUsed: 1, Discharges: 9})

	require.NotNil(t, m.Profile())
	assert.Equal(t, 1, m.Profile().Stats.HighestLevel)
	assert.Equal(t, 2, m.Profile().Stats.CurrentLevel)
	assert.Equal(t, 4, m.Profile().Stats.BestCombo)
}

func TestRenderScreenPlainCells(t *testing.T) {
	s := core.NewScreen(3, 2)
	s.DrawText(0, 0, "abc")
	s.DrawText(0, 1, "de")
	assert.Equal(t, "abc\nde ", RenderScreen(s))
}

func TestCenterText(t *testing.T) {
	assert.Equal(t, "  ab", centerText("ab", 6))
	assert.Equal(t, "abcdef", centerText("abcdef", 4))
}
