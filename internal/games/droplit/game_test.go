package droplit

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elmandalorian-thx/droplit/internal/config"
	"github.com/elmandalorian-thx/droplit/internal/core"
	engine "github.com/elmandalorian-thx/droplit/internal/droplit"
	"github.com/elmandalorian-thx/droplit/internal/puzzles"
	"github.com/elmandalorian-thx/droplit/internal/registry"
)

func testConfig() config.DroplitConfig {
	cfg := config.DefaultDroplitConfig()
	cfg.Pacing = config.PacingConfig{RoundMs: 200, ImpactMs: 300, ClearMs: 100}
	return cfg
}

func runtimeConfig() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 10, Seed: 42, StartLevel: 1}
}

func setup(t *testing.T, cfg config.DroplitConfig) {
	t.Helper()
	SetConfig(cfg)
	SetLogger(log.New(io.Discard))
	t.Cleanup(func() {
		SetConfig(config.DefaultDroplitConfig())
		SetLogger(nil)
	})
}

func newCampaign(t *testing.T, rc core.RuntimeConfig) *Game {
	t.Helper()
	setup(t, testConfig())
	g := New()
	g.Reset(rc)
	return g
}

func frame(actions ...core.Action) core.InputFrame {
	f := core.NewInputFrame()
	for _, a := range actions {
		f.Set(a)
	}
	return f
}

// load replaces the board and refreshes the adapter's view of it.
func load(t *testing.T, g *Game, board [][]int, placements int, inv engine.Inventory) {
	t.Helper()
	require.NoError(t, g.session.LoadBoard(board, placements, inv))
	g.enterPlaying()
}

// settle steps idle ticks until the resolution finishes.
func settle(t *testing.T, g *Game) []core.StepResult {
	t.Helper()
	var results []core.StepResult
	for i := 0; i < 500 && g.session.Busy(); i++ {
		results = append(results, g.Step(frame()))
	}
	require.False(t, g.session.Busy(), "resolution did not finish")
	return results
}

func finished(results []core.StepResult) *core.LevelResult {
	for _, r := range results {
		if r.Finished != nil {
			return r.Finished
		}
	}
	return nil
}

func emptyBoard(rows, cols int) [][]int {
	b := make([][]int, rows)
	for r := range b {
		b[r] = make([]int, cols)
	}
	return b
}

func TestRegistered(t *testing.T) {
	assert.True(t, registry.Exists(CampaignID))
	assert.True(t, registry.Exists(PuzzlesID))

	g, err := registry.Create(CampaignID)
	require.NoError(t, err)
	assert.Equal(t, "Droplit", g.Title())
}

func TestResetStartsAtCurveLevel(t *testing.T) {
	rc := runtimeConfig()
	rc.StartLevel = 12
	g := newCampaign(t, rc)

	st := g.session.Snapshot()
	assert.Equal(t, 12, st.Level)
	assert.Equal(t, testConfig().Curve.Level(12).Placements, st.PlacementsRemaining)
	assert.Equal(t, 1, st.Inventory.Bomb)
	assert.Equal(t, 0, st.Inventory.Laser)
	assert.Equal(t, core.GameState{Level: 12}, g.State())
	assert.Equal(t, engine.At(4, 3), g.Cursor())
}

func TestCursorClampsToBoard(t *testing.T) {
	g := newCampaign(t, runtimeConfig())

	for i := 0; i < 10; i++ {
		g.Step(frame(core.ActionUp))
		g.Step(frame(core.ActionLeft))
	}
	assert.Equal(t, engine.At(0, 0), g.Cursor())

	for i := 0; i < 10; i++ {
		g.Step(frame(core.ActionDown))
		g.Step(frame(core.ActionRight))
	}
	assert.Equal(t, engine.At(7, 5), g.Cursor())
}

func TestWinningLevelReportsResult(t *testing.T) {
	g := newCampaign(t, runtimeConfig())
	board := emptyBoard(8, 6)
	board[4][3] = 3
	load(t, g, board, 5, engine.Inventory{})

	res := g.Step(frame(core.ActionConfirm))
	assert.True(t, g.session.Busy())
	assert.Nil(t, res.Finished)

	fin := finished(settle(t, g))
	require.NotNil(t, fin)
	assert.Equal(t, core.LevelResult{Level: 1, Won: true, BestCombo: 1, DropsUsed: 1, Discharges: 1}, *fin)
	assert.Equal(t, phaseCleared, g.phase)
	assert.Equal(t, 1, g.State().Score)
	assert.False(t, g.State().GameOver)

	g.Step(frame(core.ActionConfirm))
	assert.Equal(t, phasePlaying, g.phase)
	assert.Equal(t, 2, g.State().Level)
	assert.Equal(t, 1, g.State().Score, "score carries across levels")
}

func TestLosingEndsRunAndRestartRetries(t *testing.T) {
	g := newCampaign(t, runtimeConfig())
	board := emptyBoard(8, 6)
	board[4][3] = 1
	load(t, g, board, 1, engine.Inventory{})

	res := g.Step(frame(core.ActionConfirm))
	require.NotNil(t, res.Finished)
	assert.False(t, res.Finished.Won)
	assert.Equal(t, 1, res.Finished.DropsUsed)
	assert.True(t, res.State.GameOver)

	res = g.Step(frame(core.ActionRestart))
	assert.False(t, res.State.GameOver)
	assert.Equal(t, 1, res.State.Level)
	assert.Equal(t, 0, res.State.Score)
	assert.Equal(t, testConfig().Curve.Level(1).Placements, g.session.Snapshot().PlacementsRemaining)
}

func TestSmallGridDealsPlayableLevels(t *testing.T) {
	cfg := testConfig()
	cfg.Grid = config.GridConfig{Rows: 4, Cols: 4}
	setup(t, cfg)

	rc := runtimeConfig()
	rc.StartLevel = 60
	g := New()
	g.Reset(rc)

	st := g.session.Snapshot()
	assert.Equal(t, engine.StatusPlaying, st.Status)
	assert.Equal(t, 60, st.Level)
	assert.Equal(t, cfg.Curve.Level(60).Placements, st.PlacementsRemaining)
	assert.Equal(t, 1, g.session.Grid().FilledCount())
	assert.Empty(t, g.message, "level config accepted")
}

func TestInputIgnoredWhileResolving(t *testing.T) {
	g := newCampaign(t, runtimeConfig())
	board := emptyBoard(8, 6)
	for c := range board[4] {
		board[4][c] = 3
	}
	load(t, g, board, 5, engine.Inventory{})

	g.Step(frame(core.ActionConfirm))
	require.True(t, g.session.Busy())

	g.Step(frame(core.ActionLeft, core.ActionConfirm))
	assert.Equal(t, engine.At(4, 3), g.Cursor())
	assert.Equal(t, 4, g.session.Snapshot().PlacementsRemaining)

	settle(t, g)
	assert.True(t, g.session.Grid().IsEmpty())
	assert.Equal(t, phaseCleared, g.phase)
	assert.Equal(t, 6, g.State().Score)
}

func TestRoundsArePaced(t *testing.T) {
	g := newCampaign(t, runtimeConfig())
	board := emptyBoard(8, 6)
	board[4][3] = 3
	board[4][4] = 3
	load(t, g, board, 5, engine.Inventory{})

	g.Step(frame(core.ActionConfirm))
	g.Step(frame())
	assert.Equal(t, 1, g.session.Snapshot().Combo, "first round runs on the next tick")

	g.Step(frame())
	assert.Equal(t, 1, g.session.Snapshot().Combo, "second round waits for the round delay")

	g.Step(frame())
	assert.Equal(t, 2, g.session.Snapshot().Combo)
	assert.False(t, g.session.Busy())
}

func TestMarkersExpire(t *testing.T) {
	g := newCampaign(t, runtimeConfig())
	board := emptyBoard(8, 6)
	board[4][3] = 3
	load(t, g, board, 5, engine.Inventory{})

	g.Step(frame(core.ActionConfirm))
	settle(t, g)
	require.NotEmpty(t, g.markers)
	assert.Empty(t, g.session.DrainEvents(), "markers consume the session events")

	for i := 0; i < g.impactTicks; i++ {
		g.Step(frame())
	}
	assert.Empty(t, g.markers)
}

func TestPowerupKeys(t *testing.T) {
	rc := runtimeConfig()
	rc.StartLevel = 15
	g := newCampaign(t, rc)

	g.Step(frame(core.ActionRain))
	assert.Equal(t, engine.PowerupRain, g.session.Snapshot().Selected)
	g.Step(frame(core.ActionRain))
	assert.Equal(t, engine.PowerupNone, g.session.Snapshot().Selected)

	g.Step(frame(core.ActionLaser))
	assert.Equal(t, engine.PowerupLaser, g.session.Snapshot().Selected)
	g.Step(frame(core.ActionAxis))
	assert.Equal(t, engine.AxisColumn, g.session.Snapshot().LaserAxis)

	g.Step(frame(core.ActionFreeze))
	st := g.session.Snapshot()
	assert.True(t, st.FreeNextPlacement)
	assert.Equal(t, 0, st.Inventory.Freeze)
}

func TestLaserClearsColumn(t *testing.T) {
	g := newCampaign(t, runtimeConfig())
	board := emptyBoard(8, 6)
	for r := range board {
		board[r][3] = 2
	}
	load(t, g, board, 5, engine.Inventory{Laser: 1})

	g.Step(frame(core.ActionLaser))
	g.Step(frame(core.ActionAxis))
	res := g.Step(frame(core.ActionConfirm))

	require.NotNil(t, res.Finished)
	assert.True(t, res.Finished.Won)
	assert.Equal(t, 0, res.Finished.Discharges)
	assert.Len(t, g.markers, 8)
}

func TestRefusalsFlashMessage(t *testing.T) {
	g := newCampaign(t, runtimeConfig())

	g.Step(frame(core.ActionBomb))
	assert.Equal(t, "No bomb left", g.message)
	assert.Equal(t, engine.PowerupNone, g.session.Snapshot().Selected)

	for i := 0; i < 2*g.tickRate; i++ {
		g.Step(frame())
	}
	assert.Empty(t, g.message)
}

func TestFixedPresetRepeatsLevel(t *testing.T) {
	cfg := testConfig()
	config.ApplyPreset(&cfg, config.DifficultyFixed)
	setup(t, cfg)
	rc := runtimeConfig()
	rc.StartLevel = 7
	g := New()
	g.Reset(rc)

	board := emptyBoard(8, 6)
	board[4][3] = 3
	load(t, g, board, 5, engine.Inventory{})
	g.Step(frame(core.ActionConfirm))
	settle(t, g)
	require.Equal(t, phaseCleared, g.phase)

	g.Step(frame(core.ActionConfirm))
	assert.Equal(t, 7, g.State().Level)
}

func TestPauseFreezesGame(t *testing.T) {
	g := newCampaign(t, runtimeConfig())

	res := g.Step(frame(core.ActionPause))
	assert.True(t, res.State.Paused)

	before := g.session.Snapshot().PlacementsRemaining
	g.Step(frame(core.ActionConfirm))
	assert.Equal(t, before, g.session.Snapshot().PlacementsRemaining)

	res = g.Step(frame(core.ActionPause))
	assert.False(t, res.State.Paused)
}

func TestPuzzleModeAdvancesOnSolve(t *testing.T) {
	setup(t, testConfig())
	pzs := []puzzles.Puzzle{
		{ID: "a", Name: "Domino", Placements: 1, Board: [][]int{{3, 3}, {0, 0}}},
		{ID: "b", Name: "Single", Placements: 1, Board: [][]int{{0, 0, 0}, {0, 3, 0}, {0, 0, 0}}},
	}
	g := NewPuzzles(pzs...)
	g.Reset(runtimeConfig())

	assert.Equal(t, PuzzlesID, g.ID())
	assert.Equal(t, 2, g.rows)
	assert.Equal(t, 2, g.cols)

	g.Step(frame(core.ActionUp))
	g.Step(frame(core.ActionLeft))
	g.Step(frame(core.ActionConfirm))
	results := settle(t, g)

	assert.Nil(t, finished(results), "puzzles do not report campaign results")
	assert.Equal(t, phaseCleared, g.phase)
	assert.Equal(t, 2, g.State().Score)

	g.Step(frame(core.ActionConfirm))
	assert.Equal(t, 2, g.State().Level)
	assert.Equal(t, 3, g.rows)
	assert.Equal(t, engine.At(1, 1), g.Cursor())
}

func TestPuzzleModeStartsAtRequestedPuzzle(t *testing.T) {
	setup(t, testConfig())
	pzs := []puzzles.Puzzle{
		{ID: "a", Placements: 1, Board: [][]int{{1}}},
		{ID: "b", Placements: 1, Board: [][]int{{2}}},
	}
	g := NewPuzzles(pzs...)
	rc := runtimeConfig()
	rc.PuzzleID = "b"
	g.Reset(rc)

	assert.Equal(t, 2, g.State().Level)
	assert.Equal(t, 2, g.session.Grid().Get(engine.At(0, 0)))
}

func TestPuzzleFailureIsNotGameOver(t *testing.T) {
	setup(t, testConfig())
	g := NewPuzzles(puzzles.Puzzle{ID: "a", Placements: 1, Board: [][]int{{1}}})
	g.Reset(runtimeConfig())

	res := g.Step(frame(core.ActionConfirm))
	assert.Equal(t, phaseFailed, g.phase)
	assert.False(t, res.State.GameOver)

	g.Step(frame(core.ActionRestart))
	assert.Equal(t, phasePlaying, g.phase)
	assert.Equal(t, 1, g.session.Grid().Get(engine.At(0, 0)))
}

func TestRender(t *testing.T) {
	g := newCampaign(t, runtimeConfig())
	scr := core.NewScreen(80, 24)
	g.Render(scr)

	out := scr.String()
	assert.Contains(t, out, "DROPLIT · Level 1 · Breathe and observe.")
	assert.Contains(t, out, "Drops 55")
	assert.Contains(t, out, "1 Rain×1")
	assert.Contains(t, out, "(row)")
	boardW, boardH := g.boardSize()
	x, y := g.cellOrigin(core.NewRect((80-boardW)/2, hudHeight, boardW, boardH), g.Cursor())
	assert.Equal(t, '[', scr.Get(x, y))
}

func TestMissMarkersOnBoardEdge(t *testing.T) {
	g := newCampaign(t, runtimeConfig())
	board := emptyBoard(8, 6)
	board[4][3] = 3
	board[0][0] = 1
	load(t, g, board, 5, engine.Inventory{})

	g.Step(frame(core.ActionConfirm))
	settle(t, g)
	require.Equal(t, phasePlaying, g.phase)

	scr := core.NewScreen(80, 24)
	g.Render(scr)
	boardW, boardH := g.boardSize()
	frameRect := core.NewRect((80-boardW)/2, hudHeight, boardW, boardH)
	x, _ := g.cellOrigin(frameRect, engine.At(0, 3))
	assert.Equal(t, '*', scr.Get(x+cellWidth/2, frameRect.Y), "upward miss")
	_, y := g.cellOrigin(frameRect, engine.At(4, 0))
	assert.Equal(t, '*', scr.Get(frameRect.X, y), "leftward miss")
}

func TestRenderTooSmall(t *testing.T) {
	rc := runtimeConfig()
	rc.ScreenW, rc.ScreenH = 30, 10
	g := newCampaign(t, rc)

	scr := core.NewScreen(30, 10)
	g.Render(scr)
	assert.True(t, strings.Contains(scr.String(), "Window too small"))

	before := g.session.Snapshot()
	g.Step(frame(core.ActionConfirm))
	assert.Equal(t, before, g.session.Snapshot())
}

func TestDescribe(t *testing.T) {
	g := newCampaign(t, runtimeConfig())
	_, err := g.session.UseBomb(engine.At(0, 0))
	assert.Equal(t, "No bomb left", describe(err))

	_, err = g.session.PlaceCharge(engine.At(-1, 0))
	assert.Equal(t, "Off the board", describe(err))
}

func TestResizeKeepsLevel(t *testing.T) {
	g := newCampaign(t, runtimeConfig())
	g.Step(frame(core.ActionConfirm))
	before := g.session.Snapshot()

	g.Resize(20, 10)
	assert.True(t, g.tooSmall)
	g.Resize(100, 30)
	assert.False(t, g.tooSmall)
	assert.Equal(t, before.PlacementsRemaining, g.session.Snapshot().PlacementsRemaining)
}
