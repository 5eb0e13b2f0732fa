// Package droplit is the tick-driven adapter that turns the chain-reaction
// engine into a playable campaign and puzzle mode.
package droplit

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/elmandalorian-thx/droplit/internal/config"
	"github.com/elmandalorian-thx/droplit/internal/core"
	engine "github.com/elmandalorian-thx/droplit/internal/droplit"
	"github.com/elmandalorian-thx/droplit/internal/puzzles"
	"github.com/elmandalorian-thx/droplit/internal/registry"
)

// Mode represents the game mode.
type Mode string

const (
	ModeCampaign Mode = "campaign"
	ModePuzzles  Mode = "puzzles"
)

// Registry IDs.
const (
	CampaignID = "droplit"
	PuzzlesID  = "droplit_puzzles"
)

type phase uint8

const (
	phasePlaying phase = iota
	phaseCleared
	phaseFailed
)

// marker is a short-lived visual left behind by an engine event.
type marker struct {
	ev  engine.Event
	ttl int
}

// Package-level variables for config
var (
	gameConfig = config.DefaultDroplitConfig()
	puzzleDir  string
	logger     *log.Logger
)

// SetConfig sets the rules, curve and pacing used by new games.
func SetConfig(cfg config.DroplitConfig) {
	gameConfig = cfg
}

// SetPuzzleDir sets the user puzzle directory merged over the embedded pack.
func SetPuzzleDir(dir string) {
	puzzleDir = dir
}

// SetLogger sets the logger handed to engine sessions.
func SetLogger(l *log.Logger) {
	logger = l
}

// Game implements the Droplit campaign and puzzle modes.
type Game struct {
	mode Mode
	cfg  config.DroplitConfig
	log  *log.Logger

	session *engine.Session
	rows    int
	cols    int
	cursor  engine.Cell
	tick    uint64

	// Campaign
	level int
	fixed bool
	score int

	// Puzzle mode
	puzzles     []puzzles.Puzzle
	puzzleIndex int

	// Pacing, in ticks
	roundTicks  int
	impactTicks int
	clearTicks  int
	untilRound  int
	markers     []marker

	phase        phase
	paused       bool
	tooSmall     bool
	screenW      int
	screenH      int
	message      string
	messageTicks int
	tickRate     int
	result       *core.LevelResult
}

// New creates a new campaign game.
func New() *Game {
	return &Game{mode: ModeCampaign}
}

// NewPuzzles creates a new puzzle mode game over the given puzzles. With no
// puzzles the catalog is loaded on Reset.
func NewPuzzles(pzs ...puzzles.Puzzle) *Game {
	return &Game{mode: ModePuzzles, puzzles: pzs}
}

func init() {
	registry.Register(CampaignID, func() registry.Game {
		return New()
	})
	registry.Register(PuzzlesID, func() registry.Game {
		return NewPuzzles()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModePuzzles {
		return PuzzlesID
	}
	return CampaignID
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModePuzzles {
		return "Droplit Puzzles"
	}
	return "Droplit"
}

// Reset initializes/restarts the game.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.cfg = gameConfig
	g.log = logger
	if g.log == nil {
		g.log = log.Default()
	}

	rules, err := g.cfg.EngineRules()
	if err != nil {
		g.log.Error("invalid rules, using defaults", "error", err)
		rules = engine.DefaultRules()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g.session = engine.NewSession(
		engine.WithRules(rules),
		engine.WithSeed(seed),
		engine.WithStepping(true),
		engine.WithLogger(g.log),
	)

	g.tickRate = cfg.TickRate
	if g.tickRate <= 0 {
		g.tickRate = 60
	}
	g.roundTicks = msToTicks(g.cfg.Pacing.RoundMs, g.tickRate)
	g.impactTicks = msToTicks(g.cfg.Pacing.ImpactMs, g.tickRate)
	g.clearTicks = msToTicks(g.cfg.Pacing.ClearMs, g.tickRate)

	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.tick = 0
	g.score = 0
	g.paused = false
	g.fixed = config.IsFixedPreset(g.cfg.Difficulty)

	if g.mode == ModePuzzles {
		if len(g.puzzles) == 0 {
			pzs, err := puzzles.Catalog(puzzleDir)
			if err != nil {
				g.log.Error("could not load puzzles", "error", err)
			}
			g.puzzles = pzs
		}
		g.puzzleIndex = 0
		for i, pz := range g.puzzles {
			if pz.ID == cfg.PuzzleID {
				g.puzzleIndex = i
				break
			}
		}
		g.startPuzzle()
		return
	}

	g.level = max(1, cfg.StartLevel)
	g.startLevel()
}

func msToTicks(ms, tickRate int) int {
	return max(1, ms*tickRate/1000)
}

// startLevel deals a new shuffle for the current campaign level.
func (g *Game) startLevel() {
	if err := g.session.InitializeLevel(g.cfg.Level(g.level), g.level); err != nil {
		g.log.Error("could not initialize level", "level", g.level, "error", err)
		g.flash("Level config rejected: " + err.Error())
	}
	g.enterPlaying()
}

// startPuzzle loads the current puzzle board.
func (g *Game) startPuzzle() {
	if len(g.puzzles) == 0 {
		g.flash("No puzzles found")
		g.enterPlaying()
		return
	}
	pz := g.puzzles[g.puzzleIndex]
	if err := pz.Apply(g.session); err != nil {
		g.log.Error("could not load puzzle", "id", pz.ID, "error", err)
		g.flash(err.Error())
	}
	g.enterPlaying()
}

func (g *Game) enterPlaying() {
	grid := g.session.Grid()
	g.rows, g.cols = grid.Rows(), grid.Cols()
	g.cursor = engine.At(g.rows/2, g.cols/2)
	g.phase = phasePlaying
	g.markers = nil
	g.untilRound = 0
	g.result = nil
	g.checkScreenSize()
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	var res core.StepResult

	if g.tooSmall {
		res.State = g.State()
		return res
	}

	if in.Has(core.ActionPause) && g.phase == phasePlaying {
		g.paused = !g.paused
	}
	if g.paused {
		res.State = g.State()
		return res
	}

	g.tick++
	g.ageMarkers()
	if g.messageTicks > 0 {
		g.messageTicks--
		if g.messageTicks == 0 {
			g.message = ""
		}
	}

	switch g.phase {
	case phasePlaying:
		if g.session.Busy() {
			g.advance(&res)
		} else if !in.Empty() {
			g.handleInput(in, &res)
		}
	case phaseCleared:
		if in.Has(core.ActionConfirm) {
			g.next()
		}
	case phaseFailed:
		if in.Has(core.ActionRestart) || in.Has(core.ActionConfirm) {
			g.retry()
		}
	}

	res.State = g.State()
	return res
}

// advance runs one resolver round once the round delay has elapsed.
func (g *Game) advance(res *core.StepResult) {
	g.untilRound--
	if g.untilRound > 0 {
		return
	}
	ro, err := g.session.Advance()
	if err != nil {
		g.log.Warn("advance without resolution", "error", err)
		return
	}
	g.score += ro.ComboDelta
	g.addMarkers(g.session.DrainEvents())
	g.untilRound = g.roundTicks
	if ro.Done {
		g.settled(res)
	}
}

func (g *Game) handleInput(in core.InputFrame, res *core.StepResult) {
	switch {
	case in.Has(core.ActionUp):
		g.moveCursor(-1, 0)
	case in.Has(core.ActionDown):
		g.moveCursor(1, 0)
	case in.Has(core.ActionLeft):
		g.moveCursor(0, -1)
	case in.Has(core.ActionRight):
		g.moveCursor(0, 1)
	}

	switch {
	case in.Has(core.ActionRain):
		g.arm(engine.PowerupRain)
	case in.Has(core.ActionBomb):
		g.arm(engine.PowerupBomb)
	case in.Has(core.ActionLaser):
		g.arm(engine.PowerupLaser)
	case in.Has(core.ActionFreeze):
		if _, err := g.session.UseFreeze(); err != nil {
			g.flash(describe(err))
		} else {
			g.flash("Next drop is free")
			g.settled(res)
		}
	case in.Has(core.ActionAxis):
		g.flash("Laser axis: " + g.session.ToggleLaserAxis().String())
	case in.Has(core.ActionRestart):
		g.retry()
		return
	}

	if in.Has(core.ActionConfirm) {
		out, err := g.session.Tap(g.cursor)
		if err != nil {
			g.flash(describe(err))
			return
		}
		g.addMarkers(g.session.DrainEvents())
		if out.Busy {
			g.untilRound = 1
			return
		}
		g.settled(res)
	}
}

func (g *Game) moveCursor(dr, dc int) {
	g.cursor.Row = core.Clamp(g.cursor.Row+dr, 0, g.rows-1)
	g.cursor.Col = core.Clamp(g.cursor.Col+dc, 0, g.cols-1)
}

func (g *Game) arm(k engine.PowerupKind) {
	if err := g.session.SelectPowerup(k); err != nil {
		g.flash(describe(err))
	}
}

// settled moves to the cleared or failed phase once the session is terminal.
func (g *Game) settled(res *core.StepResult) {
	st := g.session.Status()
	if !st.Terminal() {
		return
	}
	if st == engine.StatusWon {
		g.phase = phaseCleared
	} else {
		g.phase = phaseFailed
	}

	stats := g.session.Stats()
	g.result = &core.LevelResult{
		Level:      g.level,
		Won:        st == engine.StatusWon,
		BestCombo:  stats.BestCombo,
		DropsUsed:  stats.PlacementsUsed,
		Discharges: stats.TotalDischarges,
	}
	if g.mode == ModeCampaign {
		res.Finished = g.result
		g.log.Info("level finished", "level", g.level, "won", g.result.Won, "combo", stats.BestCombo)
	}
}

// next starts the following level or puzzle after a clear.
func (g *Game) next() {
	if g.mode == ModePuzzles {
		if len(g.puzzles) > 0 {
			g.puzzleIndex = (g.puzzleIndex + 1) % len(g.puzzles)
		}
		g.startPuzzle()
		return
	}
	if !g.fixed {
		g.level++
	}
	g.startLevel()
}

// retry replays the current level with a fresh shuffle, or reloads the
// current puzzle. A retry after a loss starts a new run.
func (g *Game) retry() {
	if g.phase == phaseFailed {
		g.score = 0
	}
	if g.mode == ModePuzzles {
		g.startPuzzle()
		return
	}
	g.startLevel()
}

func (g *Game) addMarkers(events []engine.Event) {
	for _, ev := range events {
		ttl := g.impactTicks
		if ev.Kind == engine.EventClear {
			ttl = g.clearTicks
		}
		g.markers = append(g.markers, marker{ev: ev, ttl: ttl})
	}
}

func (g *Game) ageMarkers() {
	live := g.markers[:0]
	for _, m := range g.markers {
		m.ttl--
		if m.ttl > 0 {
			live = append(live, m)
		}
	}
	g.markers = live
}

func (g *Game) flash(msg string) {
	g.message = msg
	g.messageTicks = 2 * g.tickRate
}

// describe turns an engine refusal into a status line.
func describe(err error) string {
	var ae *engine.ActionError
	op := "that"
	if errors.As(err, &ae) {
		op = ae.Op
	}
	switch {
	case errors.Is(err, engine.ErrBusy):
		return "Wait for the chain to settle"
	case errors.Is(err, engine.ErrNoBudget):
		if op == "place" {
			return "Out of drops"
		}
		return fmt.Sprintf("No %s left", op)
	case errors.Is(err, engine.ErrNotPlaying):
		return "Level is over"
	case errors.Is(err, engine.ErrOutOfBounds):
		return "Off the board"
	default:
		return err.Error()
	}
}

// Resize adapts the layout to a new screen size without resetting the level.
func (g *Game) Resize(w, h int) {
	g.screenW, g.screenH = w, h
	g.checkScreenSize()
}

func (g *Game) checkScreenSize() {
	minW, minH := g.layoutSize()
	g.tooSmall = g.screenW < minW || g.screenH < minH
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	level := g.level
	if g.mode == ModePuzzles {
		level = g.puzzleIndex + 1
	}
	return core.GameState{
		Score:    g.score,
		Level:    level,
		GameOver: g.mode == ModeCampaign && g.phase == phaseFailed,
		Paused:   g.paused,
	}
}

// Session exposes the engine session for inspection.
func (g *Game) Session() *engine.Session {
	return g.session
}

// Cursor returns the cursor cell.
func (g *Game) Cursor() engine.Cell {
	return g.cursor
}
