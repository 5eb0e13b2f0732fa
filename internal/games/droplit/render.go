package droplit

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/elmandalorian-thx/droplit/internal/config"
	"github.com/elmandalorian-thx/droplit/internal/core"
	engine "github.com/elmandalorian-thx/droplit/internal/droplit"
)

const (
	cellWidth  = 5 // Columns per board cell
	cellHeight = 2 // Rows per board cell, including the spacer row
	hudHeight  = 2
	minWidth   = 48
)

// layoutSize returns the smallest screen that fits the current board.
func (g *Game) layoutSize() (int, int) {
	boardW, boardH := g.boardSize()
	return max(boardW, minWidth), hudHeight + boardH + 2
}

func (g *Game) boardSize() (int, int) {
	return g.cols*cellWidth + 2, g.rows*cellHeight + 1
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	boardW, boardH := g.boardSize()
	board := core.NewRect((g.screenW-boardW)/2, hudHeight, boardW, boardH)

	g.renderHUD(dst)
	g.renderBoard(dst, board)
	g.renderMarkers(dst, board)
	g.renderCursor(dst, board)
	g.renderPowerups(dst, board.Bottom())
	g.renderMessage(dst, board.Bottom()+1)
	g.renderOverlays(dst)
}

func (g *Game) renderTooSmall(dst *core.Screen) {
	minW, minH := g.layoutSize()
	y := g.screenH / 2
	dst.DrawTextCentered(y-1, "Window too small", core.ColorWarn)
	dst.DrawTextCentered(y, fmt.Sprintf("Need %dx%d, have %dx%d", minW, minH, g.screenW, g.screenH), core.ColorDim)
	dst.DrawTextCentered(y+1, "Please resize terminal", core.ColorDim)
}

func (g *Game) renderHUD(dst *core.Screen) {
	var title string
	if g.mode == ModePuzzles {
		if len(g.puzzles) > 0 {
			pz := g.puzzles[g.puzzleIndex]
			title = fmt.Sprintf("DROPLIT · Puzzle %d/%d · %s", g.puzzleIndex+1, len(g.puzzles), pz.Name)
		} else {
			title = "DROPLIT · Puzzles"
		}
	} else {
		title = fmt.Sprintf("DROPLIT · Level %d · %s", g.level, config.DifficultyMessage(g.level))
	}
	dst.DrawTextCentered(0, title, core.ColorAccent)

	st := g.session.Snapshot()
	grid := g.session.Grid()
	stats := fmt.Sprintf("Drops %d   Cells %d   Combo %d   Score %d",
		st.PlacementsRemaining, grid.FilledCount(), st.Combo, g.score)
	if st.FreeNextPlacement {
		stats += "   FROZEN"
	}
	dst.DrawTextCentered(1, stats, core.ColorText)
}

func chargeGlyph(charge, threshold int) string {
	switch {
	case charge <= 0:
		return "  ·  "
	case charge == 1:
		return "  ●  "
	case charge == 2:
		return " ● ● "
	case charge <= threshold:
		return " ●●● "
	default:
		return " ◉◉◉ "
	}
}

func (g *Game) cellOrigin(board core.Rect, c engine.Cell) (int, int) {
	return board.X + 1 + c.Col*cellWidth, board.Y + 1 + c.Row*cellHeight
}

func (g *Game) renderBoard(dst *core.Screen, board core.Rect) {
	dst.DrawBox(board, core.ColorFrame)

	grid := g.session.Grid()
	threshold := g.session.Rules().CriticalCharge
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			cell := engine.At(r, c)
			v := grid.Get(cell)
			fg := core.ChargeColor(v)
			if v > threshold {
				fg = core.ColorBurst
			}
			x, y := g.cellOrigin(board, cell)
			drawStyled(dst, x, y, chargeGlyph(v, threshold), fg, v > threshold)
		}
	}
}

func (g *Game) renderMarkers(dst *core.Screen, board core.Rect) {
	grid := g.session.Grid()
	threshold := g.session.Rules().CriticalCharge
	cells := core.NewRect(0, 0, g.cols, g.rows)
	for _, m := range g.markers {
		ev := m.ev
		switch {
		case !cells.Contains(ev.Cell.Col, ev.Cell.Row):
			g.renderMiss(dst, board, ev.Cell)
		case ev.Kind == engine.EventDischarge:
			x, y := g.cellOrigin(board, ev.Cell)
			if grid.Get(ev.Cell) == 0 {
				drawStyled(dst, x, y, "  ✺  ", core.ColorBurst, true)
			}
		case ev.Kind == engine.EventClear:
			x, y := g.cellOrigin(board, ev.Cell)
			drawStyled(dst, x, y, " ××× ", core.ColorClear, false)
		case ev.Landed:
			x, y := g.cellOrigin(board, ev.Cell)
			v := grid.Get(ev.Cell)
			if v > 0 && v <= threshold {
				drawStyled(dst, x, y, chargeGlyph(v, threshold), core.ColorImpact, true)
			}
		}
	}
}

// renderMiss marks the board edge where an impact left the grid.
func (g *Game) renderMiss(dst *core.Screen, board core.Rect, c engine.Cell) {
	x, y := g.cellOrigin(board, engine.At(core.Clamp(c.Row, 0, g.rows-1), core.Clamp(c.Col, 0, g.cols-1)))
	switch {
	case c.Row < 0:
		x, y = x+cellWidth/2, board.Y
	case c.Row >= g.rows:
		x, y = x+cellWidth/2, board.Bottom()-1
	case c.Col < 0:
		x = board.X
	default:
		x = board.Right() - 1
	}
	dst.SetCell(x, y, core.Cell{Rune: '*', FG: core.ColorMiss, Bold: true})
}

func (g *Game) renderCursor(dst *core.Screen, board core.Rect) {
	if g.phase != phasePlaying {
		return
	}
	st := g.session.Snapshot()
	for _, c := range g.targets(st) {
		x, y := g.cellOrigin(board, c)
		dst.SetCell(x, y, core.Cell{Rune: '·', FG: core.ColorAccent})
		dst.SetCell(x+cellWidth-1, y, core.Cell{Rune: '·', FG: core.ColorAccent})
	}

	fg := core.ColorCursor
	if st.Selected != engine.PowerupNone {
		fg = core.ColorAccent
	}
	x, y := g.cellOrigin(board, g.cursor)
	dst.SetCell(x, y, core.Cell{Rune: '[', FG: fg, Bold: true})
	dst.SetCell(x+cellWidth-1, y, core.Cell{Rune: ']', FG: fg, Bold: true})
}

// targets returns the cells an armed powerup would affect around the cursor.
func (g *Game) targets(st engine.State) []engine.Cell {
	var out []engine.Cell
	add := func(c engine.Cell) {
		if c != g.cursor && c.Row >= 0 && c.Row < g.rows && c.Col >= 0 && c.Col < g.cols {
			out = append(out, c)
		}
	}
	switch st.Selected {
	case engine.PowerupRain, engine.PowerupBomb:
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				add(engine.At(g.cursor.Row+dr, g.cursor.Col+dc))
			}
		}
	case engine.PowerupLaser:
		if st.LaserAxis == engine.AxisColumn {
			for r := 0; r < g.rows; r++ {
				add(engine.At(r, g.cursor.Col))
			}
		} else {
			for c := 0; c < g.cols; c++ {
				add(engine.At(g.cursor.Row, c))
			}
		}
	}
	return out
}

func (g *Game) renderPowerups(dst *core.Screen, y int) {
	st := g.session.Snapshot()
	parts := make([]string, 0, len(engine.PowerupKinds))
	colors := make([]core.Color, 0, len(engine.PowerupKinds))
	for i, k := range engine.PowerupKinds {
		label := fmt.Sprintf("%d %s×%d", i+1, capitalize(k.String()), st.Inventory.Count(k))
		if k == engine.PowerupLaser {
			label += " (" + st.LaserAxis.String() + ")"
		}
		fg := core.ColorText
		switch {
		case st.Selected == k:
			fg = core.ColorAccent
			label = "▸" + label
		case st.Inventory.Count(k) == 0:
			fg = core.ColorDim
		}
		parts = append(parts, label)
		colors = append(colors, fg)
	}

	width := 0
	for _, p := range parts {
		width += utf8.RuneCountInString(p)
	}
	width += 3 * (len(parts) - 1)
	x := (g.screenW - width) / 2
	for i, p := range parts {
		drawStyled(dst, x, y, p, colors[i], colors[i] == core.ColorAccent)
		x += utf8.RuneCountInString(p) + 3
	}
}

func (g *Game) renderMessage(dst *core.Screen, y int) {
	switch {
	case g.message != "":
		dst.DrawTextCentered(y, g.message, core.ColorWarn)
	case g.session.Busy():
		dst.DrawTextCentered(y, "Chain reacting...", core.ColorDim)
	case g.mode == ModePuzzles && len(g.puzzles) > 0 && g.puzzles[g.puzzleIndex].Hint != "":
		dst.DrawTextCentered(y, "Hint: "+g.puzzles[g.puzzleIndex].Hint, core.ColorDim)
	}
}

func (g *Game) renderOverlays(dst *core.Screen) {
	switch {
	case g.paused:
		g.drawOverlay(dst, core.ColorAccent, "PAUSED", "", "P: resume")
	case g.phase == phaseCleared && g.mode == ModePuzzles:
		g.drawOverlay(dst, core.ColorGood, "SOLVED!", g.resultLine(), "", "Enter: next puzzle")
	case g.phase == phaseCleared:
		next := "Enter: next level"
		if g.fixed {
			next = "Enter: play again"
		}
		g.drawOverlay(dst, core.ColorGood, fmt.Sprintf("LEVEL %d CLEARED!", g.level), g.resultLine(), "", next)
	case g.phase == phaseFailed && g.mode == ModePuzzles:
		g.drawOverlay(dst, core.ColorWarn, "OUT OF DROPS", "", "R: retry   Esc: menu")
	case g.phase == phaseFailed:
		g.drawOverlay(dst, core.ColorWarn, "OUT OF DROPS",
			fmt.Sprintf("Level %d · Score %d", g.level, g.score), "", "R: retry   Esc: menu")
	}
}

func (g *Game) resultLine() string {
	if g.result == nil {
		return ""
	}
	return fmt.Sprintf("Best combo %d · Drops used %d", g.result.BestCombo, g.result.DropsUsed)
}

// drawOverlay draws a framed box with centered lines over the board.
func (g *Game) drawOverlay(dst *core.Screen, fg core.Color, lines ...string) {
	maxLen := 0
	for _, l := range lines {
		maxLen = max(maxLen, utf8.RuneCountInString(l))
	}
	w, h := maxLen+6, len(lines)+2
	cx, cy := core.NewRect(0, 0, g.screenW, g.screenH).Center()
	box := core.NewRect(cx-w/2, cy-h/2, w, h)
	dst.FillRect(box, core.Cell{Rune: ' '})
	dst.DrawBox(box, fg)

	inner := box.Inset(1)
	for i, l := range lines {
		x := inner.X + (inner.W-utf8.RuneCountInString(l))/2
		color := core.ColorText
		if i == 0 {
			color = fg
		}
		drawStyled(dst, x, inner.Y+i, l, color, i == 0)
	}
}

func drawStyled(dst *core.Screen, x, y int, text string, fg core.Color, bold bool) {
	i := 0
	for _, r := range text {
		dst.SetCell(x+i, y, core.Cell{Rune: r, FG: fg, Bold: bold})
		i++
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
