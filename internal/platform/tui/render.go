package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/elmandalorian-thx/droplit/internal/core"
)

// palette maps core.Color slots to terminal colours.
var palette = map[core.Color]lipgloss.TerminalColor{
	core.ColorTeal:   lipgloss.AdaptiveColor{Light: "30", Dark: "44"},
	core.ColorOrange: lipgloss.Color("208"),
	core.ColorRed:    lipgloss.Color("196"),
	core.ColorBurst:  lipgloss.Color("226"),
	core.ColorImpact: lipgloss.Color("231"),
	core.ColorMiss:   lipgloss.Color("240"),
	core.ColorClear:  lipgloss.Color("201"),
	core.ColorCursor: lipgloss.Color("15"),
	core.ColorFrame:  lipgloss.Color("67"),
	core.ColorDim:    lipgloss.Color("238"),
	core.ColorText:   lipgloss.AdaptiveColor{Light: "235", Dark: "252"},
	core.ColorAccent: lipgloss.Color("81"),
	core.ColorWarn:   lipgloss.Color("214"),
	core.ColorGood:   lipgloss.Color("120"),
}

type styleKey struct {
	fg, bg core.Color
	bold   bool
}

// styleCache holds one lipgloss style per colour combination. SSH sessions
// render concurrently.
var (
	styleMu    sync.Mutex
	styleCache = map[styleKey]lipgloss.Style{}
)

func cellStyle(k styleKey) lipgloss.Style {
	styleMu.Lock()
	defer styleMu.Unlock()
	if s, ok := styleCache[k]; ok {
		return s
	}
	s := lipgloss.NewStyle().Bold(k.bold)
	if c, ok := palette[k.fg]; ok {
		s = s.Foreground(c)
	}
	if c, ok := palette[k.bg]; ok {
		s = s.Background(c)
	}
	styleCache[k] = s
	return s
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same style to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			k := styleKey{fg: cell.FG, bg: cell.BG, bold: cell.Bold}

			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if (styleKey{fg: cell.FG, bg: cell.BG, bold: cell.Bold}) != k {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			if k == (styleKey{}) {
				sb.WriteString(run.String())
				continue
			}
			sb.WriteString(cellStyle(k).Render(run.String()))
		}
	}
	return sb.String()
}

// Shared styles for the menu screens.
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(palette[core.ColorAccent])
	subtitleStyle = lipgloss.NewStyle().Foreground(palette[core.ColorText])
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(palette[core.ColorCursor])
	dimStyle      = lipgloss.NewStyle().Foreground(palette[core.ColorDim])
	warnStyle     = lipgloss.NewStyle().Foreground(palette[core.ColorWarn])
	goodStyle     = lipgloss.NewStyle().Foreground(palette[core.ColorGood])
)

// centerText centers a possibly styled line within the given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
