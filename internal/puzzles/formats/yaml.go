// Package formats provides pluggable puzzle file format parsers.
package formats

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// MaxCharge is the highest charge a puzzle cell may start with.
const MaxCharge = 3

// YAMLPuzzle represents the YAML structure for a puzzle file.
type YAMLPuzzle struct {
	ID         string         `yaml:"id"`
	Name       string         `yaml:"name"`
	Hint       string         `yaml:"hint,omitempty"`
	Placements int            `yaml:"placements"`
	Powerups   map[string]int `yaml:"powerups,omitempty"`
	Board      []string       `yaml:"board"` // One string of digits per row
}

// Puzzle represents a parsed puzzle ready for use.
type Puzzle struct {
	ID         string
	Name       string
	Hint       string
	Placements int
	Powerups   map[string]int
	Board      [][]int
}

// ParseYAML parses a YAML puzzle file.
func ParseYAML(data []byte) (Puzzle, error) {
	var yp YAMLPuzzle
	if err := yaml.Unmarshal(data, &yp); err != nil {
		return Puzzle{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if yp.ID == "" {
		return Puzzle{}, fmt.Errorf("missing id")
	}
	if yp.Placements < 0 {
		return Puzzle{}, fmt.Errorf("negative placements %d", yp.Placements)
	}

	board, err := ParseBoard(yp.Board)
	if err != nil {
		return Puzzle{}, err
	}

	name := yp.Name
	if name == "" {
		name = yp.ID
	}
	return Puzzle{
		ID:         yp.ID,
		Name:       name,
		Hint:       yp.Hint,
		Placements: yp.Placements,
		Powerups:   yp.Powerups,
		Board:      board,
	}, nil
}

// ParseBoard converts digit rows into charges. Rows must share one length;
// "." is accepted as an empty cell.
func ParseBoard(rows []string) ([][]int, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty board")
	}
	width := len(strings.TrimSpace(rows[0]))
	if width == 0 {
		return nil, fmt.Errorf("empty board row 0")
	}

	board := make([][]int, len(rows))
	for r, line := range rows {
		line = strings.TrimSpace(line)
		if len(line) != width {
			return nil, fmt.Errorf("row %d has %d cells, want %d", r, len(line), width)
		}
		board[r] = make([]int, width)
		for c, ch := range line {
			switch {
			case ch == '.':
				board[r][c] = 0
			case ch >= '0' && ch <= '0'+MaxCharge:
				board[r][c] = int(ch - '0')
			default:
				return nil, fmt.Errorf("row %d col %d: invalid cell %q", r, c, ch)
			}
		}
	}
	return board, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}
