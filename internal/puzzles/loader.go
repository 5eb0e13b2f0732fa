// Package puzzles provides hand-authored fixed boards. An embedded pack
// ships with the binary; more can be dropped into a user directory.
package puzzles

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/elmandalorian-thx/droplit/internal/droplit"
	"github.com/elmandalorian-thx/droplit/internal/puzzles/formats"
)

//go:embed pack/*.yaml
var packFS embed.FS

// Puzzle is a complete fixed-board definition.
type Puzzle struct {
	ID         string
	Name       string
	Hint       string
	Placements int
	Powerups   droplit.Inventory
	Board      [][]int
	FilePath   string
}

// Rows returns the board height.
func (p *Puzzle) Rows() int { return len(p.Board) }

// Cols returns the board width.
func (p *Puzzle) Cols() int {
	if len(p.Board) == 0 {
		return 0
	}
	return len(p.Board[0])
}

// Apply loads the puzzle into a session.
func (p *Puzzle) Apply(s *droplit.Session) error {
	if err := s.LoadBoard(p.Board, p.Placements, p.Powerups); err != nil {
		return fmt.Errorf("puzzle %s: %w", p.ID, err)
	}
	return nil
}

// Loader handles loading puzzles from a filesystem.
type Loader struct {
	FS   fs.FS
	Root string // Label used in FilePath
}

// NewLoader creates a loader over a directory on disk.
func NewLoader(root string) *Loader {
	return &Loader{FS: os.DirFS(root), Root: root}
}

// Embedded returns a loader over the built-in puzzle pack.
func Embedded() *Loader {
	sub, err := fs.Sub(packFS, "pack")
	if err != nil {
		panic(err) // embed path is fixed at compile time
	}
	return &Loader{FS: sub, Root: "embedded"}
}

// LoadAll recursively scans and loads all puzzle files.
// Returns puzzles sorted by ID for deterministic ordering.
func (l *Loader) LoadAll() ([]Puzzle, error) {
	var puzzles []Puzzle

	err := fs.WalkDir(l.FS, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isSupportedExtension(strings.ToLower(path.Ext(p))) {
			return nil
		}

		pz, err := l.LoadFile(p)
		if err != nil {
			// Skip invalid files
			return nil
		}
		puzzles = append(puzzles, pz)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
	}

	sort.Slice(puzzles, func(i, j int) bool {
		return puzzles[i].ID < puzzles[j].ID
	})
	return puzzles, nil
}

// LoadFile loads a single puzzle file relative to the loader root.
func (l *Loader) LoadFile(p string) (Puzzle, error) {
	data, err := fs.ReadFile(l.FS, p)
	if err != nil {
		return Puzzle{}, fmt.Errorf("reading file %s: %w", p, err)
	}

	parsed, err := formats.ParseYAML(data)
	if err != nil {
		return Puzzle{}, fmt.Errorf("parsing file %s: %w", p, err)
	}

	inv, err := inventory(parsed.Powerups)
	if err != nil {
		return Puzzle{}, fmt.Errorf("parsing file %s: %w", p, err)
	}

	return Puzzle{
		ID:         parsed.ID,
		Name:       parsed.Name,
		Hint:       parsed.Hint,
		Placements: parsed.Placements,
		Powerups:   inv,
		Board:      parsed.Board,
		FilePath:   path.Join(l.Root, p),
	}, nil
}

// LoadByID loads a specific puzzle by ID.
func (l *Loader) LoadByID(id string) (Puzzle, error) {
	puzzles, err := l.LoadAll()
	if err != nil {
		return Puzzle{}, err
	}
	return Find(puzzles, id)
}

// Find returns the puzzle with the given ID.
func Find(puzzles []Puzzle, id string) (Puzzle, error) {
	for _, pz := range puzzles {
		if pz.ID == id {
			return pz, nil
		}
	}
	return Puzzle{}, fmt.Errorf("puzzle not found: %s", id)
}

// Catalog merges the embedded pack with the puzzles in userDir. A user
// puzzle replaces an embedded one with the same ID. A missing userDir is
// not an error.
func Catalog(userDir string) ([]Puzzle, error) {
	builtin, err := Embedded().LoadAll()
	if err != nil {
		return nil, err
	}
	byID := make(map[string]Puzzle, len(builtin))
	for _, pz := range builtin {
		byID[pz.ID] = pz
	}

	if userDir != "" {
		if _, err := os.Stat(userDir); err == nil {
			user, err := NewLoader(userDir).LoadAll()
			if err != nil {
				return nil, err
			}
			for _, pz := range user {
				byID[pz.ID] = pz
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("puzzle directory %s: %w", userDir, err)
		}
	}

	out := make([]Puzzle, 0, len(byID))
	for _, pz := range byID {
		out = append(out, pz)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func inventory(m map[string]int) (droplit.Inventory, error) {
	var inv droplit.Inventory
	for name, n := range m {
		kind, err := droplit.ParsePowerup(name)
		if err != nil {
			return inv, err
		}
		if n < 0 {
			return inv, fmt.Errorf("negative %s count %d", name, n)
		}
		switch kind {
		case droplit.PowerupRain:
			inv.Rain = n
		case droplit.PowerupFreeze:
			inv.Freeze = n
		case droplit.PowerupBomb:
			inv.Bomb = n
		case droplit.PowerupLaser:
			inv.Laser = n
		}
	}
	return inv, nil
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}
