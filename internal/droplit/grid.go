package droplit

import (
	"fmt"
	"strings"
)

// Grid is the authoritative store of cell charges.
// Charges are stored in row-major order: index = row*Cols + col.
//
// Get, Set and Increment panic on out-of-bounds coordinates. Callers check
// InBounds first; the Session does so before any mutation.
type Grid struct {
	rows    int
	cols    int
	charges []int
}

// NewGrid creates an empty grid with the given dimensions.
func NewGrid(rows, cols int) *Grid {
	if rows < 1 || cols < 1 {
		panic(fmt.Sprintf("droplit: invalid grid size %dx%d", rows, cols))
	}
	return &Grid{
		rows:    rows,
		cols:    cols,
		charges: make([]int, rows*cols),
	}
}

// GridFromRows builds a grid from a slice of rows.
// All rows must have the same non-zero length and no charge may be negative.
func GridFromRows(rows [][]int) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("droplit: empty board")
	}
	g := NewGrid(len(rows), len(rows[0]))
	for r, row := range rows {
		if len(row) != g.cols {
			return nil, fmt.Errorf("droplit: row %d has %d cells, want %d", r, len(row), g.cols)
		}
		for c, v := range row {
			if v < 0 {
				return nil, fmt.Errorf("droplit: negative charge %d at %v", v, At(r, c))
			}
			g.charges[r*g.cols+c] = v
		}
	}
	return g, nil
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// InBounds reports whether c lies inside the grid.
func (g *Grid) InBounds(c Cell) bool {
	return c.Row >= 0 && c.Row < g.rows && c.Col >= 0 && c.Col < g.cols
}

func (g *Grid) index(c Cell) int {
	if !g.InBounds(c) {
		panic(fmt.Sprintf("droplit: cell %v out of bounds for %dx%d grid", c, g.rows, g.cols))
	}
	return c.Row*g.cols + c.Col
}

// Get returns the charge at c.
func (g *Grid) Get(c Cell) int {
	return g.charges[g.index(c)]
}

// Set overwrites the charge at c.
func (g *Grid) Set(c Cell, v int) {
	g.charges[g.index(c)] = v
}

// Increment adds by to the charge at c and returns the new value.
func (g *Grid) Increment(c Cell, by int) int {
	i := g.index(c)
	g.charges[i] += by
	return g.charges[i]
}

// IsEmpty reports whether every cell is zero.
func (g *Grid) IsEmpty() bool {
	for _, v := range g.charges {
		if v != 0 {
			return false
		}
	}
	return true
}

// FilledCount returns the number of non-empty cells.
func (g *Grid) FilledCount() int {
	n := 0
	for _, v := range g.charges {
		if v > 0 {
			n++
		}
	}
	return n
}

// Total returns the sum of all charges.
func (g *Grid) Total() int {
	sum := 0
	for _, v := range g.charges {
		sum += v
	}
	return sum
}

// Above returns every cell whose charge exceeds threshold, row-major.
func (g *Grid) Above(threshold int) []Cell {
	var cells []Cell
	for i, v := range g.charges {
		if v > threshold {
			cells = append(cells, At(i/g.cols, i%g.cols))
		}
	}
	return cells
}

// Raycast scans from c in direction d, starting one step away, and returns
// the first cell holding a charge. If the scan leaves the grid first, it
// returns the first off-grid cell and false.
func (g *Grid) Raycast(c Cell, d Dir) (Cell, bool) {
	next := c.Step(d)
	for g.InBounds(next) {
		if g.charges[next.Row*g.cols+next.Col] > 0 {
			return next, true
		}
		next = next.Step(d)
	}
	return next, false
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	charges := make([]int, len(g.charges))
	copy(charges, g.charges)
	return &Grid{rows: g.rows, cols: g.cols, charges: charges}
}

// Equal returns true if two grids have the same dimensions and contents.
func (g *Grid) Equal(other *Grid) bool {
	if g.rows != other.rows || g.cols != other.cols {
		return false
	}
	for i, v := range g.charges {
		if v != other.charges[i] {
			return false
		}
	}
	return true
}

// Charges returns a copy of the grid as a slice of rows.
func (g *Grid) Charges() [][]int {
	out := make([][]int, g.rows)
	for r := range out {
		out[r] = make([]int, g.cols)
		copy(out[r], g.charges[r*g.cols:(r+1)*g.cols])
	}
	return out
}

// String renders the grid as digit rows, '.' for empty cells.
func (g *Grid) String() string {
	var sb strings.Builder
	sb.Grow((g.cols + 1) * g.rows)
	for r := 0; r < g.rows; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := 0; c < g.cols; c++ {
			v := g.charges[r*g.cols+c]
			switch {
			case v == 0:
				sb.WriteByte('.')
			case v < 10:
				sb.WriteByte(byte('0' + v))
			default:
				sb.WriteByte('+')
			}
		}
	}
	return sb.String()
}
