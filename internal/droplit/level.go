package droplit

import (
	"fmt"
	"math"
	"math/rand"
)

// LevelConfig describes a generated level. It is produced by the level
// curve in internal/config and consumed by InitializeLevel.
type LevelConfig struct {
	Placements int     `yaml:"placements" json:"placements"`
	EmptyCells int     `yaml:"empty_cells" json:"emptyCells"`
	HighRatio  float64 `yaml:"high_ratio" json:"highRatio"`
	MidRatio   float64 `yaml:"mid_ratio" json:"midRatio"`
}

// Validate checks the config against a grid of the given size.
func (c LevelConfig) Validate(rows, cols int) error {
	total := rows * cols
	switch {
	case c.Placements < 0:
		return fmt.Errorf("droplit: negative placements %d", c.Placements)
	case c.EmptyCells < 0 || c.EmptyCells > total:
		return fmt.Errorf("droplit: empty cells %d outside [0,%d]", c.EmptyCells, total)
	case c.HighRatio < 0 || c.MidRatio < 0:
		return fmt.Errorf("droplit: negative ratio (high=%g, mid=%g)", c.HighRatio, c.MidRatio)
	case c.HighRatio+c.MidRatio > 1:
		return fmt.Errorf("droplit: ratios sum to %g, want <= 1", c.HighRatio+c.MidRatio)
	}
	return nil
}

// Composition is the number of cells of each starting charge.
type Composition struct {
	High  int // charge 3
	Mid   int // charge 2
	Low   int // charge 1
	Empty int // charge 0
}

// Compose computes the multiset a config produces for a grid of total cells.
func (c LevelConfig) Compose(total int) Composition {
	filled := total - c.EmptyCells
	high := int(math.Floor(float64(filled) * c.HighRatio))
	mid := int(math.Floor(float64(filled) * c.MidRatio))
	return Composition{
		High:  high,
		Mid:   mid,
		Low:   filled - high - mid,
		Empty: c.EmptyCells,
	}
}

// ShuffleBoard returns a uniformly random row-major permutation of the
// config's multiset. The config must already be valid for rows x cols.
func ShuffleBoard(c LevelConfig, rows, cols int, rng *rand.Rand) []int {
	comp := c.Compose(rows * cols)
	cells := make([]int, 0, rows*cols)
	for _, part := range []struct{ n, v int }{
		{comp.High, 3}, {comp.Mid, 2}, {comp.Low, 1}, {comp.Empty, 0},
	} {
		for i := 0; i < part.n; i++ {
			cells = append(cells, part.v)
		}
	}

	// Fisher-Yates
	for i := len(cells) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		cells[i], cells[j] = cells[j], cells[i]
	}
	return cells
}
