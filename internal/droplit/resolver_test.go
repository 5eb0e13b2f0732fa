package droplit_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elmandalorian-thx/droplit/internal/droplit"
)

func countKind(events []droplit.Event, kind droplit.EventKind) int {
	n := 0
	for _, ev := range events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

func TestResolverSingleCellAllMiss(t *testing.T) {
	g := droplit.NewGrid(8, 6)
	g.Set(droplit.At(3, 2), 4)

	r := droplit.NewResolver(g, []droplit.Cell{droplit.At(3, 2)}, 3, 30)
	res := r.Run()

	assert.True(t, g.IsEmpty())
	assert.Equal(t, 1, res.Rounds)
	assert.Equal(t, 1, res.Combo)
	assert.False(t, res.CapHit)
	require.Len(t, res.Events, 5)
	assert.Equal(t, droplit.EventDischarge, res.Events[0].Kind)
	for _, ev := range res.Events[1:] {
		assert.Equal(t, droplit.EventImpact, ev.Kind)
		assert.False(t, ev.Landed)
		assert.False(t, g.InBounds(ev.Cell))
	}
}

func TestResolverAdjacentExplodersDoNotBlock(t *testing.T) {
	g, err := droplit.GridFromRows([][]int{
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{1, 0, 4, 4, 0, 1},
		{0, 0, 0, 0, 0, 0},
	})
	require.NoError(t, err)

	r := droplit.NewResolver(g, []droplit.Cell{droplit.At(2, 2), droplit.At(2, 3)}, 3, 30)
	rr := r.Step()

	assert.Equal(t, 1, rr.Round)
	assert.Empty(t, rr.Next)
	assert.Equal(t, 4, rr.Misses)
	assert.True(t, r.Done())

	// Both exploders reach both edge cells through each other's emptied slot
	assert.Equal(t, 3, g.Get(droplit.At(2, 0)))
	assert.Equal(t, 3, g.Get(droplit.At(2, 5)))
	assert.Equal(t, 0, g.Get(droplit.At(2, 2)))
	assert.Equal(t, 0, g.Get(droplit.At(2, 3)))
	assert.Equal(t, 2, r.Combo())
}

func TestResolverEnqueuesTargetOnce(t *testing.T) {
	// (1,1) receives impacts from both (0,1) and (1,0) in the same round
	g, err := droplit.GridFromRows([][]int{
		{0, 4, 0},
		{4, 3, 0},
		{0, 0, 0},
	})
	require.NoError(t, err)

	r := droplit.NewResolver(g, []droplit.Cell{droplit.At(0, 1), droplit.At(1, 0)}, 3, 30)
	rr := r.Step()

	assert.Equal(t, []droplit.Cell{droplit.At(1, 1)}, rr.Next)
	assert.Equal(t, 5, g.Get(droplit.At(1, 1)))
}

func TestResolverDeduplicatesSeeds(t *testing.T) {
	g := droplit.NewGrid(3, 3)
	g.Set(droplit.At(1, 1), 4)

	r := droplit.NewResolver(g, []droplit.Cell{droplit.At(1, 1), droplit.At(1, 1), droplit.At(9, 9)}, 3, 30)
	assert.Equal(t, []droplit.Cell{droplit.At(1, 1)}, r.Pending())

	res := r.Run()
	assert.Equal(t, 1, res.Combo)
}

func TestResolverNoSeedsIsDone(t *testing.T) {
	r := droplit.NewResolver(droplit.NewGrid(2, 2), nil, 3, 30)
	assert.True(t, r.Done())
	assert.Equal(t, droplit.RoundResult{}, r.Step())
}

func TestResolverCapForceClears(t *testing.T) {
	g, err := droplit.GridFromRows([][]int{{4, 3, 0}})
	require.NoError(t, err)

	r := droplit.NewResolver(g, []droplit.Cell{droplit.At(0, 0)}, 3, 1)
	res := r.Run()

	assert.True(t, res.CapHit)
	assert.True(t, r.CapHit())
	assert.Equal(t, 1, res.Rounds)
	assert.Equal(t, []droplit.Cell{droplit.At(0, 1)}, res.Forced)
	assert.True(t, g.IsEmpty())
}

// randomBoard fills a grid with charges in [0,3] and pushes a few cells over.
func randomBoard(rng *rand.Rand, rows, cols int) (*droplit.Grid, []droplit.Cell) {
	g := droplit.NewGrid(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			g.Set(droplit.At(r, c), rng.Intn(4))
		}
	}
	var seeds []droplit.Cell
	for i := 0; i < 1+rng.Intn(3); i++ {
		c := droplit.At(rng.Intn(rows), rng.Intn(cols))
		g.Set(c, 4)
		seeds = append(seeds, c)
	}
	return g, seeds
}

func TestResolverSettlesBelowThreshold(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		g, seeds := randomBoard(rng, 8, 6)
		droplit.NewResolver(g, seeds, 3, 30).Run()
		assert.Empty(t, g.Above(3), "board %d:\n%s", i, g)
	}
}

func TestResolverConservesChargeExceptMisses(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 200; i++ {
		g, seeds := randomBoard(rng, 8, 6)
		r := droplit.NewResolver(g, seeds, 3, 1000)
		for !r.Done() {
			before := g.Total()
			discharged := 0
			for _, c := range r.Pending() {
				discharged += g.Get(c)
			}

			rr := r.Step()
			landed := 0
			for _, ev := range rr.Events {
				if ev.Kind == droplit.EventImpact && ev.Landed {
					landed++
				}
			}
			require.False(t, rr.CapHit)
			assert.Equal(t, before-discharged+landed, g.Total())
			assert.Equal(t, 4*len(rr.Exploded), landed+rr.Misses)
		}
	}
}

func TestResolverDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 50; i++ {
		g, seeds := randomBoard(rng, 8, 6)
		g2 := g.Clone()

		a := droplit.NewResolver(g, seeds, 3, 30).Run()
		b := droplit.NewResolver(g2, seeds, 3, 30).Run()

		assert.True(t, g.Equal(g2))
		assert.Equal(t, a, b)
	}
}

func TestResolverEventOrderPerRound(t *testing.T) {
	g := droplit.NewGrid(3, 3)
	g.Set(droplit.At(1, 1), 4)
	g.Set(droplit.At(0, 1), 1)

	rr := droplit.NewResolver(g, []droplit.Cell{droplit.At(1, 1)}, 3, 30).Step()
	require.Len(t, rr.Events, 5)
	assert.Equal(t, droplit.Discharge(1, droplit.At(1, 1)), rr.Events[0])
	assert.Equal(t, droplit.Impact(1, droplit.At(1, 1), droplit.At(0, 1), droplit.DirUp, true), rr.Events[1])
	assert.Equal(t, 1, countKind(rr.Events, droplit.EventDischarge))
	assert.Equal(t, 3, rr.Misses)
}
