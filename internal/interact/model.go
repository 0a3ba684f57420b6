package interact

import (
	"github.com/san-kum/partsim/internal/grid"
	"github.com/san-kum/partsim/internal/particle"
)

// minDistSq is the squared separation below which a pair is treated as
// coincident and contributes no force.
const minDistSq = 1e-12

// Model accumulates one step of interaction forces. The grid must have been
// rebuilt from ps for the current step.
type Model interface {
	Name() string
	Accumulate(ps particle.Set, g *grid.Grid, dt float64)

	sealed()
}

// forEachGridPair calls fn once for every unordered pair (i < j) whose cells
// are the same or adjacent.
func forEachGridPair(g *grid.Grid, fn func(i, j int)) {
	g.ForEachOccupied(func(c grid.Cell, bucket []int) {
		for _, i := range bucket {
			g.Neighbors(c, func(j int) {
				if j > i {
					fn(i, j)
				}
			})
		}
	})
}

// forEachPair is the O(n²) reference enumeration.
func forEachPair(n int, fn func(i, j int)) {
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			fn(i, j)
		}
	}
}
