// Package grid implements the uniform spatial partition used to bound the
// neighbor search of the interaction models.
//
// The grid is padded by one cell on every side. Cell coordinates are clamped
// to [1, dim-2] so a 3×3(×3) neighborhood lookup never leaves the array and
// particles that strayed outside the domain land in the border cells instead
// of being dropped.
package grid

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/partsim/internal/vec"
)

var ErrInvalidGeometry = errors.New("grid: invalid geometry")

// Cell is a clamped (i, j, k) cell coordinate.
type Cell struct {
	I, J, K int
}

// Positions is the read access the grid needs from a particle collection.
type Positions interface {
	Len() int
	PositionAt(i int) vec.Vec
}

type Grid struct {
	cellSize   float64
	invCell    float64
	nx, ny, nz int
	cells      [][]int
	count      int
}

// New sizes the grid from the domain extent. A zero Z extent makes a planar
// grid with a single populated layer.
func New(extent vec.Vec, cellSize float64) (*Grid, error) {
	if !(cellSize > 0) || math.IsInf(cellSize, 0) {
		return nil, fmt.Errorf("%w: cell size must be positive, got %v", ErrInvalidGeometry, cellSize)
	}
	if !(extent.X > 0) || !(extent.Y > 0) {
		return nil, fmt.Errorf("%w: domain extent must be positive, got %+v", ErrInvalidGeometry, extent)
	}
	if extent.Z < 0 || math.IsNaN(extent.Z) {
		return nil, fmt.Errorf("%w: negative depth %v", ErrInvalidGeometry, extent.Z)
	}

	g := &Grid{
		cellSize: cellSize,
		invCell:  1 / cellSize,
		nx:       axisDim(extent.X, cellSize),
		ny:       axisDim(extent.Y, cellSize),
		nz:       axisDim(extent.Z, cellSize),
	}
	g.cells = make([][]int, g.nx*g.ny*g.nz)
	for i := range g.cells {
		g.cells[i] = make([]int, 0, 4)
	}
	return g, nil
}

func axisDim(extent, cell float64) int {
	n := int(math.Ceil(extent / cell))
	if n < 1 {
		n = 1
	}
	return n + 2
}

func (g *Grid) Dims() (nx, ny, nz int) { return g.nx, g.ny, g.nz }

func (g *Grid) CellSize() float64 { return g.cellSize }

// Len returns the number of indices stored by the last Rebuild.
func (g *Grid) Len() int { return g.count }

// Clear empties every bucket without releasing its backing array.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
	g.count = 0
}

// Rebuild clears the grid and inserts every index of ps.
func (g *Grid) Rebuild(ps Positions) {
	g.Clear()
	n := ps.Len()
	for i := 0; i < n; i++ {
		c := g.CellOf(ps.PositionAt(i))
		idx := g.flat(c)
		g.cells[idx] = append(g.cells[idx], i)
	}
	g.count = n
}

// CellOf maps a position to its clamped cell.
func (g *Grid) CellOf(p vec.Vec) Cell {
	return Cell{
		I: clampIndex(p.X*g.invCell, g.nx),
		J: clampIndex(p.Y*g.invCell, g.ny),
		K: clampIndex(p.Z*g.invCell, g.nz),
	}
}

func clampIndex(q float64, dim int) int {
	hi := dim - 2
	// NaN and far-out values are resolved before the int conversion.
	if !(q >= 0) {
		return 1
	}
	if q >= float64(hi) {
		return hi
	}
	i := int(math.Floor(q)) + 1
	if i > hi {
		return hi
	}
	return i
}

func (g *Grid) flat(c Cell) int {
	return (c.I*g.ny+c.J)*g.nz + c.K
}

// Bucket returns the indices stored in one cell. The slice is owned by the
// grid and valid until the next Rebuild.
func (g *Grid) Bucket(c Cell) []int {
	return g.cells[g.flat(c)]
}

// Neighbors visits every index in the 3×3×3 block of cells centred on c.
// c must be a clamped coordinate as returned by CellOf.
func (g *Grid) Neighbors(c Cell, fn func(idx int)) {
	for di := -1; di <= 1; di++ {
		for dj := -1; dj <= 1; dj++ {
			for dk := -1; dk <= 1; dk++ {
				for _, idx := range g.cells[g.flat(Cell{c.I + di, c.J + dj, c.K + dk})] {
					fn(idx)
				}
			}
		}
	}
}

// AppendNeighbors is the eager form of Neighbors.
func (g *Grid) AppendNeighbors(dst []int, c Cell) []int {
	g.Neighbors(c, func(idx int) { dst = append(dst, idx) })
	return dst
}

// ForEachOccupied calls fn for every non-empty cell.
func (g *Grid) ForEachOccupied(fn func(c Cell, bucket []int)) {
	for i := 1; i < g.nx-1; i++ {
		for j := 1; j < g.ny-1; j++ {
			for k := 1; k < g.nz-1; k++ {
				c := Cell{i, j, k}
				if b := g.cells[g.flat(c)]; len(b) > 0 {
					fn(c, b)
				}
			}
		}
	}
}
