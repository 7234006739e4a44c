// Package systems provides the per-animal sensing and math helpers used by
// the simulation.
package systems

import (
	"math"
	"slices"

	"github.com/pthm-cable/forage/components"
)

// maxGridCols bounds the grid resolution for very small cell sizes.
const maxGridCols = 256

// SpatialGrid buckets item indices by position for radius queries over the
// unit arena. Like components.Position.Distance it does not wrap at the
// edges.
type SpatialGrid struct {
	cellSize float32
	cols     int
	cells    [][]int // row-major, cols*cols
	cellOf   []int   // item index -> cell index, -1 when absent
}

// NewSpatialGrid creates a grid whose cells are at least cellSize wide.
func NewSpatialGrid(cellSize float32) *SpatialGrid {
	cols := maxGridCols
	if cellSize > 0 {
		cols = min(max(int(1/cellSize), 1), maxGridCols)
	}

	cells := make([][]int, cols*cols)
	for i := range cells {
		cells[i] = make([]int, 0, 8) // pre-allocate small capacity
	}

	return &SpatialGrid{
		cellSize: 1 / float32(cols),
		cols:     cols,
		cells:    cells,
	}
}

// Clear removes all items from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
	for i := range g.cellOf {
		g.cellOf[i] = -1
	}
}

// Insert adds item i at p.
func (g *SpatialGrid) Insert(i int, p components.Position) {
	for len(g.cellOf) <= i {
		g.cellOf = append(g.cellOf, -1)
	}
	idx := g.cellIndex(p.X, p.Y)
	g.cells[idx] = append(g.cells[idx], i)
	g.cellOf[i] = idx
}

// Move relocates item i to p.
func (g *SpatialGrid) Move(i int, p components.Position) {
	if i < len(g.cellOf) && g.cellOf[i] >= 0 {
		cell := g.cells[g.cellOf[i]]
		if j := slices.Index(cell, i); j >= 0 {
			cell[j] = cell[len(cell)-1]
			g.cells[g.cellOf[i]] = cell[:len(cell)-1]
		}
	}
	g.Insert(i, p)
}

// QueryRadiusInto appends to dst every item in a cell overlapping the
// square of half-width radius around p, in ascending index order. Callers
// apply the exact distance test. Reuse dst across calls to avoid
// allocations.
func (g *SpatialGrid) QueryRadiusInto(dst []int, p components.Position, radius float32) []int {
	start := len(dst)

	colMin, rowMin := g.cellCoords(p.X-radius, p.Y-radius)
	colMax, rowMax := g.cellCoords(p.X+radius, p.Y+radius)
	for row := rowMin; row <= rowMax; row++ {
		for col := colMin; col <= colMax; col++ {
			dst = append(dst, g.cells[row*g.cols+col]...)
		}
	}

	slices.Sort(dst[start:])
	return dst
}

// cellCoords returns the clamped column and row for a position.
func (g *SpatialGrid) cellCoords(x, y float32) (col, row int) {
	col = int(math.Floor(float64(x / g.cellSize)))
	row = int(math.Floor(float64(y / g.cellSize)))
	return min(max(col, 0), g.cols-1), min(max(row, 0), g.cols-1)
}

// cellIndex returns the flat index for a world position.
func (g *SpatialGrid) cellIndex(x, y float32) int {
	col, row := g.cellCoords(x, y)
	return row*g.cols + col
}
