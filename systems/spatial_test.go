package systems

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/pthm-cable/forage/components"
)

func TestSpatialGridFindsEveryItemInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	g := NewSpatialGrid(0.1)

	points := make([]components.Position, 200)
	for i := range points {
		points[i] = components.RandomPosition(rng)
		g.Insert(i, points[i])
	}

	for q := 0; q < 50; q++ {
		center := components.RandomPosition(rng)
		radius := rng.Float32() * 0.3

		got := g.QueryRadiusInto(nil, center, radius)
		if !slices.IsSorted(got) {
			t.Fatalf("query result not sorted: %v", got)
		}
		for i, p := range points {
			if center.Distance(p) <= radius {
				if _, found := slices.BinarySearch(got, i); !found {
					t.Fatalf("item %d at distance %v missing for radius %v", i, center.Distance(p), radius)
				}
			}
		}
	}
}

func TestSpatialGridMove(t *testing.T) {
	g := NewSpatialGrid(0.25)
	g.Insert(0, components.Position{X: 0.1, Y: 0.1})
	g.Insert(1, components.Position{X: 0.9, Y: 0.9})

	g.Move(0, components.Position{X: 0.85, Y: 0.85})

	if got := g.QueryRadiusInto(nil, components.Position{X: 0.1, Y: 0.1}, 0.01); len(got) != 0 {
		t.Errorf("old cell still holds %v", got)
	}
	got := g.QueryRadiusInto(nil, components.Position{X: 0.9, Y: 0.9}, 0.01)
	if !slices.Equal(got, []int{0, 1}) {
		t.Errorf("new cell = %v, want [0 1]", got)
	}
}

func TestSpatialGridClear(t *testing.T) {
	g := NewSpatialGrid(0.5)
	g.Insert(0, components.Position{X: 0.2, Y: 0.2})
	g.Clear()

	if got := g.QueryRadiusInto(nil, components.Position{X: 0.5, Y: 0.5}, 1); len(got) != 0 {
		t.Errorf("cleared grid returned %v", got)
	}

	// Move after Clear must not fail on a stale cell reference
	g.Move(0, components.Position{X: 0.7, Y: 0.7})
	if got := g.QueryRadiusInto(nil, components.Position{X: 0.7, Y: 0.7}, 0.01); !slices.Equal(got, []int{0}) {
		t.Errorf("after move = %v, want [0]", got)
	}
}

func TestSpatialGridResolution(t *testing.T) {
	tests := []struct {
		cellSize float32
		cols     int
	}{
		{0.25, 4},
		{0.3, 3},
		{2, 1},
		{0, maxGridCols},
		{1e-6, maxGridCols},
	}

	for _, tt := range tests {
		if g := NewSpatialGrid(tt.cellSize); g.cols != tt.cols {
			t.Errorf("NewSpatialGrid(%v).cols = %d, want %d", tt.cellSize, g.cols, tt.cols)
		}
	}
}
