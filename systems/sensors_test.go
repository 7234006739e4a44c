package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/forage/components"
	"github.com/pthm-cable/forage/config"
)

func testEye() Eye {
	return Eye{FOVRange: 0.5, FOVAngle: math.Pi, Cells: 4}
}

func food(x, y float32) components.Food {
	return components.Food{Position: components.Position{X: x, Y: y}}
}

func approxEqual(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestNewEyeFromConfig(t *testing.T) {
	cfg := config.Default()
	eye := NewEye(cfg)

	if eye.Cells != cfg.Eye.Cells {
		t.Errorf("Cells = %d, want %d", eye.Cells, cfg.Eye.Cells)
	}
	if !approxEqual(eye.FOVRange, float32(cfg.Eye.FOVRange)) {
		t.Errorf("FOVRange = %v, want %v", eye.FOVRange, cfg.Eye.FOVRange)
	}
}

func TestProcessVisionNoFood(t *testing.T) {
	for _, cells := range []int{1, 2, 9, 13} {
		eye := Eye{FOVRange: 0.25, FOVAngle: math.Pi, Cells: cells}
		vision := eye.ProcessVision(components.Position{X: 0.5, Y: 0.5}, 0, nil)

		if len(vision) != cells {
			t.Fatalf("vision length = %d, want %d", len(vision), cells)
		}
		for i, v := range vision {
			if v != 0 {
				t.Errorf("cells=%d: vision[%d] = %v, want 0", cells, i, v)
			}
		}
	}
}

func TestProcessVisionSectors(t *testing.T) {
	observer := components.Position{X: 0.5, Y: 0.5}

	tests := []struct {
		name    string
		heading float32
		foods   []components.Food
		want    []float32
	}{
		{
			name:  "straight ahead",
			foods: []components.Food{food(0.75, 0.5)},
			want:  []float32{0, 0, 0.5, 0},
		},
		{
			name:  "left edge of fov",
			foods: []components.Food{food(0.5, 0.75)},
			want:  []float32{0, 0, 0, 0.5},
		},
		{
			name:  "right side at range boundary",
			foods: []components.Food{food(0.5, 0.0)},
			want:  []float32{0, 0, 0, 0},
		},
		{
			name:  "behind is invisible",
			foods: []components.Food{food(0.25, 0.5)},
			want:  []float32{0, 0, 0, 0},
		},
		{
			name:  "out of range",
			foods: []components.Food{food(0.99, 0.99)},
			want:  []float32{0, 0, 0, 0},
		},
		{
			name:  "near range boundary",
			foods: []components.Food{food(0.5, 0.95)},
			want:  []float32{0, 0, 0, 0.1},
		},
		{
			name:  "contributions add up",
			foods: []components.Food{food(0.75, 0.5), food(0.625, 0.5)},
			want:  []float32{0, 0, 1.25, 0},
		},
		{
			name:  "zero distance counts straight ahead",
			foods: []components.Food{food(0.5, 0.5)},
			want:  []float32{0, 0, 1, 0},
		},
		{
			name:    "rotated heading",
			heading: math.Pi / 2,
			foods:   []components.Food{food(0.5, 0.75)},
			want:    []float32{0, 0, 0.5, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vision := testEye().ProcessVision(observer, tt.heading, tt.foods)
			if len(vision) != len(tt.want) {
				t.Fatalf("vision length = %d, want %d", len(vision), len(tt.want))
			}
			for i := range tt.want {
				if !approxEqual(vision[i], tt.want[i]) {
					t.Errorf("vision = %v, want %v", vision, tt.want)
					break
				}
			}
		})
	}
}

func TestProcessVisionIntoResetsBuffer(t *testing.T) {
	eye := testEye()
	vision := []float32{9, 9, 9, 9}

	eye.ProcessVisionInto(vision, components.Position{X: 0.5, Y: 0.5}, 0, nil)
	for i, v := range vision {
		if v != 0 {
			t.Errorf("vision[%d] = %v, want 0 after reset", i, v)
		}
	}
}

func TestProcessVisionDeterministic(t *testing.T) {
	eye := testEye()
	observer := components.Position{X: 0.3, Y: 0.6}
	foods := []components.Food{food(0.4, 0.6), food(0.35, 0.7), food(0.1, 0.1)}

	a := eye.ProcessVision(observer, 0.7, foods)
	b := eye.ProcessVision(observer, 0.7, foods)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("ProcessVision not deterministic: %v vs %v", a, b)
		}
	}
}

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		in, want float32
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
		{5 * math.Pi, math.Pi},
	}

	for _, tt := range tests {
		got := NormalizeAngle(tt.in)
		if !approxEqual(got, tt.want) {
			t.Errorf("NormalizeAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
		if got <= -math.Pi || got > math.Pi {
			t.Errorf("NormalizeAngle(%v) = %v outside (-Pi, Pi]", tt.in, got)
		}
	}
}
