package components

import "math"

// Position is a point in the unit arena. Both coordinates live in [0, 1)
// once wrapped; the arena is toroidal.
type Position struct {
	X, Y float32
}

// Wrapped returns p with both coordinates folded back into [0, 1).
func (p Position) Wrapped() Position {
	return Position{X: Wrap01(p.X), Y: Wrap01(p.Y)}
}

// Distance returns the Euclidean distance to q. The arena edges are not
// taken into account.
func (p Position) Distance(q Position) float32 {
	dx := q.X - p.X
	dy := q.Y - p.Y
	return float32(math.Sqrt(float64(dx*dx + dy*dy)))
}

// Wrap01 folds v into [0, 1).
func Wrap01(v float32) float32 {
	w := v - float32(math.Floor(float64(v)))
	// x - floor(x) rounds up to 1 for tiny negative inputs.
	if w >= 1 || w < 0 {
		return 0
	}
	return w
}
