package components

import (
	"math"
	"math/rand"
)

// RandomPosition samples a point uniformly in [0, 1)^2.
func RandomPosition(rng *rand.Rand) Position {
	return Position{X: rng.Float32(), Y: rng.Float32()}
}

// RandomAngle samples a heading uniformly in (-Pi, Pi], the range headings
// are kept in.
func RandomAngle(rng *rand.Rand) float32 {
	a := float32(math.Pi - rng.Float64()*2*math.Pi)
	// Values just above -Pi can round down onto it in float32.
	if a <= -math.Pi {
		a = math.Pi
	}
	return a
}
