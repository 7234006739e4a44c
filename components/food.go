package components

import "math/rand"

// Food is a passive point in the arena. It only moves when eaten or when a
// new generation starts.
type Food struct {
	Position Position
}

// RandomFood samples a food at a uniformly random position.
func RandomFood(rng *rand.Rand) Food {
	return Food{Position: RandomPosition(rng)}
}

// Respawn moves the food to a fresh uniformly random position.
func (f *Food) Respawn(rng *rand.Rand) {
	f.Position = RandomPosition(rng)
}
