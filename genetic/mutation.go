package genetic

import (
	"fmt"
	"math/rand"
)

// Mutator perturbs a chromosome in place.
type Mutator interface {
	Name() string
	Mutate(rng *rand.Rand, c Chromosome)
}

// GaussianMutation adds N(0, Coeff²) noise to each gene with probability Chance.
type GaussianMutation struct {
	Chance float64
	Coeff  float64
}

// NewGaussianMutation validates chance in [0, 1] and coeff >= 0.
func NewGaussianMutation(chance, coeff float64) (GaussianMutation, error) {
	if chance < 0 || chance > 1 {
		return GaussianMutation{}, fmt.Errorf("genetic: mutation chance must be in [0, 1], got %g", chance)
	}
	if coeff < 0 {
		return GaussianMutation{}, fmt.Errorf("genetic: mutation coefficient must be >= 0, got %g", coeff)
	}
	return GaussianMutation{Chance: chance, Coeff: coeff}, nil
}

func (GaussianMutation) Name() string {
	return "gaussian"
}

func (m GaussianMutation) Mutate(rng *rand.Rand, c Chromosome) {
	for i := range c {
		if rng.Float64() < m.Chance {
			c[i] += float32(rng.NormFloat64() * m.Coeff)
		}
	}
}
