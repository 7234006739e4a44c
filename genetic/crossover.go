package genetic

import (
	"fmt"
	"math/rand"
)

// Crossover combines two parents into one child of the same length.
type Crossover interface {
	Name() string
	Crossover(rng *rand.Rand, a, b Chromosome) (Chromosome, error)
}

// UniformCrossover takes each gene from either parent with equal probability.
type UniformCrossover struct{}

func (UniformCrossover) Name() string {
	return "uniform"
}

func (UniformCrossover) Crossover(rng *rand.Rand, a, b Chromosome) (Chromosome, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrChromosomeLength, len(a), len(b))
	}

	child := make(Chromosome, len(a))
	for i := range a {
		if rng.Float64() < 0.5 {
			child[i] = a[i]
		} else {
			child[i] = b[i]
		}
	}
	return child, nil
}
