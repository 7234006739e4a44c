// Package genetic implements a generational genetic algorithm over flat
// real-valued chromosomes: roulette-wheel selection, uniform crossover and
// Gaussian mutation.
package genetic

import (
	"errors"
	"fmt"
	"math/rand"
)

var (
	// ErrEmptyPopulation is returned when evolving or selecting from no individuals.
	ErrEmptyPopulation = errors.New("genetic: empty population")
	// ErrChromosomeLength is returned when parents have different lengths.
	ErrChromosomeLength = errors.New("genetic: chromosome length mismatch")
)

// Chromosome is an ordered, fixed-length vector of genes.
type Chromosome []float32

// Individual pairs a chromosome with the fitness it earned.
type Individual struct {
	Chromosome Chromosome
	Fitness    float32
}

// GeneticAlgorithm produces the next generation from scored individuals.
type GeneticAlgorithm struct {
	selector  Selector
	crossover Crossover
	mutator   Mutator
}

// New wires a genetic algorithm from its three operators.
func New(selector Selector, crossover Crossover, mutator Mutator) *GeneticAlgorithm {
	return &GeneticAlgorithm{
		selector:  selector,
		crossover: crossover,
		mutator:   mutator,
	}
}

// String describes the operator set, e.g. for logs.
func (ga *GeneticAlgorithm) String() string {
	return fmt.Sprintf("%s/%s/%s", ga.selector.Name(), ga.crossover.Name(), ga.mutator.Name())
}

// Evolve returns len(population) child chromosomes. Each child comes from
// two selected parents, crossed over and then mutated. The population is
// not modified.
func (ga *GeneticAlgorithm) Evolve(rng *rand.Rand, population []Individual) ([]Chromosome, error) {
	if rng == nil {
		return nil, fmt.Errorf("genetic: random source is required")
	}
	if len(population) == 0 {
		return nil, ErrEmptyPopulation
	}

	children := make([]Chromosome, 0, len(population))
	for range population {
		a, err := ga.selector.Select(rng, population)
		if err != nil {
			return nil, fmt.Errorf("selecting first parent: %w", err)
		}
		b, err := ga.selector.Select(rng, population)
		if err != nil {
			return nil, fmt.Errorf("selecting second parent: %w", err)
		}

		child, err := ga.crossover.Crossover(rng, a.Chromosome, b.Chromosome)
		if err != nil {
			return nil, err
		}
		ga.mutator.Mutate(rng, child)
		children = append(children, child)
	}
	return children, nil
}
