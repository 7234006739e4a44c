package genetic

import "math/rand"

// Selector chooses a parent from a scored population.
type Selector interface {
	Name() string
	Select(rng *rand.Rand, population []Individual) (Individual, error)
}

// RouletteWheelSelection picks individuals with probability proportional
// to their fitness. Negative fitness counts as zero; when the total is
// zero every individual is equally likely.
type RouletteWheelSelection struct{}

func (RouletteWheelSelection) Name() string {
	return "roulette_wheel"
}

func (RouletteWheelSelection) Select(rng *rand.Rand, population []Individual) (Individual, error) {
	if len(population) == 0 {
		return Individual{}, ErrEmptyPopulation
	}

	var total float64
	for _, ind := range population {
		if ind.Fitness > 0 {
			total += float64(ind.Fitness)
		}
	}
	if total <= 0 {
		return population[rng.Intn(len(population))], nil
	}

	r := rng.Float64() * total
	last := 0
	var cumulative float64
	for i, ind := range population {
		if ind.Fitness <= 0 {
			continue
		}
		cumulative += float64(ind.Fitness)
		if r < cumulative {
			return ind, nil
		}
		last = i
	}
	// r can reach total through rounding; fall back to the last weighted slot.
	return population[last], nil
}
