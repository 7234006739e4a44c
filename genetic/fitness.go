package genetic

// FitnessTransform rewrites population fitness before selection.
type FitnessTransform interface {
	Name() string
	Apply(population []Individual)
}

// IdentityFitness leaves fitness untouched.
type IdentityFitness struct{}

func (IdentityFitness) Name() string {
	return "identity"
}

func (IdentityFitness) Apply([]Individual) {}

// ReverseFitness maps fitness to max - fitness, rewarding the individuals
// that scored least.
type ReverseFitness struct{}

func (ReverseFitness) Name() string {
	return "reverse"
}

func (ReverseFitness) Apply(population []Individual) {
	if len(population) == 0 {
		return
	}
	best := population[0].Fitness
	for _, ind := range population[1:] {
		if ind.Fitness > best {
			best = ind.Fitness
		}
	}
	for i := range population {
		population[i].Fitness = best - population[i].Fitness
	}
}

// FitnessPolicy returns the transform selected by the reverse switch.
func FitnessPolicy(reverse bool) FitnessTransform {
	if reverse {
		return ReverseFitness{}
	}
	return IdentityFitness{}
}
