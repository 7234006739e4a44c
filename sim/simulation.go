// Package sim runs the foraging simulation: per-tick eating, sensing and
// movement, and the genetic algorithm at each generation boundary.
package sim

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/forage/config"
	"github.com/pthm-cable/forage/genetic"
)

// Phase names reported to a PhaseTimer.
const (
	PhaseCollisions = "collisions"
	PhaseBrains     = "brains"
	PhaseMovements  = "movements"
	PhaseEvolution  = "evolution"
)

// PhaseTimer receives the start of each step phase.
type PhaseTimer interface {
	StartPhase(phase string)
}

// Simulation owns the world and the generation counters. It is not safe
// for concurrent use, and the same rng must be passed to every call for a
// run to be reproducible.
type Simulation struct {
	cfg     *config.Config
	world   *World
	ga      *genetic.GeneticAlgorithm
	fitness genetic.FitnessTransform
	timer   PhaseTimer

	age        int // ticks since the last evolution
	generation int // completed generations
}

// New validates cfg, recomputes its derived values and creates a
// simulation with a random world.
func New(cfg *config.Config, rng *rand.Rand) (*Simulation, error) {
	if err := cfg.Refresh(); err != nil {
		return nil, err
	}

	mutation, err := genetic.NewGaussianMutation(cfg.GA.MutChance, cfg.GA.MutCoeff)
	if err != nil {
		return nil, err
	}

	world, err := NewWorld(cfg, rng)
	if err != nil {
		return nil, fmt.Errorf("creating world: %w", err)
	}

	return &Simulation{
		cfg:     cfg,
		world:   world,
		ga:      genetic.New(genetic.RouletteWheelSelection{}, genetic.UniformCrossover{}, mutation),
		fitness: genetic.FitnessPolicy(cfg.GA.Reverse),
	}, nil
}

// Config returns the configuration the simulation was built with.
func (s *Simulation) Config() *config.Config {
	return s.cfg
}

// World returns the current world.
func (s *Simulation) World() *World {
	return s.world
}

// Age returns the ticks elapsed since the last generation boundary.
func (s *Simulation) Age() int {
	return s.age
}

// Generation returns the number of completed generations.
func (s *Simulation) Generation() int {
	return s.generation
}

// SetPhaseTimer installs a phase timer; nil disables timing.
func (s *Simulation) SetPhaseTimer(t PhaseTimer) {
	s.timer = t
}

// Snapshot returns a copy of the world with the current counters.
func (s *Simulation) Snapshot() Snapshot {
	snap := s.world.Snapshot()
	snap.Age = s.age
	snap.Generation = s.generation
	return snap
}

func (s *Simulation) startPhase(phase string) {
	if s.timer != nil {
		s.timer.StartPhase(phase)
	}
}

// Step advances the simulation by one tick: eating, thinking, moving, and
// evolving once the generation is over. It only fails if evolution fails.
// The tick's eating and movement have already happened by then and the age
// stays past the generation length, but the population, the food layout and
// the generation counter are kept as they were, so the next Step retries
// evolution.
func (s *Simulation) Step(rng *rand.Rand) (Stats, error) {
	s.startPhase(PhaseCollisions)
	s.processCollisions(rng)

	s.startPhase(PhaseBrains)
	s.processBrains()

	s.startPhase(PhaseMovements)
	s.processMovements()

	var (
		fitness    *genetic.Statistics
		satiations []float64
	)
	s.age++
	if s.age > s.cfg.Sim.GenerationLength {
		s.startPhase(PhaseEvolution)
		satiations = s.satiations()
		stats, err := s.evolve(rng)
		if err != nil {
			return Stats{}, fmt.Errorf("generation %d: %w", s.generation, err)
		}
		fitness = &stats
		s.age = 0
		s.generation++
	}

	return Stats{
		Age:              s.age,
		GenerationLength: s.cfg.Sim.GenerationLength,
		Generation:       s.generation,
		Fitness:          fitness,
		Satiations:       satiations,
	}, nil
}

// Train steps until the next generation boundary and returns its stats.
func (s *Simulation) Train(rng *rand.Rand) (Stats, error) {
	for {
		stats, err := s.Step(rng)
		if err != nil {
			return Stats{}, err
		}
		if stats.Age == 0 {
			return stats, nil
		}
	}
}

// processCollisions feeds every animal from every food within food_size.
// Animals are the outer loop and foods the inner loop, both in slice order;
// an eaten food respawns immediately, so later animals test its new spot.
func (s *Simulation) processCollisions(rng *rand.Rand) {
	foodSize := float32(s.cfg.World.FoodSize)
	for _, animal := range s.world.animals {
		for _, i := range s.world.foodIndicesNear(animal.Position, foodSize) {
			if animal.Position.Distance(s.world.foods[i].Position) <= foodSize {
				animal.Satiation++
				s.world.respawnFood(i, rng)
			}
		}
	}
}

func (s *Simulation) satiations() []float64 {
	values := make([]float64, len(s.world.animals))
	for i, animal := range s.world.animals {
		values[i] = float64(animal.Satiation)
	}
	return values
}

func (s *Simulation) processBrains() {
	for _, animal := range s.world.animals {
		animal.ProcessBrain(s.cfg, s.world.foodsNear(animal.Position, float32(s.cfg.Eye.FOVRange)))
	}
}

func (s *Simulation) processMovements() {
	for _, animal := range s.world.animals {
		animal.ProcessMovement()
	}
}

// evolve replaces the population with the genetic algorithm's offspring
// and refreshes all food. The next generation is built in full before it
// replaces the current one.
func (s *Simulation) evolve(rng *rand.Rand) (genetic.Statistics, error) {
	population := make([]genetic.Individual, len(s.world.animals))
	for i, animal := range s.world.animals {
		population[i] = animal.Individual()
	}

	// Reported stats are taken before the fitness policy rewrites anything.
	stats := genetic.PopulationStatistics(population)
	s.fitness.Apply(population)

	children, err := s.ga.Evolve(rng, population)
	if err != nil {
		return genetic.Statistics{}, err
	}

	next := make([]*Animal, 0, len(children))
	for _, chromosome := range children {
		animal, err := AnimalFromChromosome(s.cfg, rng, chromosome)
		if err != nil {
			return genetic.Statistics{}, err
		}
		next = append(next, animal)
	}

	s.world.animals = next
	s.world.respawnFoods(rng)

	return stats, nil
}
