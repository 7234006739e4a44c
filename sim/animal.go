package sim

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/pthm-cable/forage/components"
	"github.com/pthm-cable/forage/config"
	"github.com/pthm-cable/forage/genetic"
	"github.com/pthm-cable/forage/neural"
	"github.com/pthm-cable/forage/systems"
)

// Animal is one forager: a position, heading and speed steered by its own
// brain from what its eye sees.
type Animal struct {
	Position  components.Position
	Heading   float32 // radians, kept in (-Pi, Pi]
	Speed     float32
	Vision    []float32 // len == eye cells, refreshed by ProcessBrain
	Brain     *neural.Brain
	Satiation int // food eaten this generation

	eye systems.Eye
}

// NewRandomAnimal creates an animal with a random brain at a random spot.
func NewRandomAnimal(cfg *config.Config, rng *rand.Rand) (*Animal, error) {
	brain, err := neural.NewBrain(rng, cfg)
	if err != nil {
		return nil, err
	}
	return newAnimal(cfg, rng, brain), nil
}

// AnimalFromChromosome creates an animal whose brain is decoded from a
// chromosome. Location is not inherited.
func AnimalFromChromosome(cfg *config.Config, rng *rand.Rand, chromosome genetic.Chromosome) (*Animal, error) {
	brain, err := neural.BrainFromChromosome(cfg, chromosome)
	if err != nil {
		return nil, fmt.Errorf("animal from chromosome: %w", err)
	}
	return newAnimal(cfg, rng, brain), nil
}

func newAnimal(cfg *config.Config, rng *rand.Rand, brain *neural.Brain) *Animal {
	return &Animal{
		Position: components.RandomPosition(rng),
		Heading:  components.RandomAngle(rng),
		Speed:    float32(cfg.Sim.SpeedMax),
		Vision:   make([]float32, cfg.Eye.Cells),
		Brain:    brain,
		eye:      systems.NewEye(cfg),
	}
}

// Chromosome returns the animal's brain as a gene vector.
func (a *Animal) Chromosome() genetic.Chromosome {
	return genetic.Chromosome(a.Brain.Chromosome())
}

// Individual pairs the animal's chromosome with its satiation.
func (a *Animal) Individual() genetic.Individual {
	return genetic.Individual{
		Chromosome: a.Chromosome(),
		Fitness:    float32(a.Satiation),
	}
}

// ProcessBrain refreshes vision and lets the brain adjust speed and heading.
// Deltas are limited by the acceleration settings, then speed is clamped
// to [speed_min, speed_max].
func (a *Animal) ProcessBrain(cfg *config.Config, foods []components.Food) {
	a.eye.ProcessVisionInto(a.Vision, a.Position, a.Heading, foods)

	speedDelta, rotationDelta := a.Brain.Propagate(a.Vision)

	speedAccel := float32(cfg.Sim.SpeedAccel)
	rotationAccel := float32(cfg.Sim.RotationAccel)
	speedDelta = systems.ClampFloat(speedDelta, -speedAccel, speedAccel)
	rotationDelta = systems.ClampFloat(rotationDelta, -rotationAccel, rotationAccel)

	a.Speed = systems.ClampFloat(a.Speed+speedDelta, float32(cfg.Sim.SpeedMin), float32(cfg.Sim.SpeedMax))
	a.Heading = systems.NormalizeAngle(a.Heading + rotationDelta)
}

// ProcessMovement advances the animal along its heading and wraps it back
// into the arena.
func (a *Animal) ProcessMovement() {
	sin, cos := math.Sincos(float64(a.Heading))
	a.Position = components.Position{
		X: a.Position.X + float32(cos)*a.Speed,
		Y: a.Position.Y + float32(sin)*a.Speed,
	}.Wrapped()
}
