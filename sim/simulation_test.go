package sim

import (
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/pthm-cable/forage/components"
	"github.com/pthm-cable/forage/config"
	"github.com/pthm-cable/forage/genetic"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.World.Animals = 6
	cfg.World.Foods = 12
	cfg.World.FoodSize = 0.05
	cfg.Sim.GenerationLength = 20
	return cfg
}

func newTestSim(t *testing.T, cfg *config.Config, seed int64) (*Simulation, *rand.Rand) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	s, err := New(cfg, rng)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return s, rng
}

func mustStep(t *testing.T, s *Simulation, rng *rand.Rand) Stats {
	t.Helper()
	stats, err := s.Step(rng)
	if err != nil {
		t.Fatalf("Step error: %v", err)
	}
	return stats
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.World.Animals = 0

	if _, err := New(cfg, rand.New(rand.NewSource(42))); err == nil {
		t.Fatal("New accepted a config with zero animals")
	}
}

func TestPositionsStayWrapped(t *testing.T) {
	cfg := testConfig()
	cfg.Sim.SpeedMin = 0.05
	cfg.Sim.SpeedMax = 0.2
	s, rng := newTestSim(t, cfg, 42)

	for tick := 0; tick < 100; tick++ {
		mustStep(t, s, rng)
		for i, a := range s.World().Animals() {
			if a.Position.X < 0 || a.Position.X >= 1 || a.Position.Y < 0 || a.Position.Y >= 1 {
				t.Fatalf("tick %d: animal %d at %+v outside [0,1)", tick, i, a.Position)
			}
		}
	}
}

func TestPopulationSizeConstant(t *testing.T) {
	cfg := testConfig()
	s, rng := newTestSim(t, cfg, 42)

	for tick := 0; tick < 3*(cfg.Sim.GenerationLength+1); tick++ {
		mustStep(t, s, rng)
		if n := len(s.World().Animals()); n != cfg.World.Animals {
			t.Fatalf("tick %d: %d animals, want %d", tick, n, cfg.World.Animals)
		}
		if n := len(s.World().Foods()); n != cfg.World.Foods {
			t.Fatalf("tick %d: %d foods, want %d", tick, n, cfg.World.Foods)
		}
		for i, a := range s.World().Animals() {
			if len(a.Vision) != cfg.Eye.Cells {
				t.Fatalf("tick %d: animal %d vision length %d, want %d", tick, i, len(a.Vision), cfg.Eye.Cells)
			}
		}
	}
}

func TestGenerationBoundaryTiming(t *testing.T) {
	cfg := testConfig()
	cfg.Sim.GenerationLength = 3
	s, rng := newTestSim(t, cfg, 42)

	for i := 1; i <= 3; i++ {
		stats := mustStep(t, s, rng)
		if stats.Age != i || stats.Generation != 0 || stats.Boundary() {
			t.Fatalf("step %d: got %+v, want age %d generation 0 without fitness", i, stats, i)
		}
	}

	stats := mustStep(t, s, rng)
	if stats.Age != 0 {
		t.Errorf("step 4: age = %d, want 0", stats.Age)
	}
	if stats.Generation != 1 {
		t.Errorf("step 4: generation = %d, want 1", stats.Generation)
	}
	if !stats.Boundary() {
		t.Error("step 4: expected fitness statistics")
	}
	if stats.GenerationLength != 3 {
		t.Errorf("generation length = %d, want 3", stats.GenerationLength)
	}

	stats = mustStep(t, s, rng)
	if stats.Age != 1 || stats.Generation != 1 || stats.Boundary() {
		t.Errorf("step 5: got %+v", stats)
	}
}

func TestSatiationResetAtBoundary(t *testing.T) {
	cfg := testConfig()
	s, rng := newTestSim(t, cfg, 42)

	for _, a := range s.World().Animals() {
		a.Satiation = 3
	}

	stats, err := s.Train(rng)
	if err != nil {
		t.Fatalf("Train error: %v", err)
	}
	if !stats.Boundary() {
		t.Fatal("Train returned a non-boundary tick")
	}
	for i, a := range s.World().Animals() {
		if a.Satiation != 0 {
			t.Errorf("animal %d satiation = %d after boundary, want 0", i, a.Satiation)
		}
	}
	if stats.Fitness.Min < 3 {
		t.Errorf("min fitness %v lost the seeded satiation", stats.Fitness.Min)
	}
}

func TestSingleEatEvent(t *testing.T) {
	cfg := testConfig()
	cfg.World.Animals = 1
	cfg.World.Foods = 1
	cfg.World.FoodSize = 0.05
	s, rng := newTestSim(t, cfg, 42)

	animal := s.World().Animals()[0]
	if err := s.World().PlaceFood(0, animal.Position); err != nil {
		t.Fatal(err)
	}
	before := s.World().Foods()[0].Position

	mustStep(t, s, rng)

	if animal.Satiation != 1 {
		t.Errorf("satiation = %d, want 1", animal.Satiation)
	}
	if s.World().Foods()[0].Position == before {
		t.Error("eaten food was not repositioned")
	}
}

func TestCollisionOrderAnimalsFirst(t *testing.T) {
	cfg := testConfig()
	cfg.World.Animals = 2
	cfg.World.Foods = 1
	s, rng := newTestSim(t, cfg, 42)

	animals := s.World().Animals()
	animals[1].Position = animals[0].Position
	if err := s.World().PlaceFood(0, animals[0].Position); err != nil {
		t.Fatal(err)
	}

	s.processCollisions(rng)

	if animals[0].Satiation != 1 {
		t.Errorf("first animal satiation = %d, want 1", animals[0].Satiation)
	}
	// The second animal only sees the respawned food.
	want := 0
	if animals[1].Position.Distance(s.World().Foods()[0].Position) <= float32(cfg.World.FoodSize) {
		want = 1
	}
	if animals[1].Satiation != want {
		t.Errorf("second animal satiation = %d, want %d", animals[1].Satiation, want)
	}
}

func TestSpeedClamp(t *testing.T) {
	cfg := testConfig()
	cfg.Brain.HiddenLayers = nil
	cfg = cfg.Clone()
	rng := rand.New(rand.NewSource(42))

	// Output 0 has bias 1 and zero weights: always a positive speed delta.
	chromosome := make(genetic.Chromosome, (cfg.Eye.Cells+1)*2)
	chromosome[0] = 1
	animal, err := AnimalFromChromosome(cfg, rng, chromosome)
	if err != nil {
		t.Fatalf("AnimalFromChromosome error: %v", err)
	}

	animal.Speed = float32(cfg.Sim.SpeedMax)
	animal.ProcessBrain(cfg, nil)
	if animal.Speed > float32(cfg.Sim.SpeedMax) {
		t.Errorf("speed = %v, want <= %v", animal.Speed, cfg.Sim.SpeedMax)
	}

	// A negative bias drives speed down to the floor and no further.
	chromosome[0] = -1
	animal, _ = AnimalFromChromosome(cfg, rng, chromosome)
	for i := 0; i < 10; i++ {
		animal.ProcessBrain(cfg, nil)
	}
	if animal.Speed != float32(cfg.Sim.SpeedMin) {
		t.Errorf("speed = %v, want floor %v", animal.Speed, cfg.Sim.SpeedMin)
	}
}

func TestRotationLimitedByAccel(t *testing.T) {
	cfg := testConfig()
	cfg.Brain.HiddenLayers = nil
	cfg.Sim.RotationAccel = 0.1
	cfg = cfg.Clone()
	rng := rand.New(rand.NewSource(42))

	chromosome := make(genetic.Chromosome, (cfg.Eye.Cells+1)*2)
	chromosome[cfg.Eye.Cells+1] = 4 // rotation bias, tanh(4) = 1
	animal, err := AnimalFromChromosome(cfg, rng, chromosome)
	if err != nil {
		t.Fatal(err)
	}

	animal.Heading = 0
	animal.ProcessBrain(cfg, nil)
	if diff := animal.Heading - 0.1; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("heading = %v, want 0.1", animal.Heading)
	}
}

func TestProcessMovementWraps(t *testing.T) {
	cfg := testConfig()
	rng := rand.New(rand.NewSource(42))
	animal, err := NewRandomAnimal(cfg, rng)
	if err != nil {
		t.Fatal(err)
	}

	animal.Position = components.Position{X: 0.99, Y: 0.5}
	animal.Heading = 0
	animal.Speed = 0.02
	animal.ProcessMovement()

	if animal.Position.X < 0 || animal.Position.X > 0.02 {
		t.Errorf("x = %v, want wrapped to ~0.01", animal.Position.X)
	}
}

func TestAnimalChromosomeRoundTrip(t *testing.T) {
	cfg := testConfig()
	cfg.Refresh()
	rng := rand.New(rand.NewSource(42))

	a, err := NewRandomAnimal(cfg, rng)
	if err != nil {
		t.Fatal(err)
	}
	b, err := AnimalFromChromosome(cfg, rng, a.Chromosome())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a.Chromosome(), b.Chromosome()) {
		t.Error("chromosome changed in round trip")
	}
	if b.Satiation != 0 {
		t.Errorf("new animal satiation = %d, want 0", b.Satiation)
	}
}

func TestAnimalFromChromosomeLengthMismatch(t *testing.T) {
	cfg := testConfig()
	cfg.Refresh()

	_, err := AnimalFromChromosome(cfg, rand.New(rand.NewSource(42)), genetic.Chromosome{1, 2})
	if err == nil {
		t.Fatal("expected error for wrong chromosome length")
	}
}

func TestDeterminism(t *testing.T) {
	run := func() ([]Stats, Snapshot) {
		cfg := testConfig()
		s, rng := newTestSim(t, cfg, 1234)
		var history []Stats
		for i := 0; i < 75; i++ {
			history = append(history, mustStep(t, s, rng))
		}
		return history, s.Snapshot()
	}

	statsA, snapA := run()
	statsB, snapB := run()

	if !reflect.DeepEqual(statsA, statsB) {
		t.Error("stats sequences differ for the same seed")
	}
	if !reflect.DeepEqual(snapA, snapB) {
		t.Error("final snapshots differ for the same seed")
	}
}

func TestFitnessStatsBounds(t *testing.T) {
	cfg := testConfig()
	cfg.World.FoodSize = 0.1
	s, rng := newTestSim(t, cfg, 42)

	for gen := 0; gen < 3; gen++ {
		stats, err := s.Train(rng)
		if err != nil {
			t.Fatal(err)
		}
		f := stats.Fitness
		if !(f.Min <= f.Avg && f.Avg <= f.Max) {
			t.Errorf("generation %d: min %v avg %v max %v out of order", gen, f.Min, f.Avg, f.Max)
		}
		if stats.Generation != gen+1 {
			t.Errorf("generation = %d, want %d", stats.Generation, gen+1)
		}
	}
}

func TestReverseReportsRawFitness(t *testing.T) {
	cfg := testConfig()
	cfg.World.Animals = 3
	cfg.World.FoodSize = 1e-9
	cfg.GA.Reverse = true
	s, rng := newTestSim(t, cfg, 42)

	for i, satiation := range []int{0, 1, 5} {
		s.World().Animals()[i].Satiation = satiation
	}
	s.age = cfg.Sim.GenerationLength

	stats := mustStep(t, s, rng)
	if !stats.Boundary() {
		t.Fatal("expected a boundary tick")
	}
	if stats.Fitness.Min != 0 || stats.Fitness.Max != 5 || stats.Fitness.Avg != 2 {
		t.Errorf("fitness = %+v, want raw min 0 avg 2 max 5", *stats.Fitness)
	}
}

type failingSelector struct{}

func (failingSelector) Name() string { return "failing" }

func (failingSelector) Select(*rand.Rand, []genetic.Individual) (genetic.Individual, error) {
	return genetic.Individual{}, errors.New("boom")
}

func TestFailedEvolutionKeepsWorld(t *testing.T) {
	cfg := testConfig()
	s, rng := newTestSim(t, cfg, 42)
	s.ga = genetic.New(failingSelector{}, genetic.UniformCrossover{}, genetic.GaussianMutation{})

	before := append([]*Animal(nil), s.World().Animals()...)
	s.age = cfg.Sim.GenerationLength

	if _, err := s.Step(rng); err == nil {
		t.Fatal("expected evolution error")
	}
	if !reflect.DeepEqual(before, s.World().Animals()) {
		t.Error("animals replaced despite failed evolution")
	}
	if s.Generation() != 0 {
		t.Errorf("generation = %d, want 0", s.Generation())
	}
	// The tick itself still ran and the next step tries evolving again.
	if s.Age() != cfg.Sim.GenerationLength+1 {
		t.Errorf("age = %d, want %d", s.Age(), cfg.Sim.GenerationLength+1)
	}
	if _, err := s.Step(rng); err == nil {
		t.Fatal("expected evolution error on retry")
	}
	if s.Age() != cfg.Sim.GenerationLength+2 || s.Generation() != 0 {
		t.Errorf("after retry age = %d generation = %d", s.Age(), s.Generation())
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	cfg := testConfig()
	s, rng := newTestSim(t, cfg, 42)
	mustStep(t, s, rng)

	snap := s.Snapshot()
	if len(snap.Animals) != cfg.World.Animals || len(snap.Foods) != cfg.World.Foods {
		t.Fatalf("snapshot has %d animals and %d foods", len(snap.Animals), len(snap.Foods))
	}
	if snap.Age != 1 {
		t.Errorf("snapshot age = %d, want 1", snap.Age)
	}

	snap.Animals[0].X = 42
	if s.World().Animals()[0].Position.X == 42 {
		t.Error("mutating the snapshot changed the world")
	}
}

type recordingTimer struct {
	phases []string
}

func (r *recordingTimer) StartPhase(phase string) {
	r.phases = append(r.phases, phase)
}

func TestPhaseTimer(t *testing.T) {
	cfg := testConfig()
	cfg.Sim.GenerationLength = 1
	s, rng := newTestSim(t, cfg, 42)
	timer := &recordingTimer{}
	s.SetPhaseTimer(timer)

	mustStep(t, s, rng)
	mustStep(t, s, rng)

	want := []string{
		PhaseCollisions, PhaseBrains, PhaseMovements,
		PhaseCollisions, PhaseBrains, PhaseMovements, PhaseEvolution,
	}
	if !reflect.DeepEqual(timer.phases, want) {
		t.Errorf("phases = %v, want %v", timer.phases, want)
	}
}

func TestBoundaryReportsSatiations(t *testing.T) {
	cfg := testConfig()
	s, rng := newTestSim(t, cfg, 42)

	stats, err := s.Train(rng)
	if err != nil {
		t.Fatal(err)
	}
	if len(stats.Satiations) != cfg.World.Animals {
		t.Fatalf("len(Satiations) = %d, want %d", len(stats.Satiations), cfg.World.Animals)
	}
	for _, v := range stats.Satiations {
		if v < stats.Fitness.Min || v > stats.Fitness.Max {
			t.Errorf("satiation %v outside [%v, %v]", v, stats.Fitness.Min, stats.Fitness.Max)
		}
	}

	stats = mustStep(t, s, rng)
	if stats.Satiations != nil {
		t.Error("non-boundary tick carries satiations")
	}
}

func TestNewAnimalHeadingInRange(t *testing.T) {
	cfg := testConfig()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		animal, err := NewRandomAnimal(cfg, rng)
		if err != nil {
			t.Fatal(err)
		}
		if animal.Heading <= -math.Pi || animal.Heading > math.Pi {
			t.Fatalf("heading %v outside (-Pi, Pi]", animal.Heading)
		}
	}
}
