package sim

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/forage/components"
	"github.com/pthm-cable/forage/config"
	"github.com/pthm-cable/forage/systems"
)

// minFoodCell keeps the food grid from getting too fine for tiny eye ranges.
const minFoodCell = 1.0 / 64

// World owns one generation's animals and the food in the arena. Slice
// order is stable within a generation and only used for iteration.
type World struct {
	animals []*Animal
	foods   []components.Food

	// foodGrid indexes foods by position; it must follow every food move.
	foodGrid   *systems.SpatialGrid
	candidates []int             // scratch for grid queries
	nearby     []components.Food // scratch for vision
}

// NewWorld populates a world with random animals and food.
func NewWorld(cfg *config.Config, rng *rand.Rand) (*World, error) {
	animals := make([]*Animal, 0, cfg.World.Animals)
	for i := 0; i < cfg.World.Animals; i++ {
		a, err := NewRandomAnimal(cfg, rng)
		if err != nil {
			return nil, err
		}
		animals = append(animals, a)
	}

	foods := make([]components.Food, cfg.World.Foods)
	for i := range foods {
		foods[i] = components.RandomFood(rng)
	}

	w := &World{
		animals:  animals,
		foods:    foods,
		foodGrid: systems.NewSpatialGrid(max(float32(cfg.Eye.FOVRange)/2, minFoodCell)),
	}
	w.reindexFoods()
	return w, nil
}

// Animals returns the animals. Callers must not retain the slice across
// generation boundaries.
func (w *World) Animals() []*Animal {
	return w.animals
}

// Foods returns a copy of the food items. Use PlaceFood to move one.
func (w *World) Foods() []components.Food {
	return append([]components.Food(nil), w.foods...)
}

// respawnFoods moves every food to a fresh random position.
func (w *World) respawnFoods(rng *rand.Rand) {
	for i := range w.foods {
		w.foods[i].Respawn(rng)
	}
	w.reindexFoods()
}

// respawnFood moves one eaten food to a fresh random position.
func (w *World) respawnFood(i int, rng *rand.Rand) {
	w.foods[i].Respawn(rng)
	w.foodGrid.Move(i, w.foods[i].Position)
}

// PlaceFood puts food i at p, wrapped into the unit square, and keeps the
// food index in step.
func (w *World) PlaceFood(i int, p components.Position) error {
	if i < 0 || i >= len(w.foods) {
		return fmt.Errorf("food index %d out of range [0, %d)", i, len(w.foods))
	}
	p = p.Wrapped()
	w.foods[i].Position = p
	w.foodGrid.Move(i, p)
	return nil
}

func (w *World) reindexFoods() {
	w.foodGrid.Clear()
	for i := range w.foods {
		w.foodGrid.Insert(i, w.foods[i].Position)
	}
}

// foodIndicesNear returns candidate food indices around p in ascending
// order. The result is only valid until the next call.
func (w *World) foodIndicesNear(p components.Position, radius float32) []int {
	w.candidates = w.foodGrid.QueryRadiusInto(w.candidates[:0], p, radius)
	return w.candidates
}

// foodsNear returns the candidate foods around p in slice order. Foods out
// of range contribute nothing to vision, so the subset yields the same
// vision vector as the full list. The result is only valid until the next
// call.
func (w *World) foodsNear(p components.Position, radius float32) []components.Food {
	w.nearby = w.nearby[:0]
	for _, i := range w.foodIndicesNear(p, radius) {
		w.nearby = append(w.nearby, w.foods[i])
	}
	return w.nearby
}
