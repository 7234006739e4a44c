package game

import (
	"github.com/pthm-cable/forage/components"
	"github.com/pthm-cable/forage/sim"
)

// selectRadius is the world-space distance within which a click picks an
// animal.
const selectRadius = 0.02

// nearestAnimal returns the index of the animal closest to p if one lies
// within maxDist.
func nearestAnimal(animals []*sim.Animal, p components.Position, maxDist float32) (int, bool) {
	best := -1
	bestDist := maxDist
	for i, a := range animals {
		if d := a.Position.Distance(p); d <= bestDist {
			best = i
			bestDist = d
		}
	}
	return best, best >= 0
}

// selectedAnimal returns the selected animal. Selection is cleared at
// generation boundaries since the population is replaced.
func (g *Game) selectedAnimal() (*sim.Animal, bool) {
	animals := g.sim.World().Animals()
	if g.selected < 0 || g.selected >= len(animals) {
		return nil, false
	}
	return animals[g.selected], true
}
