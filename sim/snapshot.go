package sim

// AnimalView is the read-only rendering view of an animal.
type AnimalView struct {
	X         float32 `json:"x"`
	Y         float32 `json:"y"`
	Heading   float32 `json:"heading"`
	Satiation int     `json:"satiation"`
}

// FoodView is the read-only rendering view of a food.
type FoodView struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// Snapshot is a copy of the world state for presentation. Changing it has
// no effect on the simulation.
type Snapshot struct {
	Age        int          `json:"age"`
	Generation int          `json:"generation"`
	Animals    []AnimalView `json:"animals"`
	Foods      []FoodView   `json:"foods"`
}

// Snapshot copies the world's animals and foods.
func (w *World) Snapshot() Snapshot {
	animals := make([]AnimalView, len(w.animals))
	for i, a := range w.animals {
		animals[i] = AnimalView{
			X:         a.Position.X,
			Y:         a.Position.Y,
			Heading:   a.Heading,
			Satiation: a.Satiation,
		}
	}

	foods := make([]FoodView, len(w.foods))
	for i, f := range w.foods {
		foods[i] = FoodView{X: f.Position.X, Y: f.Position.Y}
	}

	return Snapshot{Animals: animals, Foods: foods}
}
