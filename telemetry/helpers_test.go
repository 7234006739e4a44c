package telemetry

import (
	"math/rand"

	"github.com/pthm-cable/forage/config"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.World.Animals = 5
	cfg.World.Foods = 10
	return cfg
}

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}
