package neural

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/forage/config"
)

// Brain turns a vision vector into a speed and rotation adjustment.
// It owns its network exclusively.
type Brain struct {
	network *Network
}

// NewBrain creates a brain with random weights for the configured topology.
func NewBrain(rng *rand.Rand, cfg *config.Config) (*Brain, error) {
	nn, err := NewNetwork(rng, cfg.Derived.Topology)
	if err != nil {
		return nil, fmt.Errorf("creating brain: %w", err)
	}
	return &Brain{network: nn}, nil
}

// BrainFromChromosome decodes a brain from a flat gene vector. A length
// mismatch wraps ErrWeightCount.
func BrainFromChromosome(cfg *config.Config, chromosome []float32) (*Brain, error) {
	nn, err := NetworkFromWeights(cfg.Derived.Topology, chromosome)
	if err != nil {
		return nil, fmt.Errorf("decoding brain: %w", err)
	}
	return &Brain{network: nn}, nil
}

// Chromosome flattens the brain's weights. It is the inverse of
// BrainFromChromosome.
func (b *Brain) Chromosome() []float32 {
	return b.network.Weights()
}

// Propagate runs the network on a vision vector. Output 0 is the speed
// delta and output 1 the rotation delta in radians; neither is clamped.
func (b *Brain) Propagate(vision []float32) (speedDelta, rotationDelta float32) {
	out := b.network.Forward(vision)
	return out[0], out[1]
}

// Network exposes the underlying network for inspection.
func (b *Brain) Network() *Network {
	return b.network
}
