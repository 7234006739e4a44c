package sim

import (
	"log/slog"

	"github.com/pthm-cable/forage/genetic"
)

// Stats is the per-tick report returned by Step.
type Stats struct {
	Age              int
	GenerationLength int
	Generation       int

	// Fitness is the raw satiation distribution of the generation that just
	// ended. It is nil except on generation-boundary ticks.
	Fitness *genetic.Statistics

	// Satiations holds each animal's raw satiation on boundary ticks.
	Satiations []float64
}

// Boundary reports whether this tick ended a generation.
func (s Stats) Boundary() bool {
	return s.Fitness != nil
}

// LogValue implements slog.LogValuer for structured logging.
func (s Stats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("age", s.Age),
		slog.Int("generation_length", s.GenerationLength),
		slog.Int("generation", s.Generation),
	}
	if s.Fitness != nil {
		attrs = append(attrs, slog.Any("fitness", *s.Fitness))
	}
	return slog.GroupValue(attrs...)
}
