// Package telemetry records per-generation statistics and step timing, and
// writes them to an experiment output directory.
package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"github.com/pthm-cable/forage/sim"
	"gonum.org/v1/gonum/stat"
)

// GenerationStats is one row of generations.csv: the satiation
// distribution of a finished generation.
type GenerationStats struct {
	Generation int   `csv:"generation"`
	TotalTicks int64 `csv:"total_ticks"`
	Animals    int   `csv:"animals"`

	// Satiation distribution, taken before any fitness transform
	Min    float64 `csv:"min"`
	Avg    float64 `csv:"avg"`
	Max    float64 `csv:"max"`
	StdDev float64 `csv:"std"`
	P10    float64 `csv:"p10"`
	P50    float64 `csv:"p50"`
	P90    float64 `csv:"p90"`

	WallSeconds float64 `csv:"wall_seconds"` // Wall time spent on this generation
}

// NewGenerationStats builds a row from boundary-tick stats. ok is false
// when stats did not end a generation.
func NewGenerationStats(stats sim.Stats, totalTicks int64, wall time.Duration) (GenerationStats, bool) {
	if !stats.Boundary() {
		return GenerationStats{}, false
	}

	gs := GenerationStats{
		Generation:  stats.Generation,
		TotalTicks:  totalTicks,
		Animals:     len(stats.Satiations),
		Min:         stats.Fitness.Min,
		Avg:         stats.Fitness.Avg,
		Max:         stats.Fitness.Max,
		StdDev:      stats.Fitness.StdDev,
		WallSeconds: wall.Seconds(),
	}
	gs.P10, gs.P50, gs.P90 = Percentiles(stats.Satiations)
	return gs, true
}

// Percentiles returns the nearest-rank 10th, 50th and 90th percentiles of
// values. An empty input yields zeros.
func Percentiles(values []float64) (p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", s.Generation),
		slog.Int64("total_ticks", s.TotalTicks),
		slog.Int("animals", s.Animals),
		slog.Float64("min", s.Min),
		slog.Float64("avg", s.Avg),
		slog.Float64("max", s.Max),
		slog.Float64("std", s.StdDev),
		slog.Float64("p10", s.P10),
		slog.Float64("p50", s.P50),
		slog.Float64("p90", s.P90),
		slog.Float64("wall_seconds", s.WallSeconds),
	)
}

// LogStats logs the generation stats using slog.
func (s GenerationStats) LogStats() {
	slog.Info("generation",
		"generation", s.Generation,
		"total_ticks", s.TotalTicks,
		"min", s.Min,
		"avg", s.Avg,
		"max", s.Max,
		"std", s.StdDev,
		"p50", s.P50,
		"wall_seconds", s.WallSeconds,
	)
}
