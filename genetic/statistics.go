package genetic

import (
	"log/slog"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Statistics summarizes a fitness distribution.
type Statistics struct {
	Min    float64 `json:"min"`
	Avg    float64 `json:"avg"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"std"`
}

// NewStatistics computes min, mean, max and population standard deviation.
// An empty input yields zero statistics.
func NewStatistics(fitness []float64) Statistics {
	if len(fitness) == 0 {
		return Statistics{}
	}
	mean, std := stat.PopMeanStdDev(fitness, nil)
	return Statistics{
		Min:    floats.Min(fitness),
		Avg:    mean,
		Max:    floats.Max(fitness),
		StdDev: std,
	}
}

// PopulationStatistics summarizes the fitness of a population.
func PopulationStatistics(population []Individual) Statistics {
	fitness := make([]float64, len(population))
	for i, ind := range population {
		fitness[i] = float64(ind.Fitness)
	}
	return NewStatistics(fitness)
}

// LogValue implements slog.LogValuer for structured logging.
func (s Statistics) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("min", s.Min),
		slog.Float64("avg", s.Avg),
		slog.Float64("max", s.Max),
		slog.Float64("std", s.StdDev),
	)
}
