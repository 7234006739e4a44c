package main

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/forage/config"
	"github.com/pthm-cable/forage/sim"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	generations int // generations simulated per seed
	window      int // trailing generations averaged into the score
	seeds       []int64
	baseConfig  *config.Config

	mu          sync.Mutex
	bestFitness float64
	lastAvg     float64 // mean satiation from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator. window is capped at
// generations.
func NewFitnessEvaluator(params *ParamVector, generations, window int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	if window < 1 || window > generations {
		window = generations
	}
	return &FitnessEvaluator{
		params:      params,
		generations: generations,
		window:      window,
		seeds:       seeds,
		baseConfig:  baseCfg,
		bestFitness: math.Inf(1),
	}
}

// LastAvg returns the mean trailing satiation from the most recent evaluation.
func (fe *FitnessEvaluator) LastAvg() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastAvg
}

// Evaluate computes fitness for a parameter vector (lower = better). The
// score is the negated mean generation average over the trailing window,
// or the plain mean when the config selects for minimal satiation.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig.Clone()
	if err := fe.params.ApplyToConfig(cfg, x); err != nil {
		return math.Inf(1)
	}

	// Every seed gets its own config copy and rng
	avgs := make([]float64, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			avg, err := fe.runSimulation(cfg.Clone(), s)
			if err != nil {
				avg = math.NaN()
			}
			avgs[idx] = avg
		}(i, seed)
	}
	wg.Wait()

	if floats.HasNaN(avgs) {
		return math.Inf(1)
	}
	mean := floats.Sum(avgs) / float64(len(avgs))
	fitness := -mean
	if cfg.GA.Reverse {
		fitness = mean
	}

	fe.mu.Lock()
	fe.bestFitness = min(fe.bestFitness, fitness)
	fe.lastAvg = mean
	fe.mu.Unlock()

	return fitness
}

// runSimulation trains for the configured number of generations and
// returns the mean raw satiation average over the trailing window.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) (float64, error) {
	rng := rand.New(rand.NewSource(seed))
	s, err := sim.New(cfg, rng)
	if err != nil {
		return 0, err
	}

	avgs := make([]float64, 0, fe.generations)
	for len(avgs) < fe.generations {
		stats, err := s.Train(rng)
		if err != nil {
			return 0, fmt.Errorf("seed %d generation %d: %w", seed, len(avgs), err)
		}
		avgs = append(avgs, stats.Fitness.Avg)
	}
	return trailingMean(avgs, fe.window), nil
}

// trailingMean averages the last n values.
func trailingMean(values []float64, n int) float64 {
	if len(values) == 0 {
		return 0
	}
	if n > len(values) || n < 1 {
		n = len(values)
	}
	tail := values[len(values)-n:]
	return floats.Sum(tail) / float64(len(tail))
}
