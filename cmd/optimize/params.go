// Package main tunes GA and sensor parameters with CMA-ES.
package main

import (
	"github.com/pthm-cable/forage/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value

	get func(*config.Config) float64
	set func(*config.Config, float64)
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// GA
			{
				Name: "mut_chance", Path: "ga.mut_chance", Min: 0.001, Max: 0.2, Default: 0.01,
				get: func(c *config.Config) float64 { return c.GA.MutChance },
				set: func(c *config.Config, v float64) { c.GA.MutChance = v },
			},
			{
				Name: "mut_coeff", Path: "ga.mut_coeff", Min: 0.01, Max: 1.0, Default: 0.3,
				get: func(c *config.Config) float64 { return c.GA.MutCoeff },
				set: func(c *config.Config, v float64) { c.GA.MutCoeff = v },
			},
			// Movement
			{
				Name: "speed_accel", Path: "sim.speed_accel", Min: 0.0005, Max: 0.5, Default: 0.2,
				get: func(c *config.Config) float64 { return c.Sim.SpeedAccel },
				set: func(c *config.Config, v float64) { c.Sim.SpeedAccel = v },
			},
			{
				Name: "rotation_accel", Path: "sim.rotation_accel", Min: 0.05, Max: 3.0, Default: 1.5707963267948966,
				get: func(c *config.Config) float64 { return c.Sim.RotationAccel },
				set: func(c *config.Config, v float64) { c.Sim.RotationAccel = v },
			},
			// Eye
			{
				Name: "fov_angle", Path: "eye.fov_angle", Min: 0.5, Max: 6.283185307179586, Default: 3.9269908169872414,
				get: func(c *config.Config) float64 { return c.Eye.FOVAngle },
				set: func(c *config.Config, v float64) { c.Eye.FOVAngle = v },
			},
			{
				Name: "fov_range", Path: "eye.fov_range", Min: 0.05, Max: 0.5, Default: 0.25,
				get: func(c *config.Config) float64 { return c.Eye.FOVRange },
				set: func(c *config.Config, v float64) { c.Eye.FOVRange = v },
			},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg and recomputes
// derived values.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) error {
	for i, v := range pv.Clamp(values) {
		pv.Specs[i].set(cfg, v)
	}
	return cfg.Refresh()
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.get(cfg)
	}
	return v
}
