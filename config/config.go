// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Sim       SimConfig       `yaml:"sim"`
	Eye       EyeConfig       `yaml:"eye"`
	Brain     BrainConfig     `yaml:"brain"`
	GA        GAConfig        `yaml:"ga"`
	Screen    ScreenConfig    `yaml:"screen"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Stream    StreamConfig    `yaml:"stream"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds population sizes and the eating radius.
type WorldConfig struct {
	Animals  int     `yaml:"animals"`
	Foods    int     `yaml:"foods"`
	FoodSize float64 `yaml:"food_size"` // Eat when animal-food distance <= this
}

// SimConfig holds movement limits and generation length.
type SimConfig struct {
	SpeedMin         float64 `yaml:"speed_min"`
	SpeedMax         float64 `yaml:"speed_max"`
	SpeedAccel       float64 `yaml:"speed_accel"`    // Max |speed delta| applied per tick
	RotationAccel    float64 `yaml:"rotation_accel"` // Max |rotation delta| applied per tick (radians)
	GenerationLength int     `yaml:"generation_length"`
}

// EyeConfig holds sensor geometry.
type EyeConfig struct {
	FOVRange float64 `yaml:"fov_range"`
	FOVAngle float64 `yaml:"fov_angle"` // Total angular width in radians
	Cells    int     `yaml:"cells"`
}

// BrainConfig holds the network topology between the eye and the two outputs.
type BrainConfig struct {
	HiddenLayers []int `yaml:"hidden_layers"`
}

// GAConfig holds genetic algorithm parameters.
type GAConfig struct {
	MutChance float64 `yaml:"mut_chance"`
	MutCoeff  float64 `yaml:"mut_coeff"`
	Reverse   bool    `yaml:"reverse"` // Select for minimal satiation instead of maximal
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow int `yaml:"perf_window"` // Ticks averaged by the perf collector
	LogEvery   int `yaml:"log_every"`   // Generations between stats log lines
}

// StreamConfig holds websocket snapshot settings.
type StreamConfig struct {
	SnapshotEvery int `yaml:"snapshot_every"` // Ticks between snapshot broadcasts
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Topology []int // eye cells, hidden layers..., 2
}

// NumOutputs is the brain output count: speed delta and rotation delta.
const NumOutputs = 2

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults. It panics if they do not parse,
// which can only happen if defaults.yaml itself is broken.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.computeDerived()

	return cfg, nil
}

// Validate checks every parameter and reports all violations at once.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.World.Animals > 0, "world.animals must be > 0, got %d", c.World.Animals)
	check(c.World.Foods > 0, "world.foods must be > 0, got %d", c.World.Foods)
	check(c.World.FoodSize > 0, "world.food_size must be > 0, got %g", c.World.FoodSize)

	check(c.Sim.SpeedMin >= 0, "sim.speed_min must be >= 0, got %g", c.Sim.SpeedMin)
	check(c.Sim.SpeedMin <= c.Sim.SpeedMax, "sim.speed_min (%g) must be <= sim.speed_max (%g)", c.Sim.SpeedMin, c.Sim.SpeedMax)
	check(c.Sim.SpeedAccel >= 0, "sim.speed_accel must be >= 0, got %g", c.Sim.SpeedAccel)
	check(c.Sim.RotationAccel >= 0, "sim.rotation_accel must be >= 0, got %g", c.Sim.RotationAccel)
	check(c.Sim.GenerationLength > 0, "sim.generation_length must be > 0, got %d", c.Sim.GenerationLength)

	check(c.Eye.FOVRange > 0, "eye.fov_range must be > 0, got %g", c.Eye.FOVRange)
	check(c.Eye.FOVAngle > 0 && c.Eye.FOVAngle <= 2*math.Pi, "eye.fov_angle must be in (0, 2pi], got %g", c.Eye.FOVAngle)
	check(c.Eye.Cells > 0, "eye.cells must be > 0, got %d", c.Eye.Cells)

	for i, n := range c.Brain.HiddenLayers {
		check(n > 0, "brain.hidden_layers[%d] must be > 0, got %d", i, n)
	}

	check(c.GA.MutChance >= 0 && c.GA.MutChance <= 1, "ga.mut_chance must be in [0, 1], got %g", c.GA.MutChance)
	check(c.GA.MutCoeff >= 0, "ga.mut_coeff must be >= 0, got %g", c.GA.MutCoeff)

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("invalid config: %w", errors.Join(errs...))
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	topology := make([]int, 0, len(c.Brain.HiddenLayers)+2)
	topology = append(topology, c.Eye.Cells)
	topology = append(topology, c.Brain.HiddenLayers...)
	topology = append(topology, NumOutputs)
	c.Derived.Topology = topology
}

// Clone returns a deep copy with derived values recomputed.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Brain.HiddenLayers = append([]int(nil), c.Brain.HiddenLayers...)
	clone.computeDerived()
	return &clone
}

// Refresh recomputes derived values after fields were modified in place.
func (c *Config) Refresh() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
