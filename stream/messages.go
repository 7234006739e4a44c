package stream

import (
	"github.com/pthm-cable/forage/config"
	"github.com/pthm-cable/forage/sim"
)

// Message types sent to clients.
const (
	TypeConfig   = "config"
	TypeSnapshot = "snapshot"
	TypeStats    = "stats"
)

// Command is a control request sent by a client.
type Command string

// Commands accepted from clients.
const (
	CommandTrain Command = "train"
	CommandPause Command = "pause"
)

// ConfigMessage tells a new client how to draw the arena.
type ConfigMessage struct {
	Type             string  `json:"type"`
	Animals          int     `json:"animals"`
	Foods            int     `json:"foods"`
	FoodSize         float64 `json:"food_size"`
	FOVRange         float64 `json:"fov_range"`
	FOVAngle         float64 `json:"fov_angle"`
	Cells            int     `json:"cells"`
	GenerationLength int     `json:"generation_length"`
}

// NewConfigMessage extracts the fields a viewer needs from cfg.
func NewConfigMessage(cfg *config.Config) ConfigMessage {
	return ConfigMessage{
		Type:             TypeConfig,
		Animals:          cfg.World.Animals,
		Foods:            cfg.World.Foods,
		FoodSize:         cfg.World.FoodSize,
		FOVRange:         cfg.Eye.FOVRange,
		FOVAngle:         cfg.Eye.FOVAngle,
		Cells:            cfg.Eye.Cells,
		GenerationLength: cfg.Sim.GenerationLength,
	}
}

// SnapshotMessage carries one world snapshot.
type SnapshotMessage struct {
	Type string `json:"type"`
	sim.Snapshot
}

// NewSnapshotMessage wraps a snapshot for broadcast.
func NewSnapshotMessage(snap sim.Snapshot) SnapshotMessage {
	return SnapshotMessage{Type: TypeSnapshot, Snapshot: snap}
}

// StatsMessage reports a finished generation.
type StatsMessage struct {
	Type       string  `json:"type"`
	Generation int     `json:"generation"`
	Min        float64 `json:"min"`
	Avg        float64 `json:"avg"`
	Max        float64 `json:"max"`
	StdDev     float64 `json:"std"`
}

// NewStatsMessage builds a stats message from a boundary tick. ok is false
// for ordinary ticks.
func NewStatsMessage(stats sim.Stats) (StatsMessage, bool) {
	if !stats.Boundary() {
		return StatsMessage{}, false
	}
	return StatsMessage{
		Type:       TypeStats,
		Generation: stats.Generation,
		Min:        stats.Fitness.Min,
		Avg:        stats.Fitness.Avg,
		Max:        stats.Fitness.Max,
		StdDev:     stats.Fitness.StdDev,
	}, true
}

// inbound is the envelope of client messages.
type inbound struct {
	Type string `json:"type"`
}
