package game

import (
	"time"

	"github.com/pthm-cable/forage/sim"
	"github.com/pthm-cable/forage/stream"
	"github.com/pthm-cable/forage/telemetry"
)

// recordGeneration logs and writes the stats of a finished generation.
func (g *Game) recordGeneration(stats sim.Stats) {
	now := time.Now()
	gs, ok := telemetry.NewGenerationStats(stats, g.tick, now.Sub(g.generationStart))
	if !ok {
		return
	}
	g.generationStart = now
	g.selected = -1
	g.history = append(g.history, *stats.Fitness)

	perfStats := g.perf.Stats()

	logEvery := g.cfg.Telemetry.LogEvery
	if g.logStats && (logEvery <= 1 || gs.Generation%logEvery == 0) {
		gs.LogStats()
		perfStats.LogStats()
	}

	if err := g.output.WriteGeneration(gs); err != nil {
		slogError("failed to write generation", err)
	}
	if err := g.output.WritePerf(perfStats, g.tick); err != nil {
		slogError("failed to write perf", err)
	}
}

// broadcast pushes snapshots and generation stats to stream clients.
func (g *Game) broadcast(stats sim.Stats) {
	if g.hub == nil {
		return
	}
	if msg, ok := stream.NewStatsMessage(stats); ok {
		g.hub.Broadcast(msg)
	}
	every := int64(g.cfg.Stream.SnapshotEvery)
	if every < 1 {
		every = 1
	}
	if g.tick%every == 0 {
		g.hub.Broadcast(stream.NewSnapshotMessage(g.sim.Snapshot()))
	}
}
