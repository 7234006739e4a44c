package game

import (
	"log/slog"

	"github.com/pthm-cable/forage/sim"
	"github.com/pthm-cable/forage/stream"
	"github.com/pthm-cable/forage/telemetry"
)

// UpdateHeadless runs one update without any raylib calls. It returns the
// first simulation error; the world is unchanged when that happens.
func (g *Game) UpdateHeadless() error {
	g.applyCommands()
	if g.paused {
		return nil
	}
	return g.advance()
}

// advance runs either a whole generation or stepsPerUpdate ticks.
func (g *Game) advance() error {
	if g.trainEach || g.pendingTrain {
		g.pendingTrain = false
		return g.train()
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		if _, err := g.step(); err != nil {
			return err
		}
	}
	return nil
}

// step runs a single tick and feeds every sink.
func (g *Game) step() (sim.Stats, error) {
	g.perf.StartTick()
	stats, err := g.sim.Step(g.rng)
	if err != nil {
		g.perf.EndTick()
		return stats, err
	}
	g.tick++

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	if stats.Boundary() {
		g.recordGeneration(stats)
	}
	g.broadcast(stats)
	g.perf.EndTick()

	return stats, nil
}

// train steps until the current generation ends.
func (g *Game) train() error {
	for {
		stats, err := g.step()
		if err != nil {
			return err
		}
		if stats.Boundary() {
			return nil
		}
	}
}

// applyCommands drains pending stream commands without blocking.
func (g *Game) applyCommands() {
	if g.hub == nil {
		return
	}
	for {
		select {
		case cmd := <-g.hub.Commands():
			switch cmd {
			case stream.CommandTrain:
				g.pendingTrain = true
			case stream.CommandPause:
				g.paused = !g.paused
			}
		default:
			return
		}
	}
}

func slogError(msg string, err error) {
	slog.Error(msg, "error", err)
}
