package telemetry

import (
	"testing"
	"time"

	"github.com/pthm-cable/forage/sim"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate a few ticks
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(sim.PhaseCollisions)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(sim.PhaseBrains)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	// Verify we got timing data
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}

	// Verify phases are tracked
	if len(stats.PhaseAvg) == 0 {
		t.Error("expected phase averages to be populated")
	}

	if _, ok := stats.PhaseAvg[sim.PhaseCollisions]; !ok {
		t.Error("expected collisions phase to be tracked")
	}

	if _, ok := stats.PhaseAvg[sim.PhaseBrains]; !ok {
		t.Error("expected brains phase to be tracked")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5) // Small window

	// Fill window completely
	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(sim.PhaseCollisions)
		pc.EndTick()
	}

	stats := pc.Stats()

	// Should have data
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration after window filled")
	}

	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate with uneven phase durations
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase("fast")
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase("slow")
		time.Sleep(100 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	fastPct := stats.PhasePct["fast"]
	slowPct := stats.PhasePct["slow"]

	// Slow phase should take more % than fast
	if slowPct <= fastPct {
		t.Errorf("expected slow phase (%v%%) > fast phase (%v%%)", slowPct, fastPct)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	// Empty collector should return zero values without panicking
	if stats.AvgTickDuration != 0 {
		t.Error("expected zero avg tick duration for empty collector")
	}

	if stats.PhaseAvg == nil {
		t.Error("expected non-nil PhaseAvg map")
	}

	if stats.PhasePct == nil {
		t.Error("expected non-nil PhasePct map")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// First call establishes baseline
	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond) // ~60fps frame time
	// Second call measures duration
	pc.RecordFrame()

	stats := pc.Stats()

	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}

	if stats.FPS <= 0 {
		t.Error("expected positive FPS")
	}

	// With 16ms frames, expect ~60 FPS (allow range 40-80)
	if stats.FPS < 40 || stats.FPS > 80 {
		t.Errorf("expected FPS between 40-80 with 16ms frame time, got %v", stats.FPS)
	}
}

func TestPerfCollector_TracksSimulationPhases(t *testing.T) {
	cfg := testConfig()
	cfg.Sim.GenerationLength = 2
	rng := newRand()
	s, err := sim.New(cfg, rng)
	if err != nil {
		t.Fatal(err)
	}

	pc := NewPerfCollector(10)
	s.SetPhaseTimer(pc)
	for i := 0; i < 3; i++ {
		pc.StartTick()
		if _, err := s.Step(rng); err != nil {
			t.Fatal(err)
		}
		pc.EndTick()
	}

	stats := pc.Stats()
	for _, phase := range []string{sim.PhaseCollisions, sim.PhaseBrains, sim.PhaseMovements, sim.PhaseEvolution} {
		if _, ok := stats.PhaseAvg[phase]; !ok {
			t.Errorf("phase %s not tracked", phase)
		}
	}

	row := stats.ToCSV(3)
	if row.WindowEnd != 3 {
		t.Errorf("window_end = %d, want 3", row.WindowEnd)
	}
}

func TestPerfCollector_TickOrdering(t *testing.T) {
	pc := NewPerfCollector(20)
	for i := 0; i < 30; i++ {
		pc.StartTick()
		pc.StartPhase(sim.PhaseBrains)
		time.Sleep(time.Duration(i%4) * 50 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.MinTickDuration > stats.P95TickDuration || stats.P95TickDuration > stats.MaxTickDuration {
		t.Errorf("want min <= p95 <= max, got %v, %v, %v",
			stats.MinTickDuration, stats.P95TickDuration, stats.MaxTickDuration)
	}
	if stats.AvgTickDuration < stats.MinTickDuration || stats.AvgTickDuration > stats.MaxTickDuration {
		t.Errorf("avg %v outside [%v, %v]", stats.AvgTickDuration, stats.MinTickDuration, stats.MaxTickDuration)
	}
}

func TestPerfCollector_UnusedPhasesReportZero(t *testing.T) {
	pc := NewPerfCollector(4)
	pc.StartTick()
	pc.StartPhase(sim.PhaseCollisions)
	pc.EndTick()

	stats := pc.Stats()
	for _, phase := range Phases() {
		if _, ok := stats.PhaseAvg[phase]; !ok {
			t.Errorf("phase %s missing from averages", phase)
		}
	}
	if stats.PhaseAvg[sim.PhaseEvolution] != 0 {
		t.Errorf("evolution avg = %v, want 0 when never started", stats.PhaseAvg[sim.PhaseEvolution])
	}
}
