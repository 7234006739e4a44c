package telemetry

import (
	"log/slog"
	"slices"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/forage/sim"
)

// PhaseTelemetry times stats and output work done between steps. The
// step phases themselves are named by the sim package.
const PhaseTelemetry = "telemetry"

// phases lists every phase in step order.
var phases = []string{
	sim.PhaseCollisions,
	sim.PhaseBrains,
	sim.PhaseMovements,
	sim.PhaseEvolution,
	PhaseTelemetry,
}

// Phases returns the phase names in step order.
func Phases() []string {
	return append([]string(nil), phases...)
}

// PerfCollector tracks per-tick and per-phase durations over a rolling
// window of ticks. Phases get a fixed slot the first time they are seen,
// so recording a tick does not allocate.
type PerfCollector struct {
	windowSize  int
	ticks       []time.Duration   // ring of tick durations
	phaseTicks  [][]time.Duration // [phase slot] ring aligned with ticks
	phaseNames  []string
	phaseIndex  map[string]int
	current     []time.Duration // phase durations of the tick in progress
	writeIndex  int
	sampleCount int

	tickStart  time.Time
	phaseStart time.Time
	lastPhase  int // slot of the running phase, -1 when none

	// Frame timing (for graphics mode)
	lastFrameTime time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of ticks to average over (e.g., 600 for 10 seconds at 60 ticks/s).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	p := &PerfCollector{
		windowSize: windowSize,
		ticks:      make([]time.Duration, windowSize),
		phaseIndex: make(map[string]int),
		lastPhase:  -1,
	}
	for _, phase := range phases {
		p.slot(phase)
	}
	return p
}

// slot returns the index of a phase, registering it on first use.
func (p *PerfCollector) slot(phase string) int {
	if i, ok := p.phaseIndex[phase]; ok {
		return i
	}
	i := len(p.phaseNames)
	p.phaseIndex[phase] = i
	p.phaseNames = append(p.phaseNames, phase)
	p.phaseTicks = append(p.phaseTicks, make([]time.Duration, p.windowSize))
	p.current = append(p.current, 0)
	return i
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	clear(p.current)
	p.lastPhase = -1
}

// StartPhase ends the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase >= 0 {
		p.current[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = p.slot(phase)
}

// EndTick finishes timing the current tick and records the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	if p.lastPhase >= 0 {
		p.current[p.lastPhase] += now.Sub(p.phaseStart)
		p.lastPhase = -1
	}

	p.ticks[p.writeIndex] = now.Sub(p.tickStart)
	for i, d := range p.current {
		p.phaseTicks[i][p.writeIndex] = d
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// RecordFrame records frame timing for graphics mode.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	// Tick timing
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P95TickDuration time.Duration

	// Phase breakdown (average durations)
	PhaseAvg map[string]time.Duration

	// Phase percentages of total tick time
	PhasePct map[string]float64

	// Throughput
	TicksPerSecond float64

	// Frame timing (graphics mode)
	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	// Frame timing is always available (independent of tick samples)
	var fps float64
	if p.frameDuration > 0 {
		fps = float64(time.Second) / float64(p.frameDuration)
	}

	stats := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frameDuration,
		FPS:           fps,
	}
	if p.sampleCount == 0 {
		return stats
	}

	// Ring slots [0, sampleCount) are the valid ones.
	ticks := make([]float64, p.sampleCount)
	for i := range ticks {
		ticks[i] = float64(p.ticks[i])
	}
	avgTick := stat.Mean(ticks, nil)
	stats.AvgTickDuration = time.Duration(avgTick)
	stats.MinTickDuration = time.Duration(floats.Min(ticks))
	stats.MaxTickDuration = time.Duration(floats.Max(ticks))
	slices.Sort(ticks)
	stats.P95TickDuration = time.Duration(stat.Quantile(0.95, stat.Empirical, ticks, nil))

	phaseTimes := make([]float64, p.sampleCount)
	for slot, name := range p.phaseNames {
		for i := range phaseTimes {
			phaseTimes[i] = float64(p.phaseTicks[slot][i])
		}
		avg := stat.Mean(phaseTimes, nil)
		stats.PhaseAvg[name] = time.Duration(avg)
		if avgTick > 0 {
			stats.PhasePct[name] = avg / avgTick * 100
		}
	}

	if avgTick > 0 {
		stats.TicksPerSecond = float64(time.Second) / avgTick
	}
	return stats
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"p95_tick_us", s.P95TickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}

	for _, phase := range phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}

	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int64("p95_tick_us", s.P95TickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}

	for _, phase := range phases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd     int64   `csv:"window_end"`
	AvgTickUS     int64   `csv:"avg_tick_us"`
	MinTickUS     int64   `csv:"min_tick_us"`
	MaxTickUS     int64   `csv:"max_tick_us"`
	P95TickUS     int64   `csv:"p95_tick_us"`
	TicksPerSec   float64 `csv:"ticks_per_sec"`
	FPS           float64 `csv:"fps"`
	CollisionsPct float64 `csv:"collisions_pct"`
	BrainsPct     float64 `csv:"brains_pct"`
	MovementsPct  float64 `csv:"movements_pct"`
	EvolutionPct  float64 `csv:"evolution_pct"`
	TelemetryPct  float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:     windowEnd,
		AvgTickUS:     s.AvgTickDuration.Microseconds(),
		MinTickUS:     s.MinTickDuration.Microseconds(),
		MaxTickUS:     s.MaxTickDuration.Microseconds(),
		P95TickUS:     s.P95TickDuration.Microseconds(),
		TicksPerSec:   s.TicksPerSecond,
		FPS:           s.FPS,
		CollisionsPct: s.PhasePct[sim.PhaseCollisions],
		BrainsPct:     s.PhasePct[sim.PhaseBrains],
		MovementsPct:  s.PhasePct[sim.PhaseMovements],
		EvolutionPct:  s.PhasePct[sim.PhaseEvolution],
		TelemetryPct:  s.PhasePct[PhaseTelemetry],
	}
}
