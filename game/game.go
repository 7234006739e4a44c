// Package game owns the run loop: it steps the simulation, feeds telemetry
// and the snapshot stream, and draws the windowed viewer.
package game

import (
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/pthm-cable/forage/camera"
	"github.com/pthm-cable/forage/config"
	"github.com/pthm-cable/forage/genetic"
	"github.com/pthm-cable/forage/sim"
	"github.com/pthm-cable/forage/stream"
	"github.com/pthm-cable/forage/telemetry"
	"github.com/pthm-cable/forage/ui"
)

// maxStepsPerUpdate bounds the speed controls.
const maxStepsPerUpdate = 256

// Options configures a game instance.
type Options struct {
	Config         *config.Config // nil uses config.Cfg()
	Seed           int64
	LogStats       bool
	OutputDir      string
	Headless       bool
	StepsPerUpdate int
	Train          bool   // Run a whole generation per update
	StreamAddr     string // Serve snapshots over websockets when set
}

// Game holds the complete run state.
type Game struct {
	cfg  *config.Config
	rng  *rand.Rand
	sim  *sim.Simulation
	seed int64

	// Loop state
	tick           int64 // ticks since start, across generations
	paused         bool
	stepsPerUpdate int
	trainEach      bool
	pendingTrain   bool

	// Telemetry
	perf            *telemetry.PerfCollector
	output          *telemetry.OutputManager
	logStats        bool
	generationStart time.Time
	history         []genetic.Statistics

	// Stream
	hub    *stream.Hub
	server *http.Server

	// Rendering (nil when headless)
	headless     bool
	camera       *camera.Camera
	overlays     *ui.OverlayRegistry
	hud          *ui.HUD
	controls     *ui.ControlsPanel
	perfPanel    *ui.PerfPanel
	historyPanel *ui.HistoryPanel
	inspector    *ui.Inspector
	selected     int // index into the world's animals, -1 when none
}

// NewGameWithOptions creates a game, its simulation and every enabled sink.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	s, err := sim.New(cfg, rng)
	if err != nil {
		return nil, fmt.Errorf("creating simulation: %w", err)
	}

	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	g := &Game{
		cfg:             cfg,
		rng:             rng,
		sim:             s,
		seed:            opts.Seed,
		stepsPerUpdate:  steps,
		trainEach:       opts.Train,
		perf:            telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		logStats:        opts.LogStats,
		generationStart: time.Now(),
		headless:        opts.Headless,
		selected:        -1,
	}
	s.SetPhaseTimer(g.perf)

	g.output, err = telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := g.output.WriteConfig(cfg); err != nil {
		g.output.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	if opts.StreamAddr != "" {
		g.hub = stream.NewHub(stream.NewConfigMessage(cfg))
		g.server, err = stream.Listen(opts.StreamAddr, g.hub)
		if err != nil {
			g.output.Close()
			return nil, err
		}
	}

	if !opts.Headless {
		g.initRendering()
	}

	return g, nil
}

func (g *Game) initRendering() {
	w, h := float32(g.cfg.Screen.Width), float32(g.cfg.Screen.Height)
	g.camera = camera.New(w, h)
	g.overlays = ui.NewOverlayRegistry()
	g.overlays.SetEnabled(ui.OverlayVisionCone, true)
	g.hud = ui.NewHUD()
	g.controls = ui.NewControlsPanel(10, 120, 220)
	g.perfPanel = ui.NewPerfPanel(10, 300)
	g.historyPanel = ui.NewHistoryPanel(int32(w)-330, int32(h)-170, 320, 130)
	g.inspector = ui.NewInspector(int32(w)-250, 10, 240)
}

// Tick returns the number of ticks run since start.
func (g *Game) Tick() int64 {
	return g.tick
}

// Generation returns the number of completed generations.
func (g *Game) Generation() int {
	return g.sim.Generation()
}

// Simulation exposes the underlying simulation.
func (g *Game) Simulation() *sim.Simulation {
	return g.sim
}

// History returns the satiation statistics of every finished generation.
func (g *Game) History() []genetic.Statistics {
	return g.history
}

// Unload flushes output and stops the stream server.
func (g *Game) Unload() {
	if g.hub != nil {
		g.hub.Close()
	}
	if g.server != nil {
		g.server.Close()
	}
	if err := g.output.Close(); err != nil {
		slogError("failed to close output", err)
	}
}
