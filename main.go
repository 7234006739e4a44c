package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/forage/config"
	"github.com/pthm-cable/forage/game"
)

// limits stops a run after a number of ticks or generations (0 = unlimited).
type limits struct {
	maxTicks       int64
	maxGenerations int
}

func (l limits) reached(g *game.Game) bool {
	if l.maxTicks > 0 && g.Tick() >= l.maxTicks {
		slog.Info("max ticks reached", "tick", g.Tick())
		return true
	}
	if l.maxGenerations > 0 && g.Generation() >= l.maxGenerations {
		slog.Info("max generations reached", "generation", g.Generation())
		return true
	}
	return false
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output generation stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int64("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	maxGenerations := flag.Int("max-generations", 0, "Stop after N generations (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster runs)")
	train := flag.Bool("train", false, "Run a whole generation per update")
	streamAddr := flag.String("stream-addr", "", "Serve world snapshots over websockets on this address (e.g. :8080)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		OutputDir:      *outputDir,
		Headless:       *headless,
		StepsPerUpdate: *stepsPerUpdate,
		Train:          *train,
		StreamAddr:     *streamAddr,
	}
	lim := limits{maxTicks: *maxTicks, maxGenerations: *maxGenerations}

	var err error
	if *headless {
		err = runHeadless(opts, lim)
	} else {
		err = runWindowed(cfg, opts, lim)
	}
	if err != nil {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

// runHeadless is a pure CPU loop with no raylib calls.
func runHeadless(opts game.Options, lim limits) error {
	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		return err
	}
	defer g.Unload()

	slog.Info("starting headless simulation",
		"seed", opts.Seed,
		"max_ticks", lim.maxTicks,
		"max_generations", lim.maxGenerations,
		"steps_per_update", opts.StepsPerUpdate,
		"train", opts.Train,
	)

	for !lim.reached(g) {
		if err := g.UpdateHeadless(); err != nil {
			return err
		}
	}
	return nil
}

func runWindowed(cfg *config.Config, opts game.Options, lim limits) error {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Forage")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		return err
	}
	defer g.Unload()

	for !rl.WindowShouldClose() && !lim.reached(g) {
		g.Update()
		g.Draw()
	}
	return nil
}
