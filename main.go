package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"greenhouse/app"
	"greenhouse/config"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Use config stats window if not overridden by CLI
	statsWindowSec := cfg.Telemetry.StatsWindow
	if *statsWindow > 0 {
		statsWindowSec = *statsWindow
	}

	opts := app.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: statsWindowSec,
		OutputDir:      *outputDir,
		Headless:       *headless,
		StepsPerUpdate: *stepsPerUpdate,
	}

	if *headless {
		// Headless mode - pure CPU simulation, no raylib needed
		a, err := app.New(opts)
		if err != nil {
			slog.Error("failed to build simulation", "error", err)
			os.Exit(1)
		}
		defer a.Unload()

		slog.Info("starting headless simulation",
			"seed", rngSeed,
			"stats_window", statsWindowSec,
			"max_ticks", *maxTicks,
			"steps_per_update", *stepsPerUpdate,
		)

		for {
			a.UpdateHeadless()

			if *maxTicks > 0 && int(a.Tick()) >= *maxTicks {
				slog.Info("max ticks reached",
					"tick", a.Tick(),
					"surface_temp_k", a.Sim().SurfaceTemperature(),
				)
				return
			}
		}
	} else {
		// Graphical mode
		rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Greenhouse Effect")
		defer rl.CloseWindow()

		rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

		a, err := app.New(opts)
		if err != nil {
			slog.Error("failed to build simulation", "error", err)
			os.Exit(1)
		}
		defer a.Unload()

		for !rl.WindowShouldClose() {
			a.Update()
			a.Draw()

			if *maxTicks > 0 && int(a.Tick()) >= *maxTicks {
				break
			}
		}
	}
}
