// Package app wires the simulation, telemetry, and UI together and owns the
// per-frame update loops for both graphical and headless runs.
package app

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"greenhouse/config"
	"greenhouse/model"
	"greenhouse/telemetry"
	"greenhouse/ui"
)

// Options configures a new App.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	Headless       bool
	StepsPerUpdate int
}

// App holds the running simulation plus its telemetry and UI attachments.
type App struct {
	cfg  *config.Config
	opts Options

	sim       *model.Simulation
	collector *telemetry.Collector
	output    *telemetry.OutputManager

	panel *ui.ControlPanel
	scene *ui.Scene

	paused bool
}

// New builds an App from the active config and the given options.
func New(opts Options) (*App, error) {
	cfg := config.Cfg()

	sim, err := model.NewSimulation(cfg, opts.Seed)
	if err != nil {
		return nil, err
	}

	if opts.StepsPerUpdate < 1 {
		opts.StepsPerUpdate = 1
	}

	a := &App{
		cfg:       cfg,
		opts:      opts,
		sim:       sim,
		collector: telemetry.NewCollector(opts.StatsWindowSec, cfg.Physics.DT),
	}

	if opts.OutputDir != "" {
		out, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			return nil, err
		}
		if err := out.WriteConfig(cfg); err != nil {
			slog.Warn("failed to write config snapshot", "error", err)
		}
		a.output = out
	}

	if !opts.Headless {
		panelWidth := int32(280)
		a.panel = ui.NewControlPanel(int32(cfg.Screen.Width)-panelWidth-10, 10, panelWidth)
		a.scene = ui.NewScene(
			int32(cfg.Screen.Width), int32(cfg.Screen.Height),
			cfg.Geometry.TopAltitude, cfg.Geometry.Width,
		)
	}

	return a, nil
}

// Sim exposes the underlying simulation.
func (a *App) Sim() *model.Simulation {
	return a.sim
}

// Tick returns the simulation tick count.
func (a *App) Tick() int64 {
	return a.sim.Tick()
}

// Update advances the simulation by one rendered frame.
func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeySpace) {
		a.paused = !a.paused
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.sim.Reset()
	}

	if !a.paused {
		a.sim.Step(float64(rl.GetFrameTime()))
	}
	a.emitTelemetry()
}

// UpdateHeadless advances the simulation by StepsPerUpdate fixed ticks.
func (a *App) UpdateHeadless() {
	dt := a.cfg.Physics.DT
	for i := 0; i < a.opts.StepsPerUpdate; i++ {
		a.sim.Step(dt)
		a.emitTelemetry()
	}
}

func (a *App) emitTelemetry() {
	if !a.collector.Due(a.sim.Tick()) {
		return
	}
	stats := a.collector.Snapshot(a.sim.Tick(), a.sim)
	if a.opts.LogStats {
		stats.LogStats()
	}
	if a.output != nil {
		if err := a.output.WriteTelemetry(stats); err != nil {
			slog.Warn("failed to write telemetry row", "error", err)
		}
	}
}

// Draw renders the scene and control panel.
func (a *App) Draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	a.scene.Draw(a.sim)
	a.panel.Draw(a.sim)

	if a.paused {
		rl.DrawText("PAUSED", int32(a.cfg.Screen.Width)/2-40, 10, 20, rl.Yellow)
	}
	rl.DrawFPS(10, int32(a.cfg.Screen.Height)-24)
}

// Unload flushes and closes any open output files.
func (a *App) Unload() {
	if a.output != nil {
		if err := a.output.Close(); err != nil {
			slog.Warn("failed to close output", "error", err)
		}
	}
}
