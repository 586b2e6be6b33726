// Command sweep runs headless simulations across a range of greenhouse gas
// concentrations and writes the equilibrium surface temperature for each
// point to a CSV file.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/floats"

	"greenhouse/config"
	"greenhouse/model"
)

type sweepRow struct {
	Concentration float64 `csv:"concentration"`
	SurfaceTempK  float64 `csv:"surface_temp_k"`
	SurfaceTempC  float64 `csv:"surface_temp_c"`
	SunRateW      float64 `csv:"sun_rate_w"`
	SinkRateW     float64 `csv:"sink_rate_w"`
	InBalance     bool    `csv:"in_balance"`
	Equilibrium   bool    `csv:"equilibrium"`
	Ticks         int64   `csv:"ticks"`
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	minConc := flag.Float64("min", 0, "Lowest concentration in the sweep")
	maxConc := flag.Float64("max", 1, "Highest concentration in the sweep")
	points := flag.Int("points", 11, "Number of sweep points")
	maxTicks := flag.Int("ticks", 20000, "Maximum ticks per point")
	seed := flag.Int64("seed", 1, "RNG seed")
	outPath := flag.String("output", "sweep.csv", "Output CSV path")

	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *points < 1 {
		slog.Error("points must be at least 1", "points", *points)
		os.Exit(1)
	}

	concentrations := make([]float64, *points)
	if *points == 1 {
		concentrations[0] = *minConc
	} else {
		floats.Span(concentrations, *minConc, *maxConc)
	}

	rows := make([]sweepRow, 0, len(concentrations))
	for _, conc := range concentrations {
		row, err := runPoint(cfg, conc, *seed, *maxTicks)
		if err != nil {
			slog.Error("sweep point failed", "concentration", conc, "error", err)
			os.Exit(1)
		}
		slog.Info("sweep point done",
			"concentration", conc,
			"surface_temp_k", row.SurfaceTempK,
			"equilibrium", row.Equilibrium,
			"ticks", row.Ticks,
		)
		rows = append(rows, row)
	}

	if err := writeRows(*outPath, rows); err != nil {
		slog.Error("failed to write sweep output", "error", err)
		os.Exit(1)
	}
	slog.Info("sweep complete", "points", len(rows), "output", *outPath)
}

// runPoint runs one simulation to equilibrium (or the tick limit) at the
// given concentration.
func runPoint(cfg *config.Config, concentration float64, seed int64, maxTicks int) (sweepRow, error) {
	sim, err := model.NewSimulation(cfg, seed)
	if err != nil {
		return sweepRow{}, err
	}
	sim.SetConcentration(concentration)

	dt := cfg.Physics.DT
	for int(sim.Tick()) < maxTicks {
		sim.Step(dt)
		if sim.AtEquilibrium() {
			break
		}
	}

	return sweepRow{
		Concentration: concentration,
		SurfaceTempK:  sim.SurfaceTemperature(),
		SurfaceTempC:  sim.SurfaceTemperatureCelsius(),
		SunRateW:      sim.SunOutputRate(),
		SinkRateW:     sim.SpaceOutgoingRate(),
		InBalance:     sim.InRadiativeBalance(),
		Equilibrium:   sim.AtEquilibrium(),
		Ticks:         sim.Tick(),
	}, nil
}

func writeRows(path string, rows []sweepRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.Marshal(&rows, f)
}
