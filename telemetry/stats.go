// Package telemetry aggregates simulation observables into time windows and
// writes them to structured logs and CSV files.
package telemetry

import (
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated observables for one stats window.
type WindowStats struct {
	WindowEndTick int64   `csv:"window_end"`
	SimTimeSec    float64 `csv:"sim_time"`

	SurfaceTempK float64 `csv:"surface_temp_k"`
	SurfaceTempC float64 `csv:"surface_temp_c"`

	Concentration float64 `csv:"concentration"`
	Albedo        float64 `csv:"albedo"`

	SunRateW    float64 `csv:"sun_rate_w"`
	SinkRateW   float64 `csv:"sink_rate_w"`
	BalanceGapW float64 `csv:"balance_gap_w"`
	InBalance   bool    `csv:"in_balance"`
	Equilibrium bool    `csv:"equilibrium"`

	PacketCount int `csv:"packets"`
	PhotonCount int `csv:"photons"`

	LayerTempMeanK float64 `csv:"layer_temp_mean_k"`
	LayerTempStdK  float64 `csv:"layer_temp_std_k"`
	LayerTempMaxK  float64 `csv:"layer_temp_max_k"`
}

// ComputeLayerTempStats summarizes the atmosphere temperature profile.
// Returns zeros for an empty profile.
func ComputeLayerTempStats(temps []float64) (mean, std, max float64) {
	if len(temps) == 0 {
		return 0, 0, 0
	}
	mean = stat.Mean(temps, nil)
	if len(temps) > 1 {
		std = stat.StdDev(temps, nil)
	}
	for _, t := range temps {
		if t > max {
			max = t
		}
	}
	return mean, std, max
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Float64("surface_temp_k", s.SurfaceTempK),
		slog.Float64("surface_temp_c", s.SurfaceTempC),
		slog.Float64("concentration", s.Concentration),
		slog.Float64("albedo", s.Albedo),
		slog.Float64("sun_rate_w", s.SunRateW),
		slog.Float64("sink_rate_w", s.SinkRateW),
		slog.Float64("balance_gap_w", s.BalanceGapW),
		slog.Bool("in_balance", s.InBalance),
		slog.Bool("equilibrium", s.Equilibrium),
		slog.Int("packets", s.PacketCount),
		slog.Int("photons", s.PhotonCount),
		slog.Float64("layer_temp_mean_k", s.LayerTempMeanK),
		slog.Float64("layer_temp_std_k", s.LayerTempStdK),
		slog.Float64("layer_temp_max_k", s.LayerTempMaxK),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
