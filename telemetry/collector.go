package telemetry

// ModelView is the read-only slice of the simulation the collector samples.
// *model.Simulation satisfies it.
type ModelView interface {
	SurfaceTemperature() float64
	SurfaceTemperatureCelsius() float64
	Concentration() float64
	GroundAlbedo() float64
	SunOutputRate() float64
	SpaceOutgoingRate() float64
	InRadiativeBalance() bool
	AtEquilibrium() bool
	PacketCount() int
	PhotonCount() int
	LayerTemperatures() []float64
}

// Collector samples simulation observables at stats-window boundaries.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int64
	dt                  float64
	lastWindow          int64
}

// NewCollector creates a stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds.
// dt: seconds per fixed sub-step.
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int64(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}
	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// Due reports whether a stats window has closed since the last call that
// returned true. Tracking the window index rather than testing divisibility
// means a caller that advances several ticks per update still gets one
// emission for a crossed boundary instead of silently skipping it.
func (c *Collector) Due(tick int64) bool {
	window := tick / c.windowDurationTicks
	if window < c.lastWindow {
		// The tick count went backwards: the simulation was reset.
		c.lastWindow = window
		return false
	}
	if window == c.lastWindow {
		return false
	}
	c.lastWindow = window
	return true
}

// Snapshot samples the model into a WindowStats record.
func (c *Collector) Snapshot(tick int64, view ModelView) WindowStats {
	gap := view.SunOutputRate() - view.SpaceOutgoingRate()
	if gap < 0 {
		gap = -gap
	}
	mean, std, max := ComputeLayerTempStats(view.LayerTemperatures())
	return WindowStats{
		WindowEndTick:  tick,
		SimTimeSec:     float64(tick) * c.dt,
		SurfaceTempK:   view.SurfaceTemperature(),
		SurfaceTempC:   view.SurfaceTemperatureCelsius(),
		Concentration:  view.Concentration(),
		Albedo:         view.GroundAlbedo(),
		SunRateW:       view.SunOutputRate(),
		SinkRateW:      view.SpaceOutgoingRate(),
		BalanceGapW:    gap,
		InBalance:      view.InRadiativeBalance(),
		Equilibrium:    view.AtEquilibrium(),
		PacketCount:    view.PacketCount(),
		PhotonCount:    view.PhotonCount(),
		LayerTempMeanK: mean,
		LayerTempStdK:  std,
		LayerTempMaxK:  max,
	}
}
