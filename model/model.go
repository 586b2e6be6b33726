// Package model implements the energy-transport core of the greenhouse
// simulation: traveling energy packets, absorbing/emitting layers, clouds,
// the sun source and space sink, the fixed-timestep loop that drives them to
// thermal equilibrium, and the parallel photon particle model used for
// visualization.
package model

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/stat"

	"greenhouse/config"
)

// Simulation owns the ordered layer stack, the sun, the space sink, the
// clouds, and the flat collection of in-flight energy packets. All mutable
// state lives here and in its children; the model is single-threaded and
// advances only through Step.
type Simulation struct {
	cfg *config.Config
	rng *rand.Rand

	world   *ecs.World
	packets *packetArena
	photons *PhotonCollection

	ground *GroundLayer
	layers []*AtmosphereLayer // ascending altitude, never re-sorted
	clouds []*Cloud
	sun    *SunEnergySource
	space  *SpaceEnergySink

	concentration float64
	accumulator   float64
	tick          int64

	// Recent |sun − sink| samples for the equilibrium observable.
	balanceSamples []float64
	balanceMax     int
}

// NewSimulation builds a simulation from the given configuration. The
// configuration must already be validated by config.Load.
func NewSimulation(cfg *config.Config, seed int64) (*Simulation, error) {
	world := ecs.NewWorld()
	arena := newPacketArena(world)

	ground, err := newGroundLayer(
		cfg.Ground.Albedo,
		cfg.Ground.MinTemperature,
		cfg.Derived.GroundMass,
		cfg.Ground.SpecificHeat,
		cfg.Geometry.SurfaceArea,
		cfg.Balance.EquilibriumWindow,
		cfg.Balance.EquilibriumThreshold,
	)
	if err != nil {
		return nil, fmt.Errorf("building ground layer: %w", err)
	}

	layers := make([]*AtmosphereLayer, 0, cfg.Atmosphere.LayerCount)
	var prevAltitude float64
	for _, altitude := range cfg.Derived.LayerAltitudes {
		if altitude <= prevAltitude {
			return nil, fmt.Errorf("atmosphere layer altitudes must be strictly increasing")
		}
		prevAltitude = altitude
		layer, err := newAtmosphereLayer(
			altitude,
			cfg.Atmosphere.MinTemperature,
			cfg.Derived.LayerMass,
			cfg.Atmosphere.SpecificHeat,
			cfg.Geometry.SurfaceArea,
			cfg.Balance.EquilibriumWindow,
			cfg.Balance.EquilibriumThreshold,
		)
		if err != nil {
			return nil, fmt.Errorf("building atmosphere layer at %vm: %w", altitude, err)
		}
		layers = append(layers, layer)
	}

	clouds := make([]*Cloud, 0, len(cfg.Clouds))
	for i, cc := range cfg.Clouds {
		cloud, err := newCloud(cc.Altitude, cc.X, cc.Width, cc.Height, cfg.Geometry.Width, cc.Enabled, Reflectance{
			VisibleDown:  cc.Reflectance.VisibleDown,
			VisibleUp:    cc.Reflectance.VisibleUp,
			InfraredDown: cc.Reflectance.InfraredDown,
			InfraredUp:   cc.Reflectance.InfraredUp,
		})
		if err != nil {
			return nil, fmt.Errorf("building cloud %d: %w", i, err)
		}
		clouds = append(clouds, cloud)
	}

	s := &Simulation{
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(seed)),
		world:   world,
		packets: arena,
		ground:  ground,
		layers:  layers,
		clouds:  clouds,
		sun: newSunEnergySource(
			cfg.Sun.OutputRate,
			cfg.Sun.Multiplier,
			cfg.Geometry.TopAltitude,
			cfg.Geometry.SurfaceArea,
			cfg.Sun.Shining,
			cfg.Balance.RateWindow,
		),
		space:      newSpaceEnergySink(cfg.Geometry.TopAltitude, cfg.Balance.RateWindow),
		balanceMax: int(cfg.Balance.EquilibriumWindow/cfg.Physics.DT) + 1,
	}
	s.photons = newPhotonCollection(s, world)

	s.SetConcentration(cfg.Atmosphere.InitialConcentration)
	for _, layer := range s.layers {
		layer.initialAbsorption = layer.absorption
	}

	return s, nil
}

// SetConcentration maps a [0,1] greenhouse-gas concentration to each
// atmosphere layer's infrared absorption proportion, with an exponential
// falloff in altitude so higher, thinner layers absorb less at the same
// concentration.
func (s *Simulation) SetConcentration(c float64) {
	s.concentration = clamp01(c)
	scaleHeight := s.cfg.Atmosphere.ScaleHeight
	for _, layer := range s.layers {
		p := s.concentration
		if scaleHeight > 0 {
			p *= math.Exp(-layer.Altitude() / scaleHeight)
		}
		layer.SetAbsorptionProportion(p)
	}
}

// Concentration returns the current greenhouse-gas concentration.
func (s *Simulation) Concentration() float64 {
	return s.concentration
}

// findCrossedAtmosphereLayer returns the first active atmosphere layer whose
// altitude lies strictly above the start altitude and at or past the end
// altitude in the direction of travel, or nil when no active layer is in
// range. The layer list is ordered ascending, so the scan direction follows
// the travel direction.
func (s *Simulation) findCrossedAtmosphereLayer(start, end float64) *AtmosphereLayer {
	switch {
	case end > start:
		for _, layer := range s.layers {
			if !layer.IsActive() {
				continue
			}
			if layer.Altitude() > start && layer.Altitude() <= end {
				return layer
			}
		}
	case end < start:
		for i := len(s.layers) - 1; i >= 0; i-- {
			layer := s.layers[i]
			if !layer.IsActive() {
				continue
			}
			if layer.Altitude() < start && layer.Altitude() >= end {
				return layer
			}
		}
	}
	return nil
}

// recordBalance appends the current |sun − sink| gap to the rolling sample
// window behind the equilibrium observable.
func (s *Simulation) recordBalance() {
	gap := math.Abs(s.sun.OutputRate() - s.space.OutgoingRate())
	s.balanceSamples = append(s.balanceSamples, gap)
	if len(s.balanceSamples) > s.balanceMax {
		s.balanceSamples = s.balanceSamples[1:]
	}
}

// InRadiativeBalance reports whether the sun's measured output and the
// energy leaving to space currently agree within the configured threshold.
func (s *Simulation) InRadiativeBalance() bool {
	gap := math.Abs(s.sun.OutputRate() - s.space.OutgoingRate())
	return gap < s.cfg.Balance.Threshold
}

// AtEquilibrium reports whether the radiative balance has held steadily over
// the recent sample window: both the mean gap and its spread must sit below
// the equilibrium threshold.
func (s *Simulation) AtEquilibrium() bool {
	if len(s.balanceSamples) < s.balanceMax {
		return false
	}
	mean := stat.Mean(s.balanceSamples, nil)
	sd := stat.StdDev(s.balanceSamples, nil)
	threshold := s.cfg.Balance.EquilibriumThreshold
	return mean < threshold && sd < threshold
}

// SurfaceTemperature returns the ground temperature in Kelvin.
func (s *Simulation) SurfaceTemperature() float64 {
	return s.ground.Temperature()
}

// SurfaceTemperatureCelsius returns the ground temperature in °C.
func (s *Simulation) SurfaceTemperatureCelsius() float64 {
	return s.ground.Temperature() - 273.15
}

// SurfaceTemperatureFahrenheit returns the ground temperature in °F.
func (s *Simulation) SurfaceTemperatureFahrenheit() float64 {
	return s.SurfaceTemperatureCelsius()*9/5 + 32
}

// LayerTemperatures returns the atmosphere layer temperatures in Kelvin,
// ordered by ascending altitude.
func (s *Simulation) LayerTemperatures() []float64 {
	temps := make([]float64, len(s.layers))
	for i, layer := range s.layers {
		temps[i] = layer.Temperature()
	}
	return temps
}

// GroundAlbedo returns the ground layer's visible-light reflectivity.
func (s *Simulation) GroundAlbedo() float64 {
	return s.ground.Albedo()
}

// Ground returns the ground layer.
func (s *Simulation) Ground() *GroundLayer {
	return s.ground
}

// AtmosphereLayers returns the atmosphere layers in ascending altitude order.
// The slice must not be reordered.
func (s *Simulation) AtmosphereLayers() []*AtmosphereLayer {
	return s.layers
}

// Clouds returns the simulation's clouds.
func (s *Simulation) Clouds() []*Cloud {
	return s.clouds
}

// Sun returns the energy source.
func (s *Simulation) Sun() *SunEnergySource {
	return s.sun
}

// SunOutputRate returns the sun's measured production rate in watts.
func (s *Simulation) SunOutputRate() float64 {
	return s.sun.OutputRate()
}

// SpaceOutgoingRate returns the measured rate of energy leaving to space.
func (s *Simulation) SpaceOutgoingRate() float64 {
	return s.space.OutgoingRate()
}

// PacketCount returns the number of in-flight energy packets.
func (s *Simulation) PacketCount() int {
	return s.packets.Count()
}

// PhotonCount returns the number of live photon particles.
func (s *Simulation) PhotonCount() int {
	return s.photons.Count()
}

// Photons returns the visual photon collection.
func (s *Simulation) Photons() *PhotonCollection {
	return s.photons
}

// Tick returns the number of fixed sub-steps executed so far.
func (s *Simulation) Tick() int64 {
	return s.tick
}
