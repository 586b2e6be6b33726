package model

import (
	"greenhouse/components"
)

// AtmosphereLayer is a glass-like layer: transparent to visible light, it
// absorbs a proportion of infrared crossing it in either direction and
// radiates both up and down. The absorption proportion is driven externally
// from the greenhouse-gas concentration.
type AtmosphereLayer struct {
	layerCore
	absorption        float64
	initialAbsorption float64
	active            bool
}

func newAtmosphereLayer(altitude, minTemperature, mass, specificHeat, surfaceArea float64,
	equilibriumWindow, equilibriumThreshold float64) (*AtmosphereLayer, error) {
	core, err := newLayerCore(altitude, minTemperature, mass, specificHeat, surfaceArea,
		[]components.Direction{components.DirectionUp, components.DirectionDown},
		equilibriumWindow, equilibriumThreshold)
	if err != nil {
		return nil, err
	}
	return &AtmosphereLayer{layerCore: core, active: true}, nil
}

func (a *AtmosphereLayer) core() *layerCore {
	return &a.layerCore
}

func (a *AtmosphereLayer) interactWithPackets(arena *packetArena) float64 {
	if !a.active {
		return 0
	}
	var absorbed float64
	query := arena.filter.Query()
	for query.Next() {
		flux, motion := query.Get()
		if flux.Wavelength != components.WavelengthInfrared {
			continue
		}
		if !crossedAltitude(motion.PrevAltitude, motion.Altitude, a.altitude) {
			continue
		}
		take := flux.Energy * a.absorption
		flux.Energy -= take
		absorbed += take
	}
	return absorbed
}

// AbsorptionProportion returns the current infrared absorption proportion.
func (a *AtmosphereLayer) AbsorptionProportion() float64 {
	return a.absorption
}

// SetAbsorptionProportion updates the absorption proportion, clamped to [0,1].
func (a *AtmosphereLayer) SetAbsorptionProportion(p float64) {
	a.absorption = clamp01(p)
}

// IsActive reports whether the layer takes part in the simulation.
func (a *AtmosphereLayer) IsActive() bool {
	return a.active
}

// SetActive toggles the layer. Deactivation is a hard reset: the layer drops
// any stored thermal energy immediately rather than cooling down.
func (a *AtmosphereLayer) SetActive(active bool) {
	if a.active && !active {
		a.layerCore.reset()
	}
	a.active = active
}

func (a *AtmosphereLayer) resetAll() {
	a.layerCore.reset()
	a.absorption = a.initialAbsorption
	a.active = true
}
