package model

import (
	"fmt"
	"math"

	"greenhouse/components"
)

// stefanBoltzmann is the Stefan-Boltzmann constant in W/(m²·K⁴).
const stefanBoltzmann = 5.670374419e-8

// thermalLayer is a layer that takes part in the shared absorb/radiate cycle.
// Ground and atmosphere layers differ only in their wavelength selectivity
// and radiation directions, both expressed through this interface.
type thermalLayer interface {
	core() *layerCore
	// interactWithPackets scans the arena for packets crossing the layer,
	// drains the absorbed portion from each in place, and returns the total
	// absorbed energy. Reflections are queued on the arena.
	interactWithPackets(arena *packetArena) float64
}

// stepLayer runs one absorb/radiate cycle for a layer: drain crossing
// packets, integrate the temperature, and emit the radiated energy as new
// infrared packets.
func stepLayer(l thermalLayer, arena *packetArena, dt float64) {
	absorbed := l.interactWithPackets(arena)
	arena.flush()
	l.core().applyThermal(absorbed, dt, arena)
	arena.flush()
}

// layerCore holds the thermal state shared by ground and atmosphere layers.
type layerCore struct {
	altitude       float64
	temperature    float64
	minTemperature float64
	mass           float64
	specificHeat   float64
	surfaceArea    float64
	radiating      []components.Direction

	// Rolling in/out energy for the per-layer equilibrium observable.
	inWindow             float64
	outWindow            float64
	windowElapsed        float64
	equilibriumWindow    float64
	equilibriumThreshold float64
	atEquilibrium        bool
}

func newLayerCore(altitude, minTemperature, mass, specificHeat, surfaceArea float64,
	radiating []components.Direction, equilibriumWindow, equilibriumThreshold float64) (layerCore, error) {
	if len(radiating) == 0 {
		return layerCore{}, fmt.Errorf("layer at %vm: at least one radiating direction required", altitude)
	}
	if mass <= 0 || specificHeat <= 0 {
		return layerCore{}, fmt.Errorf("layer at %vm: mass and specific heat must be positive", altitude)
	}
	if surfaceArea <= 0 {
		return layerCore{}, fmt.Errorf("layer at %vm: surface area must be positive", altitude)
	}
	if minTemperature < 0 {
		return layerCore{}, fmt.Errorf("layer at %vm: minimum temperature must not be negative", altitude)
	}
	return layerCore{
		altitude:             altitude,
		temperature:          minTemperature,
		minTemperature:       minTemperature,
		mass:                 mass,
		specificHeat:         specificHeat,
		surfaceArea:          surfaceArea,
		radiating:            radiating,
		equilibriumWindow:    equilibriumWindow,
		equilibriumThreshold: equilibriumThreshold,
	}, nil
}

// applyThermal integrates one explicit Euler step of the layer temperature:
// absorbed energy warms the thermal mass, Stefan-Boltzmann radiation cools
// it, and the result is clamped at the configured minimum. When the clamp
// fires, the radiated energy shrinks to stay consistent with the clamped
// temperature change; the layer never radiates itself below its floor.
func (l *layerCore) applyThermal(absorbed, dt float64, arena *packetArena) {
	heatCapacity := l.mass * l.specificHeat
	dTIn := absorbed / heatCapacity

	radiatedPerArea := math.Pow(l.temperature, 4) * stefanBoltzmann * dt
	radiated := radiatedPerArea * l.surfaceArea * float64(len(l.radiating))
	dTOut := -radiated / heatCapacity

	net := dTIn + dTOut
	if l.temperature+net < l.minTemperature {
		net = l.minTemperature - l.temperature
		radiated = (dTIn - net) * heatCapacity
	}
	l.temperature += net

	l.inWindow += absorbed
	l.outWindow += radiated
	l.updateEquilibrium(dt)

	if radiated > 0 {
		share := radiated / float64(len(l.radiating))
		for _, dir := range l.radiating {
			arena.spawn(packetSpec{
				wavelength: components.WavelengthInfrared,
				energy:     share,
				altitude:   l.altitude,
				direction:  dir,
			})
		}
	}
}

// updateEquilibrium closes the in/out flux window once enough time has
// elapsed and records whether the layer's incoming and outgoing energy were
// close enough to call it settled.
func (l *layerCore) updateEquilibrium(dt float64) {
	l.windowElapsed += dt
	if l.windowElapsed < l.equilibriumWindow {
		return
	}
	if l.windowElapsed > 0 {
		gap := math.Abs(l.inWindow-l.outWindow) / l.windowElapsed
		l.atEquilibrium = gap < l.equilibriumThreshold
	}
	l.inWindow = 0
	l.outWindow = 0
	l.windowElapsed = 0
}

// reset restores the layer's initial thermal state.
func (l *layerCore) reset() {
	l.temperature = l.minTemperature
	l.inWindow = 0
	l.outWindow = 0
	l.windowElapsed = 0
	l.atEquilibrium = false
}

// Altitude returns the layer's fixed altitude in meters.
func (l *layerCore) Altitude() float64 {
	return l.altitude
}

// Temperature returns the layer temperature in Kelvin.
func (l *layerCore) Temperature() float64 {
	return l.temperature
}

// MinTemperature returns the layer's configured temperature floor.
func (l *layerCore) MinTemperature() float64 {
	return l.minTemperature
}

// AtEquilibrium reports whether the layer's incoming and outgoing flux were
// balanced over the most recent window.
func (l *layerCore) AtEquilibrium() bool {
	return l.atEquilibrium
}
