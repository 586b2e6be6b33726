package model

import (
	"fmt"

	"greenhouse/components"
)

// GroundLayer is the bottom thermal layer. Visible light splits by albedo
// into an absorbed portion and an upward reflected packet; infrared is fully
// absorbed regardless of albedo. Only downward crossings interact, and the
// ground radiates upward only.
type GroundLayer struct {
	layerCore
	albedo        float64
	initialAlbedo float64
}

func newGroundLayer(albedo, minTemperature, mass, specificHeat, surfaceArea float64,
	equilibriumWindow, equilibriumThreshold float64) (*GroundLayer, error) {
	if albedo < 0 || albedo > 1 {
		return nil, fmt.Errorf("ground albedo must be in [0,1], got %v", albedo)
	}
	core, err := newLayerCore(0, minTemperature, mass, specificHeat, surfaceArea,
		[]components.Direction{components.DirectionUp}, equilibriumWindow, equilibriumThreshold)
	if err != nil {
		return nil, err
	}
	return &GroundLayer{
		layerCore:     core,
		albedo:        albedo,
		initialAlbedo: albedo,
	}, nil
}

func (g *GroundLayer) core() *layerCore {
	return &g.layerCore
}

func (g *GroundLayer) interactWithPackets(arena *packetArena) float64 {
	var absorbed float64
	query := arena.filter.Query()
	for query.Next() {
		flux, motion := query.Get()
		if motion.Direction != components.DirectionDown ||
			!crossedAltitude(motion.PrevAltitude, motion.Altitude, g.altitude) {
			continue
		}
		switch flux.Wavelength {
		case components.WavelengthVisible:
			reflected := flux.Energy * g.albedo
			absorbed += flux.Energy - reflected
			flux.Energy = 0
			arena.spawn(packetSpec{
				wavelength: components.WavelengthVisible,
				energy:     reflected,
				altitude:   g.altitude,
				direction:  components.DirectionUp,
			})
		case components.WavelengthInfrared:
			absorbed += flux.Energy
			flux.Energy = 0
		}
	}
	return absorbed
}

// Albedo returns the current visible-light reflectivity.
func (g *GroundLayer) Albedo() float64 {
	return g.albedo
}

// SetAlbedo updates the visible-light reflectivity, clamped to [0,1].
func (g *GroundLayer) SetAlbedo(albedo float64) {
	g.albedo = clamp01(albedo)
}

func (g *GroundLayer) resetAll() {
	g.layerCore.reset()
	g.albedo = g.initialAlbedo
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
