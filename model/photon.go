package model

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"greenhouse/components"
)

// PhotonCollection is the lower-fidelity particle model used for
// visualization. It shares the layers' absorption proportions, as
// per-photon absorption probabilities, and the ground temperature, but
// keeps its own bookkeeping and is not required to conserve energy the way
// the packet model does.
type PhotonCollection struct {
	sim    *Simulation
	mapper *ecs.Map3[components.Position, components.Velocity, components.Photon]
	filter *ecs.Filter3[components.Position, components.Velocity, components.Photon]

	sunAccum    float64
	groundAccum float64
	count       int

	pending []photonSpec
}

// photonSpec describes a photon queued for creation.
type photonSpec struct {
	x, y, vx, vy float64
	wavelength   components.Wavelength
}

func newPhotonCollection(sim *Simulation, world *ecs.World) *PhotonCollection {
	return &PhotonCollection{
		sim:    sim,
		mapper: ecs.NewMap3[components.Position, components.Velocity, components.Photon](world),
		filter: ecs.NewFilter3[components.Position, components.Velocity, components.Photon](world),
	}
}

// step generates, moves, and interacts photons for one fixed sub-step.
func (p *PhotonCollection) step(dt float64) {
	cfg := p.sim.cfg
	p.generateSunPhotons(dt)
	p.generateGroundPhotons(dt)

	var removed []ecs.Entity
	query := p.filter.Query()
	for query.Next() {
		pos, vel, photon := query.Get()

		if photon.Absorbed {
			photon.Dwell -= dt
			if photon.Dwell <= 0 {
				p.reemit(vel, photon)
				pos.PrevY = pos.Y
			}
			continue
		}

		pos.PrevY = pos.Y
		pos.X += vel.X * dt
		pos.Y += vel.Y * dt
		pos.X = wrap(pos.X, cfg.Geometry.Width)

		// Boundaries first: ground below, space above.
		if pos.Y <= 0 && vel.Y < 0 {
			if photon.Wavelength == components.WavelengthVisible &&
				p.sim.rng.Float64() < p.sim.ground.Albedo() {
				// Reflected off the ground; bounce with a little sideways kick.
				pos.Y = -pos.Y
				vel.Y = -vel.Y
				vel.X += (p.sim.rng.Float64() - 0.5) * 0.2 * cfg.Photons.Speed
				continue
			}
			removed = append(removed, query.Entity())
			continue
		}
		if pos.Y >= cfg.Geometry.TopAltitude && vel.Y > 0 {
			removed = append(removed, query.Entity())
			continue
		}

		// One layer interaction per sub-step, nearest in the travel
		// direction. Visible light passes through untouched.
		if photon.Wavelength != components.WavelengthInfrared {
			continue
		}
		layer := p.sim.findCrossedAtmosphereLayer(pos.PrevY, pos.Y)
		if layer == nil {
			continue
		}
		if p.sim.rng.Float64() < layer.AbsorptionProportion() {
			photon.Absorbed = true
			photon.Dwell = cfg.Photons.DwellTime
			photon.LayerIndex = p.sim.layerIndex(layer)
			pos.Y = layer.Altitude()
		}
	}

	for _, e := range removed {
		p.mapper.Remove(e)
		p.count--
	}
	p.flush()
}

// generateSunPhotons emits downward visible photons at a constant rate while
// the sun shines, scaled by the output multiplier.
func (p *PhotonCollection) generateSunPhotons(dt float64) {
	cfg := p.sim.cfg
	if !p.sim.sun.IsShining() || p.count >= cfg.Photons.MaxCount {
		return
	}
	p.sunAccum += cfg.Photons.SunRate * p.sim.sun.OutputMultiplier() * dt
	for p.sunAccum >= 1 {
		p.sunAccum--
		p.pending = append(p.pending, photonSpec{
			x:          p.sim.rng.Float64() * cfg.Geometry.Width,
			y:          cfg.Geometry.TopAltitude,
			vy:         -cfg.Photons.Speed,
			wavelength: components.WavelengthVisible,
		})
	}
}

// generateGroundPhotons emits upward infrared photons at a rate proportional
// to the ground's radiated power above its temperature floor, so a ground at
// its minimum temperature emits none.
func (p *PhotonCollection) generateGroundPhotons(dt float64) {
	cfg := p.sim.cfg
	if p.count >= cfg.Photons.MaxCount {
		return
	}
	t := p.sim.ground.Temperature()
	tMin := p.sim.ground.MinTemperature()
	watts := stefanBoltzmann * (math.Pow(t, 4) - math.Pow(tMin, 4)) * cfg.Geometry.SurfaceArea
	if watts <= 0 {
		return
	}
	p.groundAccum += watts * cfg.Photons.GroundRateScale * dt
	for p.groundAccum >= 1 {
		p.groundAccum--
		// Upward within ±45° of vertical.
		angle := math.Pi/2 + (p.sim.rng.Float64()-0.5)*math.Pi/2
		p.pending = append(p.pending, photonSpec{
			x:          p.sim.rng.Float64() * cfg.Geometry.Width,
			vx:         math.Cos(angle) * cfg.Photons.Speed,
			vy:         math.Sin(angle) * cfg.Photons.Speed,
			wavelength: components.WavelengthInfrared,
		})
	}
}

// reemit releases an absorbed photon in a randomized direction: deflected
// from its incoming heading by at least the configured minimum angle and at
// most a full reversal, so the interaction is visually perceptible and
// biased back the way the photon came.
func (p *PhotonCollection) reemit(vel *components.Velocity, photon *components.Photon) {
	cfg := p.sim.cfg
	minDef := cfg.Photons.MinDeflectionDeg * math.Pi / 180
	incoming := math.Atan2(vel.Y, vel.X)
	deflection := minDef + p.sim.rng.Float64()*(math.Pi-minDef)
	if p.sim.rng.Float64() < 0.5 {
		deflection = -deflection
	}
	angle := incoming + deflection
	vel.X = math.Cos(angle) * cfg.Photons.Speed
	vel.Y = math.Sin(angle) * cfg.Photons.Speed
	photon.Absorbed = false
	photon.LayerIndex = -1
}

// flush creates all queued photons.
func (p *PhotonCollection) flush() {
	for _, spec := range p.pending {
		pos := components.Position{X: spec.x, Y: spec.y, PrevY: spec.y}
		vel := components.Velocity{X: spec.vx, Y: spec.vy}
		photon := components.Photon{Wavelength: spec.wavelength, LayerIndex: -1}
		p.mapper.NewEntity(&pos, &vel, &photon)
		p.count++
	}
	p.pending = p.pending[:0]
}

// Count returns the number of live photons.
func (p *PhotonCollection) Count() int {
	return p.count
}

// ForEach visits every photon, for rendering.
func (p *PhotonCollection) ForEach(fn func(x, y float64, w components.Wavelength, absorbed bool)) {
	query := p.filter.Query()
	for query.Next() {
		pos, _, photon := query.Get()
		fn(pos.X, pos.Y, photon.Wavelength, photon.Absorbed)
	}
}

// clear removes every photon.
func (p *PhotonCollection) clear() {
	var all []ecs.Entity
	query := p.filter.Query()
	for query.Next() {
		all = append(all, query.Entity())
	}
	for _, e := range all {
		p.mapper.Remove(e)
	}
	p.count = 0
	p.sunAccum = 0
	p.groundAccum = 0
	p.pending = p.pending[:0]
}

// layerIndex returns the position of the given layer in the ascending stack.
func (s *Simulation) layerIndex(target *AtmosphereLayer) int {
	for i, layer := range s.layers {
		if layer == target {
			return i
		}
	}
	return -1
}

// wrap keeps x within [0, span) toroidally.
func wrap(x, span float64) float64 {
	x = math.Mod(x, span)
	if x < 0 {
		x += span
	}
	return x
}
