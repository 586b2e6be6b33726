package model

import (
	"greenhouse/components"
)

// SunEnergySource injects downward visible light at the top of the model at
// a constant areal rate while shining.
type SunEnergySource struct {
	shining        bool
	initShining    bool
	outputRate     float64 // W/m²
	multiplier     float64
	initMultiplier float64
	topAltitude    float64
	surfaceArea    float64
	tracker        *energyRateTracker
}

func newSunEnergySource(outputRate, multiplier, topAltitude, surfaceArea float64,
	shining bool, rateWindow float64) *SunEnergySource {
	return &SunEnergySource{
		shining:        shining,
		initShining:    shining,
		outputRate:     outputRate,
		multiplier:     multiplier,
		initMultiplier: multiplier,
		topAltitude:    topAltitude,
		surfaceArea:    surfaceArea,
		tracker:        newEnergyRateTracker(rateWindow),
	}
}

// produceEnergy appends one downward visible packet carrying this sub-step's
// worth of sunlight. No packet is produced while the sun is not shining, but
// time still advances on the rate tracker so the reported rate decays.
func (s *SunEnergySource) produceEnergy(arena *packetArena, dt float64) {
	if !s.shining {
		s.tracker.add(0, dt)
		return
	}
	energy := s.outputRate * s.surfaceArea * s.multiplier * dt
	arena.spawn(packetSpec{
		wavelength: components.WavelengthVisible,
		energy:     energy,
		altitude:   s.topAltitude,
		direction:  components.DirectionDown,
	})
	arena.flush()
	s.tracker.add(energy, dt)
}

// IsShining reports whether the sun is producing energy.
func (s *SunEnergySource) IsShining() bool {
	return s.shining
}

// SetShining turns the sun on or off.
func (s *SunEnergySource) SetShining(shining bool) {
	s.shining = shining
}

// OutputMultiplier returns the current output scale factor.
func (s *SunEnergySource) OutputMultiplier() float64 {
	return s.multiplier
}

// SetOutputMultiplier scales the sun's output. Negative values are clamped
// to zero.
func (s *SunEnergySource) SetOutputMultiplier(m float64) {
	if m < 0 {
		m = 0
	}
	s.multiplier = m
}

// OutputRate returns the measured production rate in watts.
func (s *SunEnergySource) OutputRate() float64 {
	return s.tracker.Rate()
}

func (s *SunEnergySource) reset() {
	s.shining = s.initShining
	s.multiplier = s.initMultiplier
	s.tracker.reset()
}
