package model

import (
	"greenhouse/components"
)

// SpaceEnergySink removes upward-moving energy once it passes the top of the
// model, tracking the outgoing rate for the radiative balance check.
type SpaceEnergySink struct {
	altitude float64
	tracker  *energyRateTracker
}

func newSpaceEnergySink(altitude, rateWindow float64) *SpaceEnergySink {
	return &SpaceEnergySink{
		altitude: altitude,
		tracker:  newEnergyRateTracker(rateWindow),
	}
}

// interactWithPackets drains every upward packet at or above the boundary.
// Drained packets are left for the prune pass to remove.
func (s *SpaceEnergySink) interactWithPackets(arena *packetArena, dt float64) {
	var removed float64
	query := arena.filter.Query()
	for query.Next() {
		flux, motion := query.Get()
		if motion.Direction != components.DirectionUp || motion.Altitude < s.altitude {
			continue
		}
		removed += flux.Energy
		flux.Energy = 0
	}
	s.tracker.add(removed, dt)
}

// OutgoingRate returns the measured rate of energy leaving to space in watts.
func (s *SpaceEnergySink) OutgoingRate() float64 {
	return s.tracker.Rate()
}

// Altitude returns the sink's boundary altitude in meters.
func (s *SpaceEnergySink) Altitude() float64 {
	return s.altitude
}

func (s *SpaceEnergySink) reset() {
	s.tracker.reset()
}
