package model

// Reset restores the full initial state: the packet and photon collections
// are emptied, every layer returns to its minimum temperature and configured
// absorption state, clouds and the sun return to their configured settings,
// and all rate trackers clear. Calling Reset twice is the same as calling it
// once.
func (s *Simulation) Reset() {
	s.packets.clear()
	s.photons.clear()
	s.ground.resetAll()
	for _, layer := range s.layers {
		layer.resetAll()
	}
	for _, cloud := range s.clouds {
		cloud.reset()
	}
	s.sun.reset()
	s.space.reset()
	s.accumulator = 0
	s.tick = 0
	s.balanceSamples = s.balanceSamples[:0]
	s.SetConcentration(s.cfg.Atmosphere.InitialConcentration)
}
