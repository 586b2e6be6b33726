package model

import (
	"log/slog"
)

// Step advances the simulation by dt seconds of external time, running as
// many fixed-size physics sub-steps as have accumulated. The fixed internal
// step keeps the explicit Euler thermal integration stable no matter how
// irregular the caller's frame times are. Negative dt is ignored.
func (s *Simulation) Step(dt float64) {
	if dt < 0 {
		return
	}
	s.accumulator += dt
	fixed := s.cfg.Physics.DT
	steps := 0
	for s.accumulator >= fixed {
		if steps >= s.cfg.Physics.MaxSubstepsPerCall {
			// A long stall (background tab, debugger pause) would otherwise
			// demand an unbounded number of sub-steps. Drop the excess time.
			slog.Debug("substep cap hit, dropping accumulated time",
				"dropped_sec", s.accumulator,
				"cap", s.cfg.Physics.MaxSubstepsPerCall,
			)
			s.accumulator = 0
			break
		}
		s.substep(fixed)
		s.accumulator -= fixed
		steps++
	}
}

// substep runs exactly one fixed-size physics step: produce, advance,
// interact bottom-up, sink, prune, then move the visual photon model.
func (s *Simulation) substep(dt float64) {
	s.sun.produceEnergy(s.packets, dt)
	s.packets.advance(s.cfg.Physics.PacketSpeed, dt)

	stepLayer(s.ground, s.packets, dt)
	for _, layer := range s.layers {
		if !layer.IsActive() {
			continue
		}
		stepLayer(layer, s.packets, dt)
	}
	for _, cloud := range s.clouds {
		cloud.interactWithPackets(s.packets)
		s.packets.flush()
	}
	s.space.interactWithPackets(s.packets, dt)
	s.packets.prune()

	s.photons.step(dt)

	s.recordBalance()
	s.tick++
}
