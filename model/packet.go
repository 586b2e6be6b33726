package model

import (
	"github.com/mlange-42/ark/ecs"

	"greenhouse/components"
)

// crossedAltitude reports whether a move from prev to cur passed altitude a.
// The check is strict on the starting side and inclusive on the ending side,
// so a packet landing exactly on a boundary is counted once and a packet
// created at a (prev == cur == a) is not counted at all.
func crossedAltitude(prev, cur, a float64) bool {
	return (prev > a && cur <= a) || (prev < a && cur >= a)
}

// packetSpec describes a packet queued for creation.
type packetSpec struct {
	wavelength components.Wavelength
	energy     float64
	altitude   float64
	direction  components.Direction
}

// packetArena owns the flat collection of in-flight energy packets. Layers,
// clouds, and the space sink all iterate the same arena each sub-step and
// mutate packet energy in place.
//
// Creation is deferred: interactions run inside ECS queries, where structural
// changes are not allowed, so spawns queue here and flush after the query
// completes. New packets start with PrevAltitude == Altitude, which means
// they cross nothing until they move.
type packetArena struct {
	mapper  *ecs.Map2[components.Flux, components.Motion]
	filter  *ecs.Filter2[components.Flux, components.Motion]
	pending []packetSpec
	count   int
}

func newPacketArena(world *ecs.World) *packetArena {
	return &packetArena{
		mapper: ecs.NewMap2[components.Flux, components.Motion](world),
		filter: ecs.NewFilter2[components.Flux, components.Motion](world),
	}
}

// spawn queues a packet for creation at the next flush. Zero-energy spawns
// are dropped outright.
func (p *packetArena) spawn(spec packetSpec) {
	if spec.energy <= 0 {
		return
	}
	p.pending = append(p.pending, spec)
}

// flush creates all queued packets.
func (p *packetArena) flush() {
	for _, spec := range p.pending {
		flux := components.Flux{Energy: spec.energy, Wavelength: spec.wavelength}
		motion := components.Motion{
			Altitude:     spec.altitude,
			PrevAltitude: spec.altitude,
			Direction:    spec.direction,
		}
		p.mapper.NewEntity(&flux, &motion)
		p.count++
	}
	p.pending = p.pending[:0]
}

// advance moves every packet by speed×dt in its travel direction.
func (p *packetArena) advance(speed, dt float64) {
	query := p.filter.Query()
	for query.Next() {
		_, motion := query.Get()
		motion.PrevAltitude = motion.Altitude
		motion.Altitude += motion.Direction.Sign() * speed * dt
	}
}

// prune removes packets whose energy has been fully absorbed.
// First pass collects, second pass removes: queries must finish before
// entities are modified.
func (p *packetArena) prune() {
	var drained []ecs.Entity
	query := p.filter.Query()
	for query.Next() {
		flux, _ := query.Get()
		if flux.Energy <= 0 {
			drained = append(drained, query.Entity())
		}
	}
	for _, e := range drained {
		p.mapper.Remove(e)
		p.count--
	}
}

// Count returns the number of live packets.
func (p *packetArena) Count() int {
	return p.count
}

// totalEnergy sums the energy of all live packets.
func (p *packetArena) totalEnergy() float64 {
	var total float64
	query := p.filter.Query()
	for query.Next() {
		flux, _ := query.Get()
		total += flux.Energy
	}
	return total
}

// clear removes every packet.
func (p *packetArena) clear() {
	var all []ecs.Entity
	query := p.filter.Query()
	for query.Next() {
		all = append(all, query.Entity())
	}
	for _, e := range all {
		p.mapper.Remove(e)
	}
	p.count = 0
	p.pending = p.pending[:0]
}
