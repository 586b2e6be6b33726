// Package components defines ECS components for the simulation.
package components

// Wavelength classifies electromagnetic energy by band.
type Wavelength uint8

const (
	WavelengthVisible Wavelength = iota
	WavelengthInfrared
)

// String returns the wavelength band name.
func (w Wavelength) String() string {
	switch w {
	case WavelengthVisible:
		return "visible"
	case WavelengthInfrared:
		return "infrared"
	}
	return "unknown"
}

// Direction is a vertical travel direction.
type Direction int8

const (
	DirectionDown Direction = iota
	DirectionUp
)

// Sign returns +1 for up, -1 for down.
func (d Direction) Sign() float64 {
	if d == DirectionUp {
		return 1
	}
	return -1
}

// Opposite returns the reversed direction.
func (d Direction) Opposite() Direction {
	if d == DirectionUp {
		return DirectionDown
	}
	return DirectionUp
}

// String returns the direction name.
func (d Direction) String() string {
	if d == DirectionUp {
		return "up"
	}
	return "down"
}

// Flux carries the energy content of an in-flight packet.
// Energy is in joules and never goes negative; a packet drained to zero is
// pruned before the next sub-step.
type Flux struct {
	Energy     float64
	Wavelength Wavelength
}

// Motion tracks a packet's vertical position between sub-steps.
// PrevAltitude is the altitude before the most recent advance; crossing
// checks compare it against the current altitude. Direction may flip when
// a packet is reflected.
type Motion struct {
	Altitude     float64
	PrevAltitude float64
	Direction    Direction
}
