package model

import (
	"fmt"

	"greenhouse/components"
)

// Reflectance holds reflectivity per wavelength and approach direction.
// "Down" applies to packets traveling downward (hitting the cloud top),
// "Up" to packets traveling upward (hitting the cloud base).
type Reflectance struct {
	VisibleDown  float64
	VisibleUp    float64
	InfraredDown float64
	InfraredUp   float64
}

// Cloud is a non-thermal horizontal reflector at a fixed altitude. It splits
// crossing packets, sending a portion back the way they came, scaled by the
// fraction of the horizontal span the cloud covers. It has no temperature
// and no mass; it only redistributes energy.
type Cloud struct {
	altitude    float64
	x           float64
	width       float64
	height      float64
	span        float64
	enabled     bool
	initEnabled bool
	reflect     Reflectance
}

func newCloud(altitude, x, width, height, span float64, enabled bool, reflect Reflectance) (*Cloud, error) {
	if width <= 0 || width > span {
		return nil, fmt.Errorf("cloud width must be in (0, %v], got %v", span, width)
	}
	coverage := width / span
	for _, r := range []float64{reflect.VisibleDown, reflect.VisibleUp, reflect.InfraredDown, reflect.InfraredUp} {
		if r < 0 || r > 1 {
			return nil, fmt.Errorf("cloud reflectance must be in [0,1], got %v", r)
		}
		if r*coverage > 1 {
			return nil, fmt.Errorf("cloud reflectance %v scaled by coverage %v exceeds 1", r, coverage)
		}
	}
	return &Cloud{
		altitude:    altitude,
		x:           x,
		width:       width,
		height:      height,
		span:        span,
		enabled:     enabled,
		initEnabled: enabled,
		reflect:     reflect,
	}, nil
}

// interactWithPackets splits every crossing packet while the cloud is
// enabled. The reflected portion becomes a new packet of the same wavelength
// moving the opposite way; the original keeps the remainder.
func (c *Cloud) interactWithPackets(arena *packetArena) {
	if !c.enabled {
		return
	}
	coverage := c.width / c.span
	query := arena.filter.Query()
	for query.Next() {
		flux, motion := query.Get()
		if !crossedAltitude(motion.PrevAltitude, motion.Altitude, c.altitude) {
			continue
		}
		r := c.reflectivityFor(flux.Wavelength, motion.Direction) * coverage
		if r <= 0 {
			continue
		}
		reflected := flux.Energy * r
		flux.Energy -= reflected
		arena.spawn(packetSpec{
			wavelength: flux.Wavelength,
			energy:     reflected,
			altitude:   c.altitude,
			direction:  motion.Direction.Opposite(),
		})
	}
}

func (c *Cloud) reflectivityFor(w components.Wavelength, d components.Direction) float64 {
	switch {
	case w == components.WavelengthVisible && d == components.DirectionDown:
		return c.reflect.VisibleDown
	case w == components.WavelengthVisible && d == components.DirectionUp:
		return c.reflect.VisibleUp
	case w == components.WavelengthInfrared && d == components.DirectionDown:
		return c.reflect.InfraredDown
	default:
		return c.reflect.InfraredUp
	}
}

// Enabled reports whether the cloud reflects.
func (c *Cloud) Enabled() bool {
	return c.enabled
}

// SetEnabled toggles the cloud.
func (c *Cloud) SetEnabled(enabled bool) {
	c.enabled = enabled
}

// Altitude returns the cloud's fixed altitude in meters.
func (c *Cloud) Altitude() float64 {
	return c.altitude
}

// Bounds returns the cloud's horizontal center, width, and height in meters.
// Height is used for rendering only.
func (c *Cloud) Bounds() (x, width, height float64) {
	return c.x, c.width, c.height
}

func (c *Cloud) reset() {
	c.enabled = c.initEnabled
}
