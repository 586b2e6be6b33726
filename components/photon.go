package components

// Position is a photon particle's 2D position in world meters.
// PrevY is the vertical position before the most recent move and feeds the
// same crossing check the packet model uses.
type Position struct {
	X, Y  float64
	PrevY float64
}

// Velocity is a photon particle's velocity in m/s.
type Velocity struct {
	X, Y float64
}

// Photon holds visual-model particle state. Photons are statistical: an
// atmosphere layer absorbs one with probability equal to its energy
// absorption proportion, holds it for a dwell time, then re-emits it.
type Photon struct {
	Wavelength Wavelength
	Absorbed   bool
	Dwell      float64 // seconds left before re-emission
	LayerIndex int     // index of the absorbing layer while Absorbed
}
