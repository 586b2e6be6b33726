package model

// energyRateTracker accumulates transferred energy over a rolling window and
// exposes the average rate in watts. The rate only updates when a full window
// of nonzero elapsed time has passed, so a zero-dt call can never produce a
// division by zero.
type energyRateTracker struct {
	window  float64
	accum   float64
	elapsed float64
	rate    float64
}

func newEnergyRateTracker(window float64) *energyRateTracker {
	if window <= 0 {
		window = 0.5
	}
	return &energyRateTracker{window: window}
}

// add records energy transferred during dt seconds.
func (t *energyRateTracker) add(energy, dt float64) {
	t.accum += energy
	t.elapsed += dt
	if t.elapsed >= t.window {
		if t.elapsed > 0 {
			t.rate = t.accum / t.elapsed
		}
		t.accum = 0
		t.elapsed = 0
	}
}

// Rate returns the most recent full-window rate in watts.
func (t *energyRateTracker) Rate() float64 {
	return t.rate
}

func (t *energyRateTracker) reset() {
	t.accum = 0
	t.elapsed = 0
	t.rate = 0
}
