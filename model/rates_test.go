package model

import (
	"math"
	"testing"
)

func TestEnergyRateTracker(t *testing.T) {
	tracker := newEnergyRateTracker(1.0)

	// No full window yet: rate stays zero.
	tracker.add(50, 0.5)
	if tracker.Rate() != 0 {
		t.Errorf("rate before full window = %v, want 0", tracker.Rate())
	}

	// Window closes: 100 J over 1 s.
	tracker.add(50, 0.5)
	if math.Abs(tracker.Rate()-100) > 1e-9 {
		t.Errorf("rate = %v, want 100", tracker.Rate())
	}

	// The next window starts fresh.
	tracker.add(10, 1.0)
	if math.Abs(tracker.Rate()-10) > 1e-9 {
		t.Errorf("rate after second window = %v, want 10", tracker.Rate())
	}
}

func TestEnergyRateTrackerZeroDT(t *testing.T) {
	tracker := newEnergyRateTracker(1.0)
	// Energy without elapsed time must never divide by zero.
	for i := 0; i < 10; i++ {
		tracker.add(100, 0)
	}
	if tracker.Rate() != 0 {
		t.Errorf("rate = %v, want 0 with no elapsed time", tracker.Rate())
	}
	// The accumulated energy still counts once time passes.
	tracker.add(0, 1.0)
	if math.Abs(tracker.Rate()-1000) > 1e-9 {
		t.Errorf("rate = %v, want 1000", tracker.Rate())
	}
}

func TestEnergyRateTrackerDefaultWindow(t *testing.T) {
	tracker := newEnergyRateTracker(0)
	if tracker.window <= 0 {
		t.Errorf("window = %v, want positive default", tracker.window)
	}
}

func TestEnergyRateTrackerReset(t *testing.T) {
	tracker := newEnergyRateTracker(1.0)
	tracker.add(100, 1.0)
	tracker.reset()
	if tracker.Rate() != 0 || tracker.accum != 0 || tracker.elapsed != 0 {
		t.Error("reset did not clear tracker state")
	}
}
