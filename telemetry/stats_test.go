package telemetry

import (
	"math"
	"testing"
)

func TestComputeLayerTempStats(t *testing.T) {
	tests := []struct {
		name                     string
		temps                    []float64
		wantMean, wantStd, wantMax float64
	}{
		{"empty", []float64{}, 0, 0, 0},
		{"single", []float64{250}, 250, 0, 250},
		{"uniform", []float64{200, 200, 200}, 200, 0, 200},
		{"profile", []float64{260, 240, 220}, 240, 20, 260},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mean, std, max := ComputeLayerTempStats(tt.temps)
			if math.Abs(mean-tt.wantMean) > 0.001 {
				t.Errorf("mean = %v, want %v", mean, tt.wantMean)
			}
			if math.Abs(std-tt.wantStd) > 0.001 {
				t.Errorf("std = %v, want %v", std, tt.wantStd)
			}
			if math.Abs(max-tt.wantMax) > 0.001 {
				t.Errorf("max = %v, want %v", max, tt.wantMax)
			}
		})
	}
}
