package model

import (
	"math"
	"testing"

	"greenhouse/components"
)

func mustGround(t *testing.T, albedo, minTemp float64) *GroundLayer {
	t.Helper()
	g, err := newGroundLayer(albedo, minTemp, 30, 840, 1, 2, 5)
	if err != nil {
		t.Fatalf("newGroundLayer: %v", err)
	}
	return g
}

func mustLayer(t *testing.T, altitude float64) *AtmosphereLayer {
	t.Helper()
	l, err := newAtmosphereLayer(altitude, 0, 0.024, 1004, 1, 2, 5)
	if err != nil {
		t.Fatalf("newAtmosphereLayer: %v", err)
	}
	return l
}

func TestGroundSplitsVisibleByAlbedo(t *testing.T) {
	arena := newTestArena()
	ground := mustGround(t, 0.3, 245)

	arena.spawn(packetSpec{
		wavelength: components.WavelengthVisible,
		energy:     100,
		altitude:   50,
		direction:  components.DirectionDown,
	})
	arena.flush()
	arena.advance(100, 1) // crosses altitude 0

	absorbed := ground.interactWithPackets(arena)
	arena.flush()

	if math.Abs(absorbed-70) > 1e-9 {
		t.Errorf("absorbed = %v, want 70", absorbed)
	}
	// The original is drained and one reflected packet carries the rest.
	var reflected float64
	query := arena.filter.Query()
	for query.Next() {
		flux, motion := query.Get()
		if flux.Energy > 0 {
			if motion.Direction != components.DirectionUp {
				t.Errorf("reflected packet moving %v, want up", motion.Direction)
			}
			if flux.Wavelength != components.WavelengthVisible {
				t.Errorf("reflected packet wavelength %v, want visible", flux.Wavelength)
			}
			reflected += flux.Energy
		}
	}
	if math.Abs(reflected-30) > 1e-9 {
		t.Errorf("reflected = %v, want 30", reflected)
	}
}

func TestGroundAbsorbsAllInfrared(t *testing.T) {
	arena := newTestArena()
	ground := mustGround(t, 0.9, 245)

	arena.spawn(packetSpec{
		wavelength: components.WavelengthInfrared,
		energy:     40,
		altitude:   50,
		direction:  components.DirectionDown,
	})
	arena.flush()
	arena.advance(100, 1)

	absorbed := ground.interactWithPackets(arena)
	arena.flush()

	if math.Abs(absorbed-40) > 1e-9 {
		t.Errorf("absorbed = %v, want 40 regardless of albedo", absorbed)
	}
}

func TestGroundIgnoresUpwardPackets(t *testing.T) {
	arena := newTestArena()
	ground := mustGround(t, 0.3, 245)

	arena.spawn(packetSpec{
		wavelength: components.WavelengthVisible,
		energy:     100,
		altitude:   -50,
		direction:  components.DirectionUp,
	})
	arena.flush()
	arena.advance(100, 1) // crosses altitude 0 moving up

	if absorbed := ground.interactWithPackets(arena); absorbed != 0 {
		t.Errorf("absorbed = %v, want 0 for an upward crossing", absorbed)
	}
}

func TestAtmosphereAbsorbsInfraredOnly(t *testing.T) {
	tests := []struct {
		name       string
		wavelength components.Wavelength
		direction  components.Direction
		start      float64
		absorption float64
		want       float64
	}{
		{"infrared down", components.WavelengthInfrared, components.DirectionDown, 150, 0.5, 50},
		{"infrared up", components.WavelengthInfrared, components.DirectionUp, 50, 0.5, 50},
		{"visible passes", components.WavelengthVisible, components.DirectionDown, 150, 0.5, 0},
		{"zero absorption", components.WavelengthInfrared, components.DirectionDown, 150, 0, 0},
		{"full absorption", components.WavelengthInfrared, components.DirectionDown, 150, 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arena := newTestArena()
			layer := mustLayer(t, 100)
			layer.SetAbsorptionProportion(tt.absorption)

			arena.spawn(packetSpec{
				wavelength: tt.wavelength,
				energy:     100,
				altitude:   tt.start,
				direction:  tt.direction,
			})
			arena.flush()
			arena.advance(100, 1)

			absorbed := layer.interactWithPackets(arena)
			if math.Abs(absorbed-tt.want) > 1e-9 {
				t.Errorf("absorbed = %v, want %v", absorbed, tt.want)
			}
			remaining := arena.totalEnergy()
			if math.Abs(remaining-(100-tt.want)) > 1e-9 {
				t.Errorf("remaining = %v, want %v", remaining, 100-tt.want)
			}
		})
	}
}

func TestInactiveLayerAbsorbsNothing(t *testing.T) {
	arena := newTestArena()
	layer := mustLayer(t, 100)
	layer.SetAbsorptionProportion(1)
	layer.SetActive(false)

	arena.spawn(packetSpec{
		wavelength: components.WavelengthInfrared,
		energy:     100,
		altitude:   150,
		direction:  components.DirectionDown,
	})
	arena.flush()
	arena.advance(100, 1)

	if absorbed := layer.interactWithPackets(arena); absorbed != 0 {
		t.Errorf("absorbed = %v, want 0 while inactive", absorbed)
	}
}

func TestDeactivationResetsTemperature(t *testing.T) {
	arena := newTestArena()
	layer := mustLayer(t, 100)
	layer.applyThermal(500, 0.01, arena)
	if layer.Temperature() <= layer.MinTemperature() {
		t.Fatalf("layer did not warm: %v", layer.Temperature())
	}

	layer.SetActive(false)
	if layer.Temperature() != layer.MinTemperature() {
		t.Errorf("temperature after deactivation = %v, want floor %v",
			layer.Temperature(), layer.MinTemperature())
	}
}

func TestApplyThermalWarmsAndRadiates(t *testing.T) {
	arena := newTestArena()
	ground := mustGround(t, 0.2, 245)

	before := ground.Temperature()
	ground.core().applyThermal(1000, 0.01, arena)
	arena.flush()

	if ground.Temperature() <= before {
		t.Errorf("temperature %v did not rise from %v", ground.Temperature(), before)
	}
	// The ground radiates upward only.
	query := arena.filter.Query()
	for query.Next() {
		flux, motion := query.Get()
		if flux.Wavelength != components.WavelengthInfrared {
			t.Errorf("radiated wavelength %v, want infrared", flux.Wavelength)
		}
		if motion.Direction != components.DirectionUp {
			t.Errorf("ground radiated %v, want up only", motion.Direction)
		}
	}
}

func TestApplyThermalClampsAtFloor(t *testing.T) {
	arena := newTestArena()
	ground := mustGround(t, 0.2, 245)

	// With no absorbed energy the layer radiates, but must not drop below
	// its floor even over a long step.
	ground.core().applyThermal(0, 100, arena)
	arena.flush()

	if got := ground.Temperature(); got != 245 {
		t.Errorf("temperature = %v, want clamped at 245", got)
	}
	// Clamped radiation shrinks to match the zero net change: absorbed was
	// zero and the temperature did not move, so nothing may be emitted.
	if total := arena.totalEnergy(); total != 0 {
		t.Errorf("radiated %v while clamped with no input, want 0", total)
	}
}

func TestApplyThermalClampedRadiationMatchesInput(t *testing.T) {
	arena := newTestArena()
	ground := mustGround(t, 0.2, 245)

	// Absorb a little over a long step: radiation would overshoot the
	// floor, so the emitted energy must shrink to exactly the input.
	absorbed := 50.0
	ground.core().applyThermal(absorbed, 100, arena)
	arena.flush()

	if got := ground.Temperature(); got != 245 {
		t.Errorf("temperature = %v, want clamped at 245", got)
	}
	if total := arena.totalEnergy(); math.Abs(total-absorbed) > 1e-9 {
		t.Errorf("radiated %v, want %v (all absorbed energy back out)", total, absorbed)
	}
}

func TestAtmosphereRadiatesBothWays(t *testing.T) {
	arena := newTestArena()
	layer := mustLayer(t, 100)

	// First step warms the layer from 0 K; the second radiates.
	layer.applyThermal(200, 0.01, arena)
	layer.applyThermal(200, 0.01, arena)
	arena.flush()

	var up, down float64
	query := arena.filter.Query()
	for query.Next() {
		flux, motion := query.Get()
		switch motion.Direction {
		case components.DirectionUp:
			up += flux.Energy
		case components.DirectionDown:
			down += flux.Energy
		}
	}
	if up == 0 || down == 0 {
		t.Fatalf("expected radiation both ways, got up=%v down=%v", up, down)
	}
	if math.Abs(up-down) > 1e-9 {
		t.Errorf("radiation split unevenly: up=%v down=%v", up, down)
	}
}

func TestNewLayerCoreValidation(t *testing.T) {
	tests := []struct {
		name                             string
		minTemp, mass, specificHeat, area float64
	}{
		{"zero mass", 0, 0, 1004, 1},
		{"zero specific heat", 0, 1, 0, 1},
		{"zero area", 0, 1, 1004, 0},
		{"negative floor", -1, 1, 1004, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newLayerCore(0, tt.minTemp, tt.mass, tt.specificHeat, tt.area,
				[]components.Direction{components.DirectionUp}, 2, 5)
			if err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
