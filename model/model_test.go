package model

import (
	"math"
	"testing"

	"greenhouse/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading default config: %v", err)
	}
	return cfg
}

func testSim(t *testing.T) *Simulation {
	t.Helper()
	sim, err := NewSimulation(testConfig(t), 42)
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}
	return sim
}

func runSteps(sim *Simulation, n int) {
	dt := sim.cfg.Physics.DT
	for i := 0; i < n; i++ {
		sim.Step(dt)
	}
}

func TestLayersOrderedByAltitude(t *testing.T) {
	sim := testSim(t)
	layers := sim.AtmosphereLayers()
	if len(layers) == 0 {
		t.Fatal("default config has no atmosphere layers")
	}
	prev := 0.0
	for i, layer := range layers {
		if layer.Altitude() <= prev {
			t.Errorf("layer %d at %v not above previous %v", i, layer.Altitude(), prev)
		}
		prev = layer.Altitude()
	}
	if prev >= sim.space.Altitude() {
		t.Errorf("top layer %v not below the space boundary %v", prev, sim.space.Altitude())
	}
}

func TestFindCrossedAtmosphereLayer(t *testing.T) {
	sim := testSim(t)
	layers := sim.AtmosphereLayers() // default: 12500, 25000, 37500

	tests := []struct {
		name       string
		start, end float64
		want       *AtmosphereLayer
	}{
		{"upward full span hits lowest", 0, 50000, layers[0]},
		{"downward full span hits highest", 50000, 0, layers[2]},
		{"upward between layers", 13000, 26000, layers[1]},
		{"downward between layers", 26000, 13000, layers[1]},
		{"no layer in range", 13000, 20000, nil},
		{"no movement", 13000, 13000, nil},
		{"start exactly on layer excluded", 12500, 20000, nil},
		{"end exactly on layer included", 13000, 25000, layers[1]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sim.findCrossedAtmosphereLayer(tt.start, tt.end)
			if got != tt.want {
				t.Errorf("findCrossedAtmosphereLayer(%v, %v) = %v, want %v", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestFindCrossedSkipsInactiveLayers(t *testing.T) {
	sim := testSim(t)
	layers := sim.AtmosphereLayers()

	layers[1].SetActive(false)
	if got := sim.findCrossedAtmosphereLayer(13000, 26000); got != nil {
		t.Errorf("got layer at %v, want nil when the only crossed layer is inactive", got.Altitude())
	}
	if got := sim.findCrossedAtmosphereLayer(13000, 40000); got != layers[2] {
		t.Error("scan did not continue past the inactive layer")
	}
}

func TestSetConcentrationFalloff(t *testing.T) {
	sim := testSim(t)
	cfg := testConfig(t)

	sim.SetConcentration(0.8)
	if sim.Concentration() != 0.8 {
		t.Errorf("concentration = %v, want 0.8", sim.Concentration())
	}
	for i, layer := range sim.AtmosphereLayers() {
		want := 0.8 * math.Exp(-layer.Altitude()/cfg.Atmosphere.ScaleHeight)
		if math.Abs(layer.AbsorptionProportion()-want) > 1e-9 {
			t.Errorf("layer %d absorption = %v, want %v", i, layer.AbsorptionProportion(), want)
		}
	}

	// Higher layers absorb less at the same concentration.
	layers := sim.AtmosphereLayers()
	for i := 1; i < len(layers); i++ {
		if layers[i].AbsorptionProportion() >= layers[i-1].AbsorptionProportion() {
			t.Errorf("layer %d absorption %v not below layer %d's %v",
				i, layers[i].AbsorptionProportion(), i-1, layers[i-1].AbsorptionProportion())
		}
	}
}

func TestSetConcentrationClamps(t *testing.T) {
	sim := testSim(t)
	sim.SetConcentration(1.7)
	if sim.Concentration() != 1 {
		t.Errorf("concentration = %v, want clamped to 1", sim.Concentration())
	}
	sim.SetConcentration(-0.5)
	if sim.Concentration() != 0 {
		t.Errorf("concentration = %v, want clamped to 0", sim.Concentration())
	}
}

func TestStepIgnoresNegativeDT(t *testing.T) {
	sim := testSim(t)
	sim.Step(-1)
	if sim.Tick() != 0 {
		t.Errorf("tick = %d after negative dt, want 0", sim.Tick())
	}
}

func TestStepAccumulatesFixedSubsteps(t *testing.T) {
	sim := testSim(t)
	dt := 1.0 / 60.0

	sim.Step(dt / 2)
	if sim.Tick() != 0 {
		t.Errorf("tick = %d after half a step, want 0", sim.Tick())
	}
	sim.Step(dt / 2)
	if sim.Tick() != 1 {
		t.Errorf("tick = %d after a full step's worth, want 1", sim.Tick())
	}
}

func TestNominalFrameRateStepsEveryFrame(t *testing.T) {
	sim := testSim(t)

	// The default fixed step is exactly 1/60 s, so a caller running at the
	// nominal frame rate must never fall a tick behind.
	if sim.cfg.Physics.DT != 1.0/60.0 {
		t.Fatalf("default dt = %v, want exactly 1/60", sim.cfg.Physics.DT)
	}
	for i := 0; i < 60; i++ {
		sim.Step(1.0 / 60.0)
	}
	if sim.Tick() != 60 {
		t.Errorf("tick = %d after 60 nominal frames, want 60", sim.Tick())
	}
}

func TestStepCapsSubsteps(t *testing.T) {
	sim := testSim(t)
	limit := sim.cfg.Physics.MaxSubstepsPerCall

	// A huge stall must not run unbounded substeps or carry the backlog over.
	sim.Step(3600)
	if sim.Tick() != int64(limit) {
		t.Errorf("tick = %d after stall, want capped at %d", sim.Tick(), limit)
	}
	before := sim.Tick()
	sim.Step(1.0 / 60.0)
	if sim.Tick() != before+1 {
		t.Errorf("tick = %d, want %d: dropped time must not replay", sim.Tick(), before+1)
	}
}

func TestSimulationWarmsGround(t *testing.T) {
	sim := testSim(t)
	floor := sim.Ground().MinTemperature()

	runSteps(sim, 2000)

	if got := sim.SurfaceTemperature(); got <= floor {
		t.Errorf("surface temperature = %v, want above the %v floor", got, floor)
	}
	for i, temp := range sim.LayerTemperatures() {
		if temp <= 0 {
			t.Errorf("layer %d temperature = %v, want warmed above 0", i, temp)
		}
		if math.IsNaN(temp) || math.IsInf(temp, 0) {
			t.Errorf("layer %d temperature = %v, want finite", i, temp)
		}
	}
	if got := sim.SurfaceTemperature(); math.IsNaN(got) || math.IsInf(got, 0) {
		t.Errorf("surface temperature = %v, want finite", got)
	}
	if sim.PacketCount() < 0 {
		t.Errorf("packet count = %d", sim.PacketCount())
	}
}

func TestGreenhouseEffectWarmsSurface(t *testing.T) {
	cfg := testConfig(t)

	clear, err := NewSimulation(cfg, 42)
	if err != nil {
		t.Fatal(err)
	}
	clear.SetConcentration(0)

	thick, err := NewSimulation(cfg, 42)
	if err != nil {
		t.Fatal(err)
	}
	thick.SetConcentration(1)

	runSteps(clear, 3000)
	runSteps(thick, 3000)

	if thick.SurfaceTemperature() <= clear.SurfaceTemperature() {
		t.Errorf("surface with full greenhouse gas = %v K, without = %v K; want warmer with gas",
			thick.SurfaceTemperature(), clear.SurfaceTemperature())
	}
}

func TestRadiativeBalanceConvergence(t *testing.T) {
	cfg := testConfig(t)
	// One layer at half absorption over a thermally light ground, so the
	// system settles within a few thousand fixed steps.
	cfg.Atmosphere.LayerCount = 1
	cfg.Ground.Density = 1.0
	cfg.Clouds = nil
	cfg.ComputeDerived()

	sim, err := NewSimulation(cfg, 42)
	if err != nil {
		t.Fatal(err)
	}
	sim.AtmosphereLayers()[0].SetAbsorptionProportion(0.5)

	runSteps(sim, 5000)

	if got := sim.SurfaceTemperature(); got <= 245 {
		t.Errorf("surface = %v, want above the 245 floor", got)
	}
	if got := sim.AtmosphereLayers()[0].Temperature(); got <= 0 {
		t.Errorf("layer temperature = %v, want above 0", got)
	}
	for _, v := range []float64{sim.SurfaceTemperature(), sim.AtmosphereLayers()[0].Temperature()} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("non-finite temperature %v", v)
		}
	}

	gap := math.Abs(sim.SunOutputRate() - sim.SpaceOutgoingRate())
	if gap >= cfg.Balance.Threshold {
		t.Errorf("|sun - sink| = %v, want below %v", gap, cfg.Balance.Threshold)
	}
	if !sim.InRadiativeBalance() {
		t.Error("simulation did not reach radiative balance")
	}
}

func TestSunOffCoolsToFloor(t *testing.T) {
	sim := testSim(t)
	runSteps(sim, 1000)
	warmed := sim.SurfaceTemperature()
	if warmed <= sim.Ground().MinTemperature() {
		t.Fatalf("surface did not warm: %v", warmed)
	}

	sim.Sun().SetShining(false)
	runSteps(sim, 4000)

	if got := sim.SurfaceTemperature(); got >= warmed {
		t.Errorf("surface = %v after sun off, want below %v", got, warmed)
	}
	if got := sim.SurfaceTemperature(); got < sim.Ground().MinTemperature() {
		t.Errorf("surface = %v, must never drop below the %v floor", got, sim.Ground().MinTemperature())
	}
}

func TestTemperatureConversions(t *testing.T) {
	sim := testSim(t)
	k := sim.SurfaceTemperature()
	if got, want := sim.SurfaceTemperatureCelsius(), k-273.15; math.Abs(got-want) > 1e-9 {
		t.Errorf("celsius = %v, want %v", got, want)
	}
	if got, want := sim.SurfaceTemperatureFahrenheit(), (k-273.15)*9/5+32; math.Abs(got-want) > 1e-9 {
		t.Errorf("fahrenheit = %v, want %v", got, want)
	}
}

func TestResetRestoresInitialState(t *testing.T) {
	sim := testSim(t)

	runSteps(sim, 500)
	sim.SetConcentration(0.9)
	sim.Ground().SetAlbedo(0.7)
	sim.Sun().SetShining(false)
	sim.Sun().SetOutputMultiplier(1.5)
	if len(sim.Clouds()) > 0 {
		sim.Clouds()[0].SetEnabled(!sim.Clouds()[0].Enabled())
	}
	sim.AtmosphereLayers()[0].SetActive(false)

	sim.Reset()

	cfg := sim.cfg
	if sim.Tick() != 0 {
		t.Errorf("tick = %d, want 0", sim.Tick())
	}
	if sim.PacketCount() != 0 || sim.PhotonCount() != 0 {
		t.Errorf("packets=%d photons=%d after reset, want 0/0", sim.PacketCount(), sim.PhotonCount())
	}
	if sim.SurfaceTemperature() != cfg.Ground.MinTemperature {
		t.Errorf("surface = %v, want floor %v", sim.SurfaceTemperature(), cfg.Ground.MinTemperature)
	}
	if sim.Concentration() != cfg.Atmosphere.InitialConcentration {
		t.Errorf("concentration = %v, want %v", sim.Concentration(), cfg.Atmosphere.InitialConcentration)
	}
	if sim.GroundAlbedo() != cfg.Ground.Albedo {
		t.Errorf("albedo = %v, want %v", sim.GroundAlbedo(), cfg.Ground.Albedo)
	}
	if !sim.Sun().IsShining() != !cfg.Sun.Shining {
		t.Errorf("shining = %v, want %v", sim.Sun().IsShining(), cfg.Sun.Shining)
	}
	if sim.Sun().OutputMultiplier() != cfg.Sun.Multiplier {
		t.Errorf("multiplier = %v, want %v", sim.Sun().OutputMultiplier(), cfg.Sun.Multiplier)
	}
	for i, layer := range sim.AtmosphereLayers() {
		if !layer.IsActive() {
			t.Errorf("layer %d inactive after reset", i)
		}
		if layer.Temperature() != cfg.Atmosphere.MinTemperature {
			t.Errorf("layer %d temperature = %v, want floor", i, layer.Temperature())
		}
	}
	for i, cloud := range sim.Clouds() {
		if cloud.Enabled() != cfg.Clouds[i].Enabled {
			t.Errorf("cloud %d enabled = %v, want %v", i, cloud.Enabled(), cfg.Clouds[i].Enabled)
		}
	}

	// A second reset changes nothing.
	sim.Reset()
	if sim.Tick() != 0 || sim.PacketCount() != 0 {
		t.Error("second reset disturbed state")
	}
}

func TestAtEquilibriumNeedsFullWindow(t *testing.T) {
	sim := testSim(t)
	if sim.AtEquilibrium() {
		t.Error("fresh simulation reports equilibrium")
	}
	runSteps(sim, 10)
	if sim.AtEquilibrium() {
		t.Error("equilibrium reported before a full sample window")
	}
}

func TestZeroLayerConfiguration(t *testing.T) {
	cfg := testConfig(t)
	cfg.Atmosphere.LayerCount = 0
	cfg.ComputeDerived()

	sim, err := NewSimulation(cfg, 42)
	if err != nil {
		t.Fatalf("NewSimulation with no layers: %v", err)
	}
	if len(sim.AtmosphereLayers()) != 0 {
		t.Fatalf("got %d layers, want 0", len(sim.AtmosphereLayers()))
	}

	runSteps(sim, 1000)
	if got := sim.SurfaceTemperature(); got <= cfg.Ground.MinTemperature {
		t.Errorf("bare-rock surface = %v, want warmed above floor", got)
	}
	if sim.findCrossedAtmosphereLayer(0, 50000) != nil {
		t.Error("found a layer in an empty stack")
	}
}
