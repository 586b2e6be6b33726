// Package config provides configuration loading and access for the simulation.
//
// Every empirically tuned constant of the physical model (layer thickness,
// absorption mapping, cloud reflectivities, sun output) lives here rather
// than in code, so alternative calibrations can be loaded from YAML.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Geometry   GeometryConfig   `yaml:"geometry"`
	Sun        SunConfig        `yaml:"sun"`
	Ground     GroundConfig     `yaml:"ground"`
	Atmosphere AtmosphereConfig `yaml:"atmosphere"`
	Clouds     []CloudConfig    `yaml:"clouds"`
	Balance    BalanceConfig    `yaml:"balance"`
	Photons    PhotonConfig     `yaml:"photons"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// PhysicsConfig holds the fixed-timestep integration parameters.
type PhysicsConfig struct {
	DT                 float64 `yaml:"dt"`                    // seconds per physics sub-step
	MaxSubstepsPerCall int     `yaml:"max_substeps_per_call"` // cap on sub-steps per Step call
	PacketSpeed        float64 `yaml:"packet_speed"`          // energy packet speed (m/s, tuned for pacing)
}

// GeometryConfig holds the model's spatial extents.
type GeometryConfig struct {
	SurfaceArea    float64 `yaml:"surface_area"`    // modeled surface area (m²)
	Width          float64 `yaml:"width"`           // total horizontal span (m)
	TopAltitude    float64 `yaml:"top_altitude"`    // top of the model / space boundary (m)
	LayerThickness float64 `yaml:"layer_thickness"` // shared layer thickness used for thermal mass (m)
}

// SunConfig holds the energy source parameters.
type SunConfig struct {
	OutputRate float64 `yaml:"output_rate"` // W/m² reaching the top of the model
	Multiplier float64 `yaml:"multiplier"`  // output scale factor (1 = nominal)
	Shining    bool    `yaml:"shining"`
}

// GroundConfig holds the ground layer parameters.
type GroundConfig struct {
	Albedo         float64 `yaml:"albedo"`          // visible-light reflectivity [0,1]
	MinTemperature float64 `yaml:"min_temperature"` // Kelvin floor (night-time Earth)
	Density        float64 `yaml:"density"`         // kg/m³
	SpecificHeat   float64 `yaml:"specific_heat"`   // J/(kg·K)
}

// AtmosphereConfig holds the atmosphere layer stack parameters.
type AtmosphereConfig struct {
	LayerCount           int     `yaml:"layer_count"`
	MinTemperature       float64 `yaml:"min_temperature"` // Kelvin floor per layer
	Density              float64 `yaml:"density"`         // kg/m³
	SpecificHeat         float64 `yaml:"specific_heat"`   // J/(kg·K)
	ScaleHeight          float64 `yaml:"scale_height"`    // e-folding altitude for absorption falloff (m)
	InitialConcentration float64 `yaml:"initial_concentration"`
}

// CloudConfig describes one cloud reflector.
type CloudConfig struct {
	Altitude    float64           `yaml:"altitude"`
	X           float64           `yaml:"x"`      // horizontal center (m)
	Width       float64           `yaml:"width"`  // horizontal extent (m)
	Height      float64           `yaml:"height"` // vertical extent, rendering only (m)
	Enabled     bool              `yaml:"enabled"`
	Reflectance ReflectanceConfig `yaml:"reflectance"`
}

// ReflectanceConfig holds per-wavelength, per-approach reflectivities [0,1].
type ReflectanceConfig struct {
	VisibleDown  float64 `yaml:"visible_down"`
	VisibleUp    float64 `yaml:"visible_up"`
	InfraredDown float64 `yaml:"infrared_down"`
	InfraredUp   float64 `yaml:"infrared_up"`
}

// BalanceConfig holds the radiative balance and equilibrium thresholds.
type BalanceConfig struct {
	Threshold            float64 `yaml:"threshold"`             // watts; |sun - sink| below this = in balance
	RateWindow           float64 `yaml:"rate_window"`           // seconds per rate-tracker window
	EquilibriumWindow    float64 `yaml:"equilibrium_window"`    // seconds of sustained balance required
	EquilibriumThreshold float64 `yaml:"equilibrium_threshold"` // watts; per-layer and whole-model flux gap
}

// PhotonConfig holds the visual photon model parameters.
type PhotonConfig struct {
	SunRate          float64 `yaml:"sun_rate"`           // photons per second from the sun
	GroundRateScale  float64 `yaml:"ground_rate_scale"`  // photons per watt of ground radiation
	Speed            float64 `yaml:"speed"`              // photon travel speed (m/s)
	DwellTime        float64 `yaml:"dwell_time"`         // seconds an absorbed photon is held
	MinDeflectionDeg float64 `yaml:"min_deflection_deg"` // minimum re-emission deflection (degrees)
	MaxCount         int     `yaml:"max_count"`          // generation pauses above this
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // seconds per stats window
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	LayerAltitudes []float64 // ascending, evenly spaced below TopAltitude
	LayerVolume    float64   // SurfaceArea × LayerThickness
	GroundMass     float64   // kg
	LayerMass      float64   // kg per atmosphere layer
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if
// path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ComputeDerived()

	return cfg, nil
}

// Validate rejects configurations that violate model invariants. These are
// configuration errors, not runtime conditions, so loading fails outright.
func (c *Config) Validate() error {
	if c.Physics.DT <= 0 {
		return fmt.Errorf("physics.dt must be positive, got %v", c.Physics.DT)
	}
	if c.Physics.MaxSubstepsPerCall < 1 {
		return fmt.Errorf("physics.max_substeps_per_call must be at least 1, got %d", c.Physics.MaxSubstepsPerCall)
	}
	if c.Physics.PacketSpeed <= 0 {
		return fmt.Errorf("physics.packet_speed must be positive, got %v", c.Physics.PacketSpeed)
	}
	if c.Geometry.SurfaceArea <= 0 || c.Geometry.Width <= 0 || c.Geometry.TopAltitude <= 0 {
		return fmt.Errorf("geometry extents must be positive")
	}
	if c.Geometry.LayerThickness <= 0 {
		return fmt.Errorf("geometry.layer_thickness must be positive, got %v", c.Geometry.LayerThickness)
	}
	if c.Sun.OutputRate <= 0 {
		return fmt.Errorf("sun.output_rate must be positive, got %v", c.Sun.OutputRate)
	}
	if c.Sun.Multiplier < 0 {
		return fmt.Errorf("sun.multiplier must not be negative, got %v", c.Sun.Multiplier)
	}
	if c.Ground.Albedo < 0 || c.Ground.Albedo > 1 {
		return fmt.Errorf("ground.albedo must be in [0,1], got %v", c.Ground.Albedo)
	}
	if c.Ground.Density <= 0 || c.Ground.SpecificHeat <= 0 {
		return fmt.Errorf("ground substance must have positive density and specific heat")
	}
	if c.Atmosphere.LayerCount < 0 {
		return fmt.Errorf("atmosphere.layer_count must not be negative, got %d", c.Atmosphere.LayerCount)
	}
	if c.Atmosphere.Density <= 0 || c.Atmosphere.SpecificHeat <= 0 {
		return fmt.Errorf("atmosphere substance must have positive density and specific heat")
	}
	if c.Atmosphere.InitialConcentration < 0 || c.Atmosphere.InitialConcentration > 1 {
		return fmt.Errorf("atmosphere.initial_concentration must be in [0,1], got %v", c.Atmosphere.InitialConcentration)
	}
	for i, cloud := range c.Clouds {
		if cloud.Width <= 0 || cloud.Width > c.Geometry.Width {
			return fmt.Errorf("clouds[%d].width must be in (0, geometry.width], got %v", i, cloud.Width)
		}
		if cloud.Altitude <= 0 || cloud.Altitude >= c.Geometry.TopAltitude {
			return fmt.Errorf("clouds[%d].altitude must be inside the model, got %v", i, cloud.Altitude)
		}
		coverage := cloud.Width / c.Geometry.Width
		reflectances := map[string]float64{
			"visible_down":  cloud.Reflectance.VisibleDown,
			"visible_up":    cloud.Reflectance.VisibleUp,
			"infrared_down": cloud.Reflectance.InfraredDown,
			"infrared_up":   cloud.Reflectance.InfraredUp,
		}
		for name, r := range reflectances {
			if r < 0 || r > 1 {
				return fmt.Errorf("clouds[%d].reflectance.%s must be in [0,1], got %v", i, name, r)
			}
			if r*coverage > 1 {
				return fmt.Errorf("clouds[%d].reflectance.%s scaled by coverage exceeds 1", i, name)
			}
		}
	}
	if c.Balance.Threshold <= 0 || c.Balance.EquilibriumThreshold <= 0 {
		return fmt.Errorf("balance thresholds must be positive")
	}
	if c.Balance.RateWindow <= 0 || c.Balance.EquilibriumWindow <= 0 {
		return fmt.Errorf("balance windows must be positive")
	}
	if c.Photons.SunRate < 0 || c.Photons.GroundRateScale < 0 {
		return fmt.Errorf("photon generation rates must not be negative")
	}
	if c.Photons.Speed <= 0 {
		return fmt.Errorf("photons.speed must be positive, got %v", c.Photons.Speed)
	}
	if c.Photons.DwellTime < 0 {
		return fmt.Errorf("photons.dwell_time must not be negative, got %v", c.Photons.DwellTime)
	}
	if c.Photons.MaxCount < 0 {
		return fmt.Errorf("photons.max_count must not be negative, got %d", c.Photons.MaxCount)
	}
	if c.Photons.MinDeflectionDeg < 0 || c.Photons.MinDeflectionDeg > 180 {
		return fmt.Errorf("photons.min_deflection_deg must be in [0,180], got %v", c.Photons.MinDeflectionDeg)
	}
	return nil
}

// ComputeDerived calculates values derived from loaded config.
func (c *Config) ComputeDerived() {
	c.Derived.LayerVolume = c.Geometry.SurfaceArea * c.Geometry.LayerThickness
	c.Derived.GroundMass = c.Derived.LayerVolume * c.Ground.Density
	c.Derived.LayerMass = c.Derived.LayerVolume * c.Atmosphere.Density

	// Layers sit evenly spaced between the ground and the top boundary.
	n := c.Atmosphere.LayerCount
	c.Derived.LayerAltitudes = make([]float64, n)
	for i := 0; i < n; i++ {
		c.Derived.LayerAltitudes[i] = c.Geometry.TopAltitude * float64(i+1) / float64(n+1)
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
