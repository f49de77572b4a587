// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	World      WorldConfig      `yaml:"world"`
	Lifecycle  LifecycleConfig  `yaml:"lifecycle"`
	Irrigation IrrigationConfig `yaml:"irrigation"`
	Population PopulationConfig `yaml:"population"`
	Players    []PlayerConfig   `yaml:"players"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// SimulationConfig holds tick timing.
type SimulationConfig struct {
	DT       float64 `yaml:"dt"`        // Seconds of simulated time per tick
	MaxTicks int     `yaml:"max_ticks"` // Headless run length (0 = until interrupted)
}

// WorldConfig describes the in-memory block world.
type WorldConfig struct {
	Seed         int64 `yaml:"seed"`
	RadiusChunks int32 `yaml:"radius_chunks"` // Loaded region is (2r+1)^2 chunk columns
	MinY         int32 `yaml:"min_y"`
	MaxY         int32 `yaml:"max_y"`
	GroundLevel  int32 `yaml:"ground_level"`
	Variation    int32 `yaml:"variation"` // Max ground bump above ground_level
}

// LifecycleConfig holds lifecycle engine parameters.
type LifecycleConfig struct {
	LightLevel        float64 `yaml:"light_level"`        // Open-sky light available to every organism
	LightVariation    float64 `yaml:"light_variation"`    // Cloud cover strength in [0,1] (0 = uniform light)
	LightScale        float64 `yaml:"light_scale"`        // Cloud noise frequency in 1/blocks
	CanopyShade       float64 `yaml:"canopy_shade"`       // Fraction of light blocked per solid block overhead
	CanopyDepth       int32   `yaml:"canopy_depth"`       // Blocks scanned above an organism for shade (0 = off)
	MinLight          float64 `yaml:"min_light"`          // Growth stalls at or below this light
	MaturityAge       float64 `yaml:"maturity_age"`       // Seconds a Mature organism waits before pollinating
	SpreadAttempts    int     `yaml:"spread_attempts"`    // Surface samples per requested spread (0 = default)
	ParallelThreshold int     `yaml:"parallel_threshold"` // Organism count above which transitions run on the worker pool
	Workers           int     `yaml:"workers"`            // Worker pool size (0 = GOMAXPROCS)
}

// IrrigationConfig holds water/soil replenishment parameters.
type IrrigationConfig struct {
	Enabled      bool   `yaml:"enabled"`
	WaterPerTick uint32 `yaml:"water_per_tick"`
	SoilPerTick  uint32 `yaml:"soil_per_tick"`
	MaxWater     uint32 `yaml:"max_water"`
	MaxSoil      uint32 `yaml:"max_soil"`
}

// PopulationConfig holds world seeding parameters.
type PopulationConfig struct {
	WildSeeding bool `yaml:"wild_seeding"` // Seed wild organisms in every loaded chunk at startup
}

// PlayerConfig describes a player created at startup and its opening plantings.
type PlayerConfig struct {
	Name   string   `yaml:"name"`
	Plant  []string `yaml:"plant"`  // Species planted near the origin on the first tick
	Spread int32    `yaml:"spread"` // Sampling radius for opening plantings
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // Seconds of simulated time per stats window
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
	EventLog            bool    `yaml:"event_log"`  // Write phase transitions to events.jsonl.zst
	HarvestDB           bool    `yaml:"harvest_db"` // Index ledger credits in harvest.db
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32          float32 // Simulation.DT as float32
	Light32       float32 // Lifecycle.LightLevel as float32
	MinLight32    float32 // Lifecycle.MinLight as float32
	MaturityAge32 float32 // Lifecycle.MaturityAge as float32
	StatsTicks    int     // Ticks per stats window
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
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

// Set validates cfg, recomputes derived values and installs it as the
// global configuration.
func Set(cfg *Config) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	cfg.computeDerived()
	global = cfg
	return nil
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
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Simulation.DT <= 0 {
		return fmt.Errorf("simulation.dt must be positive, got %v", c.Simulation.DT)
	}
	if c.World.MaxY <= c.World.MinY {
		return fmt.Errorf("world.max_y (%d) must exceed world.min_y (%d)", c.World.MaxY, c.World.MinY)
	}
	if c.World.GroundLevel < c.World.MinY || c.World.GroundLevel+c.World.Variation >= c.World.MaxY-1 {
		return fmt.Errorf("world.ground_level %d leaves no air inside [%d,%d)", c.World.GroundLevel, c.World.MinY, c.World.MaxY)
	}
	if c.World.RadiusChunks < 0 {
		return fmt.Errorf("world.radius_chunks must not be negative")
	}
	if c.Lifecycle.LightLevel < 0 {
		return fmt.Errorf("lifecycle.light_level must not be negative")
	}
	if c.Lifecycle.LightVariation < 0 || c.Lifecycle.LightVariation > 1 {
		return fmt.Errorf("lifecycle.light_variation must be in [0,1], got %v", c.Lifecycle.LightVariation)
	}
	if c.Lifecycle.CanopyShade < 0 || c.Lifecycle.CanopyShade > 1 {
		return fmt.Errorf("lifecycle.canopy_shade must be in [0,1], got %v", c.Lifecycle.CanopyShade)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Simulation.DT)
	c.Derived.Light32 = float32(c.Lifecycle.LightLevel)
	c.Derived.MinLight32 = float32(c.Lifecycle.MinLight)
	c.Derived.MaturityAge32 = float32(c.Lifecycle.MaturityAge)

	ticks := int(math.Round(c.Telemetry.StatsWindow / c.Simulation.DT))
	if ticks < 1 {
		ticks = 1
	}
	c.Derived.StatsTicks = ticks
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
