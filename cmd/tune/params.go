// Package main provides CMA-ES tuning of irrigation and lifecycle parameters.
package main

import (
	"math"

	"github.com/pthm-cable/voxfarm/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "water_per_tick", Path: "irrigation.water_per_tick", Min: 0, Max: 4, Default: 1},
			{Name: "soil_per_tick", Path: "irrigation.soil_per_tick", Min: 0, Max: 4, Default: 1},
			{Name: "max_water", Path: "irrigation.max_water", Min: 1, Max: 128, Default: 64},
			{Name: "max_soil", Path: "irrigation.max_soil", Min: 1, Max: 128, Default: 64},
			{Name: "spread_attempts", Path: "lifecycle.spread_attempts", Min: 1, Max: 32, Default: 16},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

func roundU32(v float64) uint32 {
	return uint32(math.Round(v))
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	c := pv.Clamp(values)
	cfg.Irrigation.Enabled = true
	cfg.Irrigation.WaterPerTick = roundU32(c[0])
	cfg.Irrigation.SoilPerTick = roundU32(c[1])
	cfg.Irrigation.MaxWater = roundU32(c[2])
	cfg.Irrigation.MaxSoil = roundU32(c[3])
	cfg.Lifecycle.SpreadAttempts = int(math.Round(c[4]))
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		float64(cfg.Irrigation.WaterPerTick),
		float64(cfg.Irrigation.SoilPerTick),
		float64(cfg.Irrigation.MaxWater),
		float64(cfg.Irrigation.MaxSoil),
		float64(cfg.Lifecycle.SpreadAttempts),
	}
}
