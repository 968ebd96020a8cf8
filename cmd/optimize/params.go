// Package main provides CMA-ES optimization for garden autopilot and irrigation parameters.
package main

import (
	"math"

	"github.com/pthm-cable/garden/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
	Integer bool    // Rounded before it is applied

	get func(*config.Config) float64
	set func(*config.Config, float64)
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

func irrigationParam(name, field string, lo, hi, def float64, ptr func(*config.StructureConfig) *float64) ParamSpec {
	return ParamSpec{
		Name: name, Path: "structures[irrigation]." + field, Min: lo, Max: hi, Default: def,
		get: func(c *config.Config) float64 {
			if st, ok := c.StructureByName("irrigation"); ok {
				return *ptr(st)
			}
			return def
		},
		set: func(c *config.Config, v float64) {
			if st, ok := c.StructureByName("irrigation"); ok {
				*ptr(st) = v
			}
		},
	}
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Irrigation
			irrigationParam("release_rate", "release_rate", 1, 8, 3.5,
				func(s *config.StructureConfig) *float64 { return &s.ReleaseRate }),
			irrigationParam("inner_share", "inner_share", 0.4, 0.95, 0.7,
				func(s *config.StructureConfig) *float64 { return &s.InnerShare }),
			irrigationParam("fill_increment", "fill_increment", 10, 50, 25,
				func(s *config.StructureConfig) *float64 { return &s.FillIncrement }),
			// Autopilot
			{
				Name: "water_below", Path: "autopilot.water_below", Min: 15, Max: 60, Default: 35,
				get: func(c *config.Config) float64 { return c.Autopilot.WaterBelow },
				set: func(c *config.Config, v float64) { c.Autopilot.WaterBelow = v },
			},
			{
				Name: "refill_below", Path: "autopilot.refill_below", Min: 0, Max: 30, Default: 10,
				get: func(c *config.Config) float64 { return c.Autopilot.RefillBelow },
				set: func(c *config.Config, v float64) { c.Autopilot.RefillBelow = v },
			},
			{
				Name: "act_every", Path: "autopilot.act_every", Min: 4, Max: 48, Default: 12, Integer: true,
				get: func(c *config.Config) float64 { return float64(c.Autopilot.ActEvery) },
				set: func(c *config.Config, v float64) { c.Autopilot.ActEvery = int(v) },
			},
			{
				Name: "irrigation_step", Path: "autopilot.irrigation_step", Min: 3, Max: 8, Default: 5, Integer: true,
				get: func(c *config.Config) float64 { return float64(c.Autopilot.IrrigationStep) },
				set: func(c *config.Config, v float64) { c.Autopilot.IrrigationStep = int(v) },
			},
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

// Clamp ensures all values are within bounds. Integer parameters are rounded.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := max(spec.Min, min(spec.Max, v[i]))
		if spec.Integer {
			val = math.Round(val)
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config and recomputes derived values.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) error {
	for i, v := range pv.Clamp(values) {
		pv.Specs[i].set(cfg, v)
	}
	return cfg.Recompute()
}

// ExtractFromConfig extracts current parameter values from a Config.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.get(cfg)
	}
	return v
}
