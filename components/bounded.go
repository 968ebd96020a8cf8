package components

import (
	"log/slog"
	"math"
)

// Bound is a closed range with a fallback used when a write is not a number.
type Bound struct {
	Name     string
	Min, Max float64
	Default  float64
}

// Apply clamps v into the bound. NaN and infinities reset to Default and are logged.
func (b Bound) Apply(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		slog.Warn("invalid_value_reset", "field", b.Name, "value", v, "default", b.Default)
		return b.Default
	}
	if v < b.Min {
		return b.Min
	}
	if v > b.Max {
		return b.Max
	}
	return v
}

var unbounded = math.MaxFloat64

// Soil bounds.
var (
	MoistureBound   = Bound{Name: "moisture", Min: 0, Max: 100, Default: 50}
	CompactionBound = Bound{Name: "compaction", Min: 0, Max: 100, Default: 30}
	MicrobesBound   = Bound{Name: "microbes", Min: 0, Max: 1000, Default: 300}
	OrganicBound    = Bound{Name: "organic_matter", Min: 0, Max: unbounded, Default: 0}
	BNBound         = Bound{Name: "bn", Min: 0, Max: unbounded, Default: 0}
	PHBound         = Bound{Name: "ph", Min: 4.0, Max: 9.0, Default: 6.5}
	NutritionBound  = Bound{Name: "nutrition", Min: 0, Max: 100, Default: 50}
	ConditionBound  = Bound{Name: "soil_condition", Min: 0, Max: 100, Default: 50}
	OxygenBound     = Bound{Name: "oxygen", Min: 0, Max: 100, Default: 100}
)

// Plant bounds.
var (
	SizeBound        = Bound{Name: "size", Min: 0, Max: 1, Default: 0.05}
	RootHealthBound  = Bound{Name: "root_health", Min: 0, Max: 100, Default: 50}
	StemHealthBound  = Bound{Name: "stem_health", Min: 0, Max: 100, Default: 50}
	RootDensityBound = Bound{Name: "root_density", Min: 0.1, Max: 2.5, Default: 0.5}
	DevelopBound     = Bound{Name: "development", Min: 0.05, Max: 1.0, Default: 0.05}
	EnergyBound      = Bound{Name: "energy", Min: 0, Max: unbounded, Default: 0}
	ProgressBound    = Bound{Name: "maturity_progress", Min: 0, Max: 1, Default: 0}
)

// Structure bounds; the upper limit of stored water is per-structure capacity.
var WaterBound = Bound{Name: "water_level", Min: 0, Max: unbounded, Default: 0}
