package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick int     `csv:"-" db:"window_start"`
	WindowEndTick   int     `csv:"window_end" db:"window_end"`
	SimMinutes      float64 `csv:"sim_minutes" db:"sim_minutes"`
	Days            float64 `csv:"days" db:"days"`

	// Occupancy at window end
	Plants     int `csv:"plants" db:"plants"`
	Structures int `csv:"structures" db:"structures"`
	PestCells  int `csv:"pest_cells" db:"pest_cells"`
	WeedCells  int `csv:"weed_cells" db:"weed_cells"`

	// Events during window
	Planted      int `csv:"planted" db:"planted"`
	Harvests     int `csv:"harvests" db:"harvests"`
	Deaths       int `csv:"deaths" db:"deaths"`
	Removals     int `csv:"removals" db:"removals"`
	PestSpawns   int `csv:"pest_spawns" db:"pest_spawns"`
	PestRemovals int `csv:"pest_removals" db:"pest_removals"`
	WeedSpreads  int `csv:"weed_spreads" db:"weed_spreads"`

	// Economy
	Yield   float64 `csv:"yield" db:"yield"`
	Revenue float64 `csv:"revenue" db:"revenue"`
	Money   float64 `csv:"money" db:"money"`

	// Climate
	Evaporation float64 `csv:"evaporation" db:"evaporation"` // Total over the window
	Temperature float64 `csv:"temperature" db:"temperature"`
	Humidity    float64 `csv:"humidity" db:"humidity"`
	Attraction  float64 `csv:"attraction" db:"attraction"`

	// Soil distribution (sampled at window end)
	MoistureMean  float64 `csv:"moisture_mean" db:"moisture_mean"`
	MoistureP10   float64 `csv:"moisture_p10" db:"moisture_p10"`
	MoistureP90   float64 `csv:"moisture_p90" db:"moisture_p90"`
	NutritionMean float64 `csv:"nutrition_mean" db:"nutrition_mean"`
	ConditionMean float64 `csv:"condition_mean" db:"condition_mean"`
	ConditionStd  float64 `csv:"condition_std" db:"condition_std"`
	MicrobesMean  float64 `csv:"microbes_mean" db:"microbes_mean"`

	// Plant distribution
	PlantSizeMean   float64 `csv:"plant_size_mean" db:"plant_size_mean"`
	PlantSizeP50    float64 `csv:"plant_size_p50" db:"plant_size_p50"`
	PlantEnergyMean float64 `csv:"plant_energy_mean" db:"plant_energy_mean"`
}

// Distribution summarizes a sample.
type Distribution struct {
	Mean, Std     float64
	Min, Max      float64
	P10, P50, P90 float64
}

// Describe computes mean, standard deviation, range and percentiles of values.
// An empty sample yields all zeros; a single value has zero deviation.
func Describe(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var d Distribution
	d.Mean = stat.Mean(sorted, nil)
	if len(sorted) > 1 {
		d.Std = stat.StdDev(sorted, nil)
	}
	d.Min = floats.Min(sorted)
	d.Max = floats.Max(sorted)
	d.P10 = stat.Quantile(0.10, stat.LinInterp, sorted, nil)
	d.P50 = stat.Quantile(0.50, stat.LinInterp, sorted, nil)
	d.P90 = stat.Quantile(0.90, stat.LinInterp, sorted, nil)
	return d
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStartTick),
		slog.Int("window_end", s.WindowEndTick),
		slog.Float64("days", s.Days),
		slog.Int("plants", s.Plants),
		slog.Int("harvests", s.Harvests),
		slog.Float64("revenue", s.Revenue),
		slog.Float64("money", s.Money),
		slog.Float64("moisture_mean", s.MoistureMean),
		slog.Float64("condition_mean", s.ConditionMean),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"days", s.Days,
		"plants", s.Plants,
		"structures", s.Structures,
		"pest_cells", s.PestCells,
		"weed_cells", s.WeedCells,
		"planted", s.Planted,
		"harvests", s.Harvests,
		"deaths", s.Deaths,
		"removals", s.Removals,
		"pest_spawns", s.PestSpawns,
		"pest_removals", s.PestRemovals,
		"weed_spreads", s.WeedSpreads,
		"yield", s.Yield,
		"revenue", s.Revenue,
		"money", s.Money,
		"evaporation", s.Evaporation,
		"temperature", s.Temperature,
		"humidity", s.Humidity,
		"attraction", s.Attraction,
		"moisture_mean", s.MoistureMean,
		"moisture_p10", s.MoistureP10,
		"moisture_p90", s.MoistureP90,
		"nutrition_mean", s.NutritionMean,
		"condition_mean", s.ConditionMean,
		"condition_std", s.ConditionStd,
		"microbes_mean", s.MicrobesMean,
		"plant_size_mean", s.PlantSizeMean,
		"plant_size_p50", s.PlantSizeP50,
		"plant_energy_mean", s.PlantEnergyMean,
	)
}
