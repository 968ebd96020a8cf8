package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/garden/config"
	"github.com/pthm-cable/garden/game"
	"github.com/pthm-cable/garden/systems"
	"github.com/pthm-cable/garden/telemetry"
)

// FitnessEvaluator runs headless autopilot simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	days       float64
	seeds      []int64
	baseConfig *config.Config

	mu          sync.Mutex
	bestFitness float64
	lastQuality float64 // quality from most recent Evaluate call
	lastMoney   float64 // mean final money from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, days float64, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		days:        days,
		seeds:       seeds,
		baseConfig:  baseCfg,
		bestFitness: math.Inf(1),
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// LastMoney returns the mean final money from the most recent evaluation.
func (fe *FitnessEvaluator) LastMoney() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastMoney
}

// runResult holds the results from a single simulation run.
type runResult struct {
	money       float64
	windowStats []telemetry.WindowStats
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is negative final money, scaled by up to 10% for soil quality.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig.Clone()
	if err := fe.params.ApplyToConfig(cfg, x); err != nil {
		return math.Inf(1)
	}

	// Seeds share nothing but the read-only config.
	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality, totalMoney float64
	for _, r := range results {
		q := computeQuality(r.windowStats)
		totalFitness += computeFitness(r.money, q)
		totalQuality += q
		totalMoney += r.money
	}
	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	fe.bestFitness = min(fe.bestFitness, avgFitness)
	fe.lastQuality = totalQuality / n
	fe.lastMoney = totalMoney / n
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation executes a single headless autopilot run.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) runResult {
	var result runResult
	sim := game.NewSimulation(game.Options{
		Config: cfg,
		Seed:   seed,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	ap := game.NewAutopilot(cfg)
	ap.Setup(sim)
	ap.Run(sim, int(fe.days*systems.MinutesPerDay/cfg.Derived.MinutesPerTick))
	result.money = sim.Money()
	return result
}

// computeFitness calculates the scalar fitness (lower = better).
// Money dominates; quality only separates configs with similar earnings.
func computeFitness(money, quality float64) float64 {
	return -(money * (1.0 + 0.1*quality))
}

// Quality component weights.
const (
	qualityWeightCondition = 0.5
	qualityWeightMoisture  = 0.3
	qualityWeightPests     = 0.2

	qualityWarmupWindows = 1 // skip the first window while plants establish
)

// computeQuality scores soil health in [0, 1] from window stats.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	conditions := make([]float64, len(valid))
	var moistureScore, pestScore float64
	for i, w := range valid {
		conditions[i] = w.ConditionMean
		// Moisture centred on the moist band; pest score falls with infested cells.
		moistureScore += math.Exp(-math.Pow((w.MoistureMean-60)/25, 2))
		pestScore += 1 / (1 + float64(w.PestCells))
	}
	n := float64(len(valid))

	conditionScore := stat.Mean(conditions, nil) / 100
	quality := qualityWeightCondition*conditionScore +
		qualityWeightMoisture*moistureScore/n +
		qualityWeightPests*pestScore/n
	return max(0, min(1, quality))
}
