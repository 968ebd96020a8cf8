// Package main tunes irrigation and autopilot settings with CMA-ES so that a
// scripted garden ends its run with as much money as possible.
package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/garden/config"
)

// formatDuration renders d as 1h02m05s, or 2m05s below an hour.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	hours := d / time.Hour
	mins := (d % time.Hour) / time.Minute
	secs := (d % time.Minute) / time.Second
	if hours > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", hours, mins, secs)
	}
	return fmt.Sprintf("%dm%02ds", mins, secs)
}

type tuneOptions struct {
	configPath string
	days       float64
	seeds      int
	maxEvals   int
	population int
	outputDir  string
}

// tuner wraps the objective with progress reporting and a per-evaluation CSV log.
type tuner struct {
	opts      tuneOptions
	params    *ParamVector
	evaluator *FitnessEvaluator
	log       *csv.Writer

	evals   int
	best    float64
	bestX   []float64
	started time.Time
}

func main() {
	var opts tuneOptions
	cmd := &cobra.Command{
		Use:          "optimize",
		Short:        "Tune irrigation and autopilot parameters with CMA-ES",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTune(opts)
		},
	}
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Base config YAML file (empty = use defaults)")
	cmd.Flags().Float64Var(&opts.days, "days", 30, "Simulated days per run")
	cmd.Flags().IntVar(&opts.seeds, "seeds", 3, "Seeds averaged per evaluation")
	cmd.Flags().IntVar(&opts.maxEvals, "max-evals", 200, "Evaluation budget")
	cmd.Flags().IntVar(&opts.population, "population", 0, "CMA-ES population size (0 = auto)")
	cmd.Flags().StringVar(&opts.outputDir, "output", "", "Directory for the log and best config")
	_ = cmd.MarkFlagRequired("output")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runTune(opts tuneOptions) error {
	if err := os.MkdirAll(opts.outputDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	baseCfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	seeds := make([]int64, opts.seeds)
	for i := range seeds {
		seeds[i] = 42 + int64(i)*1000
	}
	params := NewParamVector()

	logFile, err := os.Create(filepath.Join(opts.outputDir, "optimize_log.csv"))
	if err != nil {
		return fmt.Errorf("create log: %w", err)
	}
	defer logFile.Close()

	t := &tuner{
		opts:      opts,
		params:    params,
		evaluator: NewFitnessEvaluator(params, opts.days, seeds, baseCfg),
		log:       csv.NewWriter(logFile),
		best:      1e9,
		started:   time.Now(),
	}
	defer t.log.Flush()
	if err := t.writeHeader(); err != nil {
		return err
	}

	pop := opts.population
	if pop == 0 {
		pop = 4 + 3*params.Dim()/2
	}
	slog.Info("tune_start", "params", params.Dim(), "population", pop,
		"max_evals", opts.maxEvals, "seeds", opts.seeds, "days", opts.days)

	result, err := optimize.Minimize(
		optimize.Problem{Func: t.objective},
		params.Normalize(params.ExtractFromConfig(baseCfg)),
		&optimize.Settings{FuncEvaluations: opts.maxEvals},
		&optimize.CmaEsChol{InitStepSize: 0.3, Population: pop},
	)
	if err != nil {
		slog.Warn("tune_stopped", "error", err)
	}
	if t.bestX == nil && result != nil {
		t.bestX = params.Clamp(params.Denormalize(result.X))
	}
	if t.bestX == nil {
		return errors.New("no evaluations completed")
	}
	return t.writeBest(baseCfg)
}

func (t *tuner) writeHeader() error {
	cols := []string{"eval", "fitness", "money", "quality"}
	for _, spec := range t.params.Specs {
		cols = append(cols, spec.Name)
	}
	return t.log.Write(cols)
}

// objective evaluates a normalized point and records it.
func (t *tuner) objective(x []float64) float64 {
	fitness := t.evaluator.Evaluate(t.params.Denormalize(x))
	applied := t.params.Clamp(t.params.Denormalize(x))
	t.evals++
	if fitness < t.best {
		t.best = fitness
		t.bestX = applied
	}

	money, quality := t.evaluator.LastMoney(), t.evaluator.LastQuality()
	row := make([]string, 0, 4+len(applied))
	row = append(row,
		strconv.Itoa(t.evals),
		strconv.FormatFloat(fitness, 'f', 4, 64),
		strconv.FormatFloat(money, 'f', 2, 64),
		strconv.FormatFloat(quality, 'f', 4, 64),
	)
	for _, v := range applied {
		row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
	}
	if err := t.log.Write(row); err != nil {
		slog.Warn("tune_log_failed", "error", err)
	}
	t.log.Flush()

	elapsed := time.Since(t.started)
	eta := time.Duration(t.opts.maxEvals-t.evals) * (elapsed / time.Duration(t.evals))
	fmt.Printf("eval %d/%d  money $%s  quality %.2f  best %.0f  [%s, eta %s]\n",
		t.evals, t.opts.maxEvals, humanize.CommafWithDigits(money, 2), quality, t.best,
		formatDuration(elapsed), formatDuration(eta))
	return fitness
}

func (t *tuner) writeBest(baseCfg *config.Config) error {
	fmt.Printf("\n%d evaluations in %s, best fitness %.0f\n", t.evals, formatDuration(time.Since(t.started)), t.best)
	for i, spec := range t.params.Specs {
		fmt.Printf("  %-32s %.6f\n", spec.Path, t.bestX[i])
	}

	cfg := baseCfg.Clone()
	if err := t.params.ApplyToConfig(cfg, t.bestX); err != nil {
		return fmt.Errorf("apply best parameters: %w", err)
	}
	path := filepath.Join(t.opts.outputDir, "best_config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		return fmt.Errorf("write best config: %w", err)
	}
	slog.Info("tune_done", "config", path)
	return nil
}
