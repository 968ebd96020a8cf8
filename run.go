package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/pthm-cable/garden/game"
	"github.com/pthm-cable/garden/systems"
	"github.com/pthm-cable/garden/telemetry"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a headless simulation with the autopilot gardener",
		Long: `Run a headless simulation.

The autopilot lays out irrigation, then plants its rotation, waters dry cells,
refills irrigation, harvests ripe plants and replants.

Examples:
  garden run --days 60 --seed 42
  garden run --days 30 --output-dir out --db runs.db
  garden run --days 10 --no-autopilot --map`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			days, _ := cmd.Flags().GetFloat64("days")
			ticks, _ := cmd.Flags().GetInt("ticks")
			seed, _ := cmd.Flags().GetInt64("seed")
			outputDir, _ := cmd.Flags().GetString("output-dir")
			dbPath, _ := cmd.Flags().GetString("db")
			logStats, _ := cmd.Flags().GetBool("log-stats")
			showMap, _ := cmd.Flags().GetBool("map")
			noAutopilot, _ := cmd.Flags().GetBool("no-autopilot")
			profile, _ := cmd.Flags().GetBool("perf")

			if outputDir == "" {
				outputDir = cfg.Telemetry.OutputDir
			}
			if dbPath == "" {
				dbPath = cfg.Telemetry.DBPath
			}
			if ticks <= 0 {
				ticks = int(days * systems.MinutesPerDay / cfg.Derived.MinutesPerTick)
			}

			out, err := telemetry.NewOutputManager(outputDir)
			if err != nil {
				return err
			}
			defer out.Close()
			if err := out.WriteConfig(cfg); err != nil {
				return err
			}

			var store *telemetry.Store
			if dbPath != "" {
				store, err = telemetry.OpenStore(dbPath)
				if err != nil {
					return err
				}
				defer store.Close()
			}

			var perf *telemetry.PerfCollector
			if profile {
				perf = telemetry.NewPerfCollector(cfg.Telemetry.WindowTicks)
			}

			sim := game.NewSimulation(game.Options{
				Config:   cfg,
				Seed:     seed,
				Output:   out,
				Store:    store,
				LogStats: logStats,
				Perf:     perf,
			})

			slog.Info("starting headless simulation",
				"seed", sim.Seed(),
				"ticks", ticks,
				"climate", cfg.Weather.Climate,
				"width", cfg.World.Width,
				"height", cfg.World.Height,
			)

			start := time.Now()
			var acts game.ActStats
			if noAutopilot {
				for i := 0; i < ticks; i++ {
					sim.Step(cfg.Derived.MinutesPerTick)
				}
			} else {
				ap := game.NewAutopilot(cfg)
				placed := ap.Setup(sim)
				slog.Info("autopilot_setup", "irrigation", placed, "money", sim.Money())
				acts = ap.Run(sim, ticks)
			}
			elapsed := time.Since(start)

			sim.LogState()
			if perf != nil {
				slog.Info("perf", "stats", perf.Stats())
			}
			if err := sim.Finish(); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			printSummary(w, sim, ticks, elapsed, acts)
			if showMap {
				fmt.Fprintln(w)
				return sim.WriteMap(w)
			}
			return nil
		},
	}

	cmd.Flags().Float64("days", 30, "Simulated days to run")
	cmd.Flags().Int("ticks", 0, "Ticks to run (overrides --days when > 0)")
	cmd.Flags().Int64("seed", 0, "RNG seed (0 = config, then time-based)")
	cmd.Flags().String("output-dir", "", "Output directory for CSV logs and config snapshot")
	cmd.Flags().String("db", "", "SQLite database for run history")
	cmd.Flags().String("climate", "", "Override the active climate")
	cmd.Flags().Bool("log-stats", false, "Output window stats via slog")
	cmd.Flags().Bool("map", false, "Print the final garden map")
	cmd.Flags().Bool("no-autopilot", false, "Run the garden untended")
	cmd.Flags().Bool("perf", false, "Log per-phase tick timing at the end of the run")
	return cmd
}

func printSummary(w io.Writer, sim *game.Simulation, ticks int, elapsed time.Duration, acts game.ActStats) {
	g := sim.Global()
	fmt.Fprintf(w, "Simulated %s ticks (%.1f days) in %s\n",
		humanize.Comma(int64(ticks)), g.Days, elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "Money: $%s  Revenue: $%s  Plants: %d\n",
		humanize.CommafWithDigits(g.Money, 2), humanize.CommafWithDigits(sim.Revenue(), 2), sim.PlantCount())
	if acts != (game.ActStats{}) {
		fmt.Fprintf(w, "Autopilot: %d planted, %d harvested, %d watered, %d refills, %d tilled, %d treated\n",
			acts.Planted, acts.Harvests, acts.Watered, acts.Refilled, acts.Tilled, acts.Treated)
	}

	fmt.Fprintln(w, "Ledger:")
	for _, e := range g.Ledger {
		if e.Harvests == 0 {
			continue
		}
		fmt.Fprintf(w, "  %-12s %s harvests  %8.2f yield  $%s\n",
			e.Species, humanize.Comma(int64(e.Harvests)), e.Yield, humanize.CommafWithDigits(e.Yield*e.Price, 2))
	}
	if species, best, ok := sim.HallOfFame().Top(); ok {
		fmt.Fprintf(w, "Best harvest: %s at (%d,%d), %.2f yield after %.1f days\n",
			species, best.X, best.Y, best.Yield, best.Days)
	}
}
