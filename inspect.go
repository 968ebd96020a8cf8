package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/pthm-cable/garden/components"
	"github.com/pthm-cable/garden/game"
	"github.com/pthm-cable/garden/systems"
	"github.com/pthm-cable/garden/telemetry"
)

const barWidth = 20

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Run the autopilot for a while, then show one cell",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			x, _ := cmd.Flags().GetInt("x")
			y, _ := cmd.Flags().GetInt("y")
			days, _ := cmd.Flags().GetFloat64("days")
			seed, _ := cmd.Flags().GetInt64("seed")

			sim := game.NewSimulation(game.Options{Config: cfg, Seed: seed})
			ap := game.NewAutopilot(cfg)
			ap.Setup(sim)
			ap.Run(sim, int(days*systems.MinutesPerDay/cfg.Derived.MinutesPerTick))

			cell, ok := sim.CellAt(components.Coord{X: x, Y: y})
			if !ok {
				return fmt.Errorf("cell (%d,%d) outside %dx%d garden", x, y, cfg.World.Width, cfg.World.Height)
			}
			printCell(cmd.OutOrStdout(), cell)
			return nil
		},
	}
	cmd.Flags().Int("x", 0, "Cell column")
	cmd.Flags().Int("y", 0, "Cell row")
	cmd.Flags().Float64("days", 10, "Simulated days to run first")
	cmd.Flags().Int64("seed", 1, "RNG seed")
	cmd.Flags().String("climate", "", "Override the active climate")
	return cmd
}

// bar renders a fraction as a fixed-width text bar.
func bar(frac float64) string {
	n := int(frac*barWidth + 0.5)
	return "[" + strings.Repeat("#", n) + strings.Repeat(" ", barWidth-n) + "]"
}

func printField(w io.Writer, fd components.FieldDescriptor, v float64) {
	val := fmt.Sprintf(fd.Format, v)
	if fd.IsBar {
		fmt.Fprintf(w, "  %-13s %s %s\n", fd.Label, bar(fd.Fraction(v)), val)
		return
	}
	fmt.Fprintf(w, "  %-13s %s\n", fd.Label, val)
}

func printCell(w io.Writer, c game.CellSnapshot) {
	fmt.Fprintf(w, "Cell (%d,%d): %s\n", c.Coord.X, c.Coord.Y, c.Status)
	fmt.Fprintln(w, "Soil")
	for _, fd := range components.SoilFieldDescriptors() {
		if v, ok := c.SoilValue(fd.ID); ok {
			printField(w, fd, v)
		}
	}
	fmt.Fprintf(w, "Pest: %s (level %d)  Weeds: %d\n", c.Pest, c.PestLevel, c.WeedLevel)

	switch {
	case c.Plant != nil:
		p := c.Plant
		fmt.Fprintf(w, "Plant %s: %s, %s, pollinated=%t\n", p.ID, p.Species, p.Stage, p.Pollinated)
		for _, fd := range components.PlantFieldDescriptors() {
			if v, ok := p.Value(fd.ID); ok {
				printField(w, fd, v)
			}
		}
	case c.Structure != nil:
		st := c.Structure
		fmt.Fprintf(w, "Structure %s (%s)\n", st.Name, st.Kind)
		if st.Capacity > 0 {
			fmt.Fprintf(w, "  Water %.1f/%.1f\n", st.Water, st.Capacity)
		}
		for _, d := range st.Connections {
			fmt.Fprintf(w, "  Linked %s\n", d)
		}
	}
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List runs stored in a SQLite database",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, _ := cmd.Flags().GetString("db")
			limit, _ := cmd.Flags().GetInt("limit")
			if dbPath == "" {
				return fmt.Errorf("--db is required")
			}
			store, err := telemetry.OpenStore(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.Runs(limit)
			if err != nil {
				return fmt.Errorf("failed to list runs: %w", err)
			}
			w := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(w, "No runs found.")
				return nil
			}
			for _, r := range runs {
				fmt.Fprintf(w, "#%-4d seed=%-20d %-9s %dx%d  %s ticks  $%s  %s\n",
					r.ID, r.Seed, r.Climate, r.Width, r.Height,
					humanize.Comma(int64(r.Ticks)), humanize.CommafWithDigits(r.FinalMoney, 2),
					humanize.Time(time.Unix(r.StartedAt, 0)))
			}
			return nil
		},
	}
	cmd.Flags().String("db", "", "SQLite database path")
	cmd.Flags().Int("limit", 20, "Maximum runs to list")
	return cmd
}
