package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/garden/config"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "garden",
		Short: "Grid garden simulation",
		Long: `garden runs a tick-driven garden simulation: soil, plants, structures,
pests, weeds and weather on a rectangular grid.

Headless runs are driven by a scripted gardener (the autopilot) and can write
window statistics and events to CSV and SQLite.`,
		SilenceUsage:      true,
		PersistentPreRunE: setupLogging,
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "Path to config.yaml (empty = use defaults)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newRunCmd(),
		newConfigCmd(),
		newInspectCmd(),
		newHistoryCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogging installs a JSON slog handler at the requested level.
func setupLogging(cmd *cobra.Command, args []string) error {
	levelName, _ := cmd.Flags().GetString("log-level")
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", levelName, err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig loads the config named by --config and applies an optional climate override.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Lookup("climate") == nil {
		return cfg, nil
	}
	if climate, _ := cmd.Flags().GetString("climate"); climate != "" {
		cfg.Weather.Climate = climate
		if err := cfg.Recompute(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			out, _ := cmd.Flags().GetString("out")
			if out != "" {
				return cfg.WriteYAML(out)
			}
			data, err := cfg.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().String("out", "", "Write to this file instead of stdout")
	cmd.Flags().String("climate", "", "Override the active climate")
	return cmd
}
