// Package cli provides the command-line interface for the barrier pricer.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"barrier-pricer/internal/config"
	"barrier-pricer/internal/logging"
	"barrier-pricer/internal/pricing"
	"barrier-pricer/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2024-06-01"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger

	// OpenStore opens the run journal; replaced in tests.
	OpenStore func(path string) (store.RunStore, error)
}

// NewRootCmd creates the root command for the CLI. When cfg is nil the
// configuration is loaded from --config (or the default directory) and the
// logger is built from it before any command runs.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
		OpenStore: func(path string) (store.RunStore, error) {
			return store.NewSQLiteStore(path)
		},
	}

	rootCmd := &cobra.Command{
		Use:   "barrier",
		Short: "Monte Carlo barrier option pricer",
		Long: `barrier prices European knock-in and knock-out options by simulating
geometric Brownian motion paths and checking each one against the barrier.

Use 'barrier price' for a single contract and 'barrier sweep' to price the
four classic put/call in/out panels across a grid of strikes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Config == nil {
				dir, _ := cmd.Flags().GetString("config")
				loaded, err := config.Load(dir)
				if err != nil {
					return err
				}
				app.Config = loaded
				app.Logger = logging.NewLoggerWithConfig(loaded.LogConfig())
			}

			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			cmd.SetContext(logging.WithLogger(cmd.Context(), app.Logger))
			app.Logger.Debug().Str("command", cmd.CommandPath()).Str("config_dir", app.Config.Dir).Msg("Command starting")
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/barrier-pricer)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newPriceCmd(app))
	rootCmd.AddCommand(newSweepCmd(app))
	rootCmd.AddCommand(newRunsCmd(app))

	return rootCmd
}

// Pricer builds a pricer logging through the command's context logger.
func (a *App) Pricer(cmd *cobra.Command, pc pricing.PricerConfig) *pricing.Pricer {
	return pricing.NewPricer(pc, logging.FromContext(cmd.Context()))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			}
			output.Printf("barrier v%s\n", Version)
			output.Dim("Build date: %s", BuildDate)
			return nil
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate the pricer configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(map[string]string{"path": app.Config.Dir})
			}
			output.Println(app.Config.Dir)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]bool{"valid": true})
			}
			output.Success("✓ Configuration is valid")
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Market")
	output.Printf("  Spot:         %s\n", FormatStrike(cfg.Market.Spot))
	output.Printf("  Rate:         %s\n", FormatPercent(cfg.Market.Rate))
	output.Printf("  Dividend:     %s\n", FormatPercent(cfg.Market.Dividend))
	output.Printf("  Volatility:   %s\n", FormatPercent(cfg.Market.Volatility))
	output.Printf("  Horizon:      %g years\n", cfg.Market.Horizon)
	output.Println()

	output.Bold("Simulation")
	output.Printf("  Steps:        %d\n", cfg.Simulation.Steps)
	output.Printf("  Trials:       %d\n", cfg.Simulation.Trials)
	output.Printf("  Workers:      %d\n", cfg.Simulation.Workers)
	if cfg.Simulation.Seed == 0 {
		output.Printf("  Seed:         clock\n")
	} else {
		output.Printf("  Seed:         %d\n", cfg.Simulation.Seed)
	}
	output.Printf("  Confidence:   %s\n", FormatPercent(cfg.Simulation.Confidence))
	output.Println()

	output.Bold("Sweep")
	output.Printf("  Strikes:      %s..%s step %s\n", FormatStrike(cfg.Sweep.StrikeFrom), FormatStrike(cfg.Sweep.StrikeTo), FormatStrike(cfg.Sweep.StrikeStep))
	output.Printf("  Put barrier:  %s\n", FormatStrike(cfg.Sweep.PutBarrier))
	output.Printf("  Call barrier: %s\n", FormatStrike(cfg.Sweep.CallBarrier))
	output.Println()

	output.Bold("Output")
	output.Printf("  Chart:        %s (%gx%g in)\n", cfg.Output.ChartPath, cfg.Output.ChartWidth, cfg.Output.ChartHeight)
	output.Printf("  Journal:      %s\n", cfg.Store.Path)
	output.Printf("  Log level:    %s\n", cfg.Logging.Level)
}

// output returns an Output honouring the configured colour preference.
func (a *App) output(cmd *cobra.Command) *Output {
	o := NewOutput(cmd)
	if a.Config != nil && !a.Config.Output.Color {
		o.SetColor(false)
	}
	return o
}
