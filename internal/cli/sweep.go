package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"
	"gopkg.in/yaml.v3"

	"barrier-pricer/internal/chart"
	"barrier-pricer/internal/logging"
	"barrier-pricer/internal/models"
	"barrier-pricer/internal/sweep"
)

type sweepFlags struct {
	from        float64
	to          float64
	step        float64
	putBarrier  float64
	callBarrier float64
	chartPath   string
	plot        bool
	csvPath     string
	yaml        bool
	save        bool
	trials      int
	steps       int
	seed        uint64
}

func newSweepCmd(app *App) *cobra.Command {
	var f sweepFlags

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Price put/call knock-in/knock-out panels across a strike grid",
		Long: `Price four panels (put in, put out, call in, call out) at every strike
of the grid and print one table per panel.

The chart is a 2x2 grid of price against strike. Its format follows the file
extension (.png, .jpg or .svg).`,
		Example: `  barrier sweep
  barrier sweep --from 80 --to 120 --step 2.5 --chart prices.png
  barrier sweep --csv prices.csv --save
  barrier sweep --yaml > run.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			cfg := app.Config

			sc := cfg.Sweep
			flags := cmd.Flags()
			if flags.Changed("from") {
				sc.StrikeFrom = f.from
			}
			if flags.Changed("to") {
				sc.StrikeTo = f.to
			}
			if flags.Changed("step") {
				sc.StrikeStep = f.step
			}
			if flags.Changed("put-barrier") {
				sc.PutBarrier = f.putBarrier
			}
			if flags.Changed("call-barrier") {
				sc.CallBarrier = f.callBarrier
			}

			if f.plot && f.chartPath == "" {
				f.chartPath = cfg.Output.ChartPath
			}

			strikes, err := sweep.Strikes(sc.StrikeFrom, sc.StrikeTo, sc.StrikeStep)
			if err != nil {
				return err
			}

			sim := cfg.SimulationParams()
			if flags.Changed("trials") {
				sim.Trials = f.trials
			}
			if flags.Changed("steps") {
				sim.Steps = f.steps
			}
			pc := cfg.PricerConfig()
			if flags.Changed("seed") {
				pc.Seed = f.seed
				pc.Seeded = true
			}
			var seed uint64
			if pc.Seeded {
				seed = pc.Seed
			}

			runner := sweep.NewRunner(app.Pricer(cmd, pc), logging.FromContext(cmd.Context()))
			run, err := runner.Run(cmd.Context(), sweep.Request{
				Market:     cfg.MarketParams(),
				Horizon:    cfg.Market.Horizon,
				Simulation: sim,
				Strikes:    strikes,
				Panels:     sweep.DefaultPanels(sc.PutBarrier, sc.CallBarrier),
				Seed:       seed,
			})
			if err != nil {
				return err
			}
			logger := logging.WithRunID(logging.FromContext(cmd.Context()), run.ID)

			if f.chartPath != "" {
				opts := chart.DefaultOptions()
				opts.Width = vg.Length(cfg.Output.ChartWidth) * vg.Inch
				opts.Height = vg.Length(cfg.Output.ChartHeight) * vg.Inch
				if err := chart.Save(f.chartPath, run, opts); err != nil {
					return err
				}
				logger.Info().Str("path", f.chartPath).Msg("Chart written")
			}

			if f.csvPath != "" {
				if err := writeCSVFile(f.csvPath, run); err != nil {
					return err
				}
				logger.Info().Str("path", f.csvPath).Msg("CSV written")
			}

			if f.save {
				if err := app.saveRun(cmd, run); err != nil {
					return err
				}
				logger.Info().Str("journal", cfg.Store.Path).Msg("Run saved")
			}

			switch {
			case output.IsJSON():
				return output.JSON(run)
			case f.yaml:
				return writeYAML(output.Writer(), run)
			}

			printSweep(output, run)
			if f.chartPath != "" {
				output.Success("✓ Chart written to %s", f.chartPath)
			}
			if f.csvPath != "" {
				output.Success("✓ CSV written to %s", f.csvPath)
			}
			if f.save {
				output.Success("✓ Run %s saved", run.ID)
				if run.Seed == 0 {
					output.Warning("Run was unseeded; set --seed to make saved runs reproducible")
				}
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&f.from, "from", 0, "first strike of the grid")
	cmd.Flags().Float64Var(&f.to, "to", 0, "last strike of the grid (inclusive)")
	cmd.Flags().Float64Var(&f.step, "step", 0, "strike increment")
	cmd.Flags().Float64Var(&f.putBarrier, "put-barrier", 0, "barrier of the put panels")
	cmd.Flags().Float64Var(&f.callBarrier, "call-barrier", 0, "barrier of the call panels")
	cmd.Flags().StringVar(&f.chartPath, "chart", "", "write the 2x2 price chart to this file")
	cmd.Flags().BoolVar(&f.plot, "plot", false, "write the chart to the configured chart_path")
	cmd.Flags().StringVar(&f.csvPath, "csv", "", "write every priced point to this CSV file")
	cmd.Flags().BoolVar(&f.yaml, "yaml", false, "print the run as YAML instead of tables")
	cmd.Flags().BoolVar(&f.save, "save", false, "record the run in the journal")
	cmd.Flags().IntVar(&f.trials, "trials", 0, "number of simulated paths per price")
	cmd.Flags().IntVar(&f.steps, "steps", 0, "time steps per path")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "random seed for a reproducible run")

	return cmd
}

func printSweep(output *Output, run *models.SweepRun) {
	output.Bold(chart.Suptitle)
	output.Dim("spot %s  rate %s  dividend %s  vol %s  T=%g  %d paths x %d steps",
		FormatStrike(run.Market.Spot), FormatPercent(run.Market.Rate), FormatPercent(run.Market.Dividend),
		FormatPercent(run.Market.Volatility), run.Horizon, run.Simulation.Trials, run.Simulation.Steps)

	for _, p := range run.Panels {
		output.Println()
		output.Info("%s", p.Title)
		table := NewTable(output, "K", p.Option.Label()+" Price", "Std Err")
		for _, pt := range p.Points {
			table.AddRow(FormatStrike(pt.Strike), FormatPrice(pt.Price), FormatPrice(pt.StdErr))
		}
		table.Render()
	}
	output.Println()
	output.Dim("Run %s in %s", run.ID, FormatDuration(run.Elapsed))
}

// writeCSV writes one row per priced point.
func writeCSV(w io.Writer, run *models.SweepRun) error {
	if err := gocsv.Marshal(run.Rows(), w); err != nil {
		return fmt.Errorf("encoding csv: %w", err)
	}
	return nil
}

func writeCSVFile(path string, run *models.SweepRun) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating csv file: %w", err)
	}
	if err := writeCSV(f, run); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}
