package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"barrier-pricer/internal/models"
)

// priceFlags holds per-invocation overrides of the configured defaults.
type priceFlags struct {
	option      string
	barrierType string
	strike      float64
	barrier     float64
	spot        float64
	rate        float64
	dividend    float64
	volatility  float64
	horizon     float64
	steps       int
	trials      int
	workers     int
	seed        uint64
}

// priceReport is the JSON shape of the price command.
type priceReport struct {
	Contract    models.BarrierContract `json:"contract"`
	Market      models.Market          `json:"market"`
	Description string                 `json:"description"`
	Result      models.PriceResult     `json:"result"`
}

func newPriceCmd(app *App) *cobra.Command {
	var f priceFlags

	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price a single barrier option",
		Long: `Price one European barrier option by Monte Carlo simulation.

Market and simulation parameters default to the configuration file; any flag
given on the command line overrides it for this run.`,
		Example: `  barrier price --option put --barrier-type out --strike 100 --barrier 90
  barrier price --option call --barrier-type in --strike 95 --barrier 110 --trials 100000 --seed 7`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)

			opt, err := models.ParseOptionType(f.option)
			if err != nil {
				return err
			}
			bt, err := models.ParseBarrierType(f.barrierType)
			if err != nil {
				return err
			}

			cfg := app.Config
			market := cfg.MarketParams()
			horizon := cfg.Market.Horizon
			sim := cfg.SimulationParams()
			pc := cfg.PricerConfig()

			flags := cmd.Flags()
			if flags.Changed("spot") {
				market.Spot = f.spot
			}
			if flags.Changed("rate") {
				market.Rate = f.rate
			}
			if flags.Changed("dividend") {
				market.Dividend = f.dividend
			}
			if flags.Changed("volatility") {
				market.Volatility = f.volatility
			}
			if flags.Changed("horizon") {
				horizon = f.horizon
			}
			if flags.Changed("steps") {
				sim.Steps = f.steps
			}
			if flags.Changed("trials") {
				sim.Trials = f.trials
			}
			if flags.Changed("workers") {
				pc.Workers = f.workers
			}
			if flags.Changed("seed") {
				pc.Seed = f.seed
				pc.Seeded = true
			}

			contract := models.BarrierContract{
				Strike:      f.strike,
				Option:      opt,
				Barrier:     f.barrier,
				BarrierType: bt,
				Horizon:     horizon,
			}

			res, err := app.Pricer(cmd, pc).Price(cmd.Context(), contract, market, sim)
			if err != nil {
				return err
			}

			report := priceReport{
				Contract:    contract,
				Market:      market,
				Description: contract.Describe(res.Direction),
				Result:      res,
			}
			if output.IsJSON() {
				return output.JSON(report)
			}
			printPrice(output, report)
			return nil
		},
	}

	cmd.Flags().StringVar(&f.option, "option", "", "option type: call or put (required)")
	cmd.Flags().StringVar(&f.barrierType, "barrier-type", "", "barrier type: in or out (required)")
	cmd.Flags().Float64Var(&f.strike, "strike", 0, "strike price (required)")
	cmd.Flags().Float64Var(&f.barrier, "barrier", 0, "barrier level (required)")
	cmd.Flags().Float64Var(&f.spot, "spot", 0, "spot price")
	cmd.Flags().Float64Var(&f.rate, "rate", 0, "continuously compounded risk-free rate")
	cmd.Flags().Float64Var(&f.dividend, "dividend", 0, "continuous dividend yield")
	cmd.Flags().Float64Var(&f.volatility, "volatility", 0, "annualised volatility")
	cmd.Flags().Float64Var(&f.horizon, "horizon", 0, "time to maturity in years")
	cmd.Flags().IntVar(&f.steps, "steps", 0, "time steps per path")
	cmd.Flags().IntVar(&f.trials, "trials", 0, "number of simulated paths")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "parallel workers (0 or 1 runs serially)")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "random seed for a reproducible run")
	for _, name := range []string{"option", "barrier-type", "strike", "barrier"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func printPrice(output *Output, r priceReport) {
	res := r.Result
	lines := []string{
		fmt.Sprintf("Price:       %s", output.Green(FormatPrice(res.Price))),
		fmt.Sprintf("Std error:   %s", FormatPrice(res.StdErr)),
		fmt.Sprintf("%-12s %s", FormatPercent(res.Confidence)+" CI:", FormatInterval(res.ConfidenceLow, res.ConfidenceHigh)),
		"",
		fmt.Sprintf("Strike:      %s", FormatStrike(r.Contract.Strike)),
		fmt.Sprintf("Barrier:     %s (%s)", FormatStrike(r.Contract.Barrier), strings.ToLower(string(res.Direction))),
		fmt.Sprintf("Spot:        %s", FormatStrike(r.Market.Spot)),
		fmt.Sprintf("Paths:       %d x %d steps", res.Trials, res.Steps),
		fmt.Sprintf("Seed:        %d", res.Seed),
		fmt.Sprintf("Elapsed:     %s", FormatDuration(res.Elapsed)),
	}
	output.Box(r.Description, lines)
}
