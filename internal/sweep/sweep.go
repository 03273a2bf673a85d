// Package sweep prices barrier options across a grid of strikes for a set of
// option/barrier configurations.
package sweep

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	apperrors "barrier-pricer/internal/errors"
	"barrier-pricer/internal/logging"
	"barrier-pricer/internal/models"
	"barrier-pricer/internal/pricing"
)

// Pricer values a single barrier contract.
type Pricer interface {
	Price(ctx context.Context, c models.BarrierContract, m models.Market, sim models.Simulation) (models.PriceResult, error)
}

// Panel is one option/barrier configuration of a sweep.
type Panel struct {
	Option      models.OptionType
	BarrierType models.BarrierType
	Barrier     float64
}

// DefaultPanels returns the four classic panels: put in/out against the put
// barrier, then call in/out against the call barrier.
func DefaultPanels(putBarrier, callBarrier float64) []Panel {
	return []Panel{
		{Option: models.OptionTypePut, BarrierType: models.BarrierTypeIn, Barrier: putBarrier},
		{Option: models.OptionTypePut, BarrierType: models.BarrierTypeOut, Barrier: putBarrier},
		{Option: models.OptionTypeCall, BarrierType: models.BarrierTypeIn, Barrier: callBarrier},
		{Option: models.OptionTypeCall, BarrierType: models.BarrierTypeOut, Barrier: callBarrier},
	}
}

// Title renders a panel heading such as
// "Put Option - down and in barrier (barrier = 90)".
func Title(p Panel, spot float64) string {
	dir := pricing.DirectionFor(spot, p.Barrier)
	kind := "in"
	if p.BarrierType == models.BarrierTypeOut {
		kind = "out"
	}
	direction := "up"
	if dir == models.BarrierDown {
		direction = "down"
	}
	return fmt.Sprintf("%s Option - %s and %s barrier (barrier = %g)", p.Option.Label(), direction, kind, p.Barrier)
}

// Strikes returns from, from+step, ... up to and including to.
func Strikes(from, to, step float64) ([]float64, error) {
	if !(step > 0) || math.IsInf(step, 0) {
		return nil, apperrors.NewValidationError("strike_step", step, "must be positive")
	}
	if !(from > 0) {
		return nil, apperrors.NewValidationError("strike_from", from, "must be positive")
	}
	if !(to >= from) || math.IsInf(to, 0) {
		return nil, apperrors.NewValidationError("strike_to", to, "must not be below strike_from")
	}

	n := int(math.Floor((to-from)/step+1e-9)) + 1
	strikes := make([]float64, n)
	for i := range strikes {
		strikes[i] = from + float64(i)*step
	}
	return strikes, nil
}

// Request describes one sweep.
type Request struct {
	Market     models.Market
	Horizon    float64
	Simulation models.Simulation
	Strikes    []float64
	Panels     []Panel
	// Seed is recorded on the run; zero when the pricer is unseeded.
	Seed uint64
}

// Runner executes sweeps against a Pricer.
type Runner struct {
	pricer Pricer
	logger zerolog.Logger
}

// NewRunner creates a new Runner.
func NewRunner(pricer Pricer, logger zerolog.Logger) *Runner {
	return &Runner{pricer: pricer, logger: logging.WithOperation(logger, "sweep")}
}

// Run prices every panel at every strike. Any pricing error aborts the whole
// sweep; no partial run is returned.
func (r *Runner) Run(ctx context.Context, req Request) (*models.SweepRun, error) {
	if len(req.Strikes) == 0 {
		return nil, apperrors.NewValidationError("strikes", 0, "at least one strike is required")
	}
	if len(req.Panels) == 0 {
		return nil, apperrors.NewValidationError("panels", 0, "at least one panel is required")
	}

	start := time.Now()
	run := &models.SweepRun{
		ID:         uuid.NewString(),
		CreatedAt:  start.UTC(),
		Market:     req.Market,
		Horizon:    req.Horizon,
		Simulation: req.Simulation,
		Seed:       req.Seed,
	}
	logger := logging.WithRunID(r.logger, run.ID)

	for _, p := range req.Panels {
		panel := models.SweepPanel{
			Title:       Title(p, req.Market.Spot),
			Option:      p.Option,
			BarrierType: p.BarrierType,
			Barrier:     p.Barrier,
			Direction:   pricing.DirectionFor(req.Market.Spot, p.Barrier),
			Points:      make([]models.SweepPoint, 0, len(req.Strikes)),
		}

		for _, k := range req.Strikes {
			c := models.BarrierContract{
				Strike:      k,
				Option:      p.Option,
				Barrier:     p.Barrier,
				BarrierType: p.BarrierType,
				Horizon:     req.Horizon,
			}
			res, err := r.pricer.Price(ctx, c, req.Market, req.Simulation)
			if err != nil {
				err = apperrors.Wrapf(err, "%s at strike %g", panel.Title, k)
				logging.LogSweep(logger, run, err)
				return nil, err
			}
			panel.Points = append(panel.Points, models.SweepPoint{Strike: k, Price: res.Price, StdErr: res.StdErr})
		}

		logger.Debug().Str("panel", panel.Title).Int("points", len(panel.Points)).Msg("Panel priced")
		run.Panels = append(run.Panels, panel)
	}

	run.Elapsed = time.Since(start)
	logging.LogSweep(logger, run, nil)
	return run, nil
}
