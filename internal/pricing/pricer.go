package pricing

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	apperrors "barrier-pricer/internal/errors"
	"barrier-pricer/internal/logging"
	"barrier-pricer/internal/models"
	"barrier-pricer/internal/performance"
)

const (
	// DefaultConfidence is the two-sided level of the reported interval.
	DefaultConfidence = 0.95

	// chunksPerWorker controls how finely trials are split across the pool.
	chunksPerWorker = 4

	// blockSize trials are summarised together; memory per call is bounded
	// by the number of blocks rather than the number of trials.
	blockSize = 1024

	// Below this many trials the pool costs more than it saves.
	minParallelTrials = 2 * blockSize
)

// PricerConfig configures a Pricer.
type PricerConfig struct {
	// Workers is the number of goroutines used for trials; <= 1 runs them
	// on the calling goroutine.
	Workers int
	// Seed fixes the random streams when Seeded is true. Otherwise every
	// call draws a new seed from the clock.
	Seed   uint64
	Seeded bool
	// Confidence is the two-sided level in (0, 1); zero means DefaultConfidence.
	Confidence float64
}

// Pricer values barrier options by Monte Carlo simulation.
// It holds no state between calls and is safe for concurrent use.
type Pricer struct {
	cfg    PricerConfig
	logger zerolog.Logger
}

// NewPricer creates a new Pricer.
func NewPricer(cfg PricerConfig, logger zerolog.Logger) *Pricer {
	if cfg.Confidence <= 0 || cfg.Confidence >= 1 {
		cfg.Confidence = DefaultConfidence
	}
	return &Pricer{cfg: cfg, logger: logging.WithOperation(logger, "price")}
}

// Price runs sim.Trials independent trials of the contract and returns the
// discounted mean payoff together with its standard error.
func (p *Pricer) Price(ctx context.Context, c models.BarrierContract, m models.Market, sim models.Simulation) (models.PriceResult, error) {
	if err := validate(c, m, sim); err != nil {
		return models.PriceResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return models.PriceResult{}, err
	}

	start := time.Now()
	seed := p.seed()
	dir := DirectionFor(m.Spot, c.Barrier)

	t := trialSet{contract: c, market: m, steps: sim.Steps, trials: sim.Trials, dir: dir, seed: seed}
	blocks := make([]blockStats, t.blocks())
	if p.cfg.Workers > 1 && sim.Trials >= minParallelTrials {
		if err := p.runParallel(ctx, t, blocks); err != nil {
			return models.PriceResult{}, err
		}
	} else {
		t.run(0, len(blocks), blocks)
	}
	total := mergeBlocks(blocks)

	discount := math.Exp(-m.Rate * c.Horizon)
	result := models.PriceResult{
		Price:      discount * total.mean,
		Confidence: p.cfg.Confidence,
		Trials:     sim.Trials,
		Steps:      sim.Steps,
		Direction:  dir,
		Seed:       seed,
	}
	if total.n > 1 {
		result.StdErr = discount * math.Sqrt(total.m2/float64(total.n-1)) / math.Sqrt(float64(total.n))
	}
	z := distuv.UnitNormal.Quantile(0.5 + p.cfg.Confidence/2)
	result.ConfidenceLow = math.Max(result.Price-z*result.StdErr, 0)
	result.ConfidenceHigh = result.Price + z*result.StdErr
	result.Elapsed = time.Since(start)

	logging.LogPricing(p.logger, c, result)
	return result, nil
}

func (p *Pricer) seed() uint64 {
	if p.cfg.Seeded {
		return p.cfg.Seed
	}
	return uint64(time.Now().UnixNano())
}

func (p *Pricer) runParallel(ctx context.Context, t trialSet, blocks []blockStats) error {
	pool := performance.NewWorkerPool(p.cfg.Workers)
	pool.Start()
	defer pool.Stop()

	var wg sync.WaitGroup
	var submitErr error
	for _, chunk := range performance.Chunks(len(blocks), pool.Workers()*chunksPerWorker) {
		lo, hi := chunk[0], chunk[1]
		wg.Add(1)
		if err := pool.Submit(ctx, func() {
			defer wg.Done()
			t.run(lo, hi, blocks)
		}); err != nil {
			wg.Done()
			submitErr = err
			break
		}
	}
	wg.Wait()

	stats := pool.Stats()
	p.logger.Debug().
		Int("workers", stats.Workers).
		Int("blocks", len(blocks)).
		Uint64("chunks", stats.TasksDone).
		Msg("Parallel trials finished")

	if submitErr != nil {
		return submitErr
	}
	return ctx.Err()
}

// blockStats summarises the payoffs of one block of trials: count, mean and
// sum of squared deviations from the mean.
type blockStats struct {
	n    int
	mean float64
	m2   float64
}

// mergeBlocks combines block summaries in index order, so the total does not
// depend on which goroutine produced each block.
func mergeBlocks(blocks []blockStats) blockStats {
	var total blockStats
	for _, b := range blocks {
		if b.n == 0 {
			continue
		}
		n := total.n + b.n
		delta := b.mean - total.mean
		total.mean += delta * float64(b.n) / float64(n)
		total.m2 += b.m2 + delta*delta*float64(total.n)*float64(b.n)/float64(n)
		total.n = n
	}
	return total
}

// trialSet is the shared read-only input of a pricing call.
type trialSet struct {
	contract models.BarrierContract
	market   models.Market
	steps    int
	trials   int
	dir      models.BarrierDirection
	seed     uint64
}

func (t trialSet) blocks() int {
	return (t.trials + blockSize - 1) / blockSize
}

// run evaluates blocks [lo, hi) and stores their summaries. Trial i always
// draws from the stream seeded by trialSeed(seed, i), so results do not
// depend on chunking.
func (t trialSet) run(lo, hi int, out []blockStats) {
	rng := rand.New(rand.NewSource(0))
	path := make([]float64, t.steps+1)
	payoffs := make([]float64, 0, blockSize)

	for b := lo; b < hi; b++ {
		first := b * blockSize
		last := first + blockSize
		if last > t.trials {
			last = t.trials
		}

		payoffs = payoffs[:0]
		for i := first; i < last; i++ {
			rng.Seed(trialSeed(t.seed, i))
			path = SimulatePath(rng, t.market, t.contract.Horizon, t.steps, path)
			payoffs = append(payoffs, Payoff(path, t.contract, t.dir))
		}

		mean := stat.Mean(payoffs, nil)
		var m2 float64
		if len(payoffs) > 1 {
			m2 = stat.Variance(payoffs, nil) * float64(len(payoffs)-1)
		}
		out[b] = blockStats{n: len(payoffs), mean: mean, m2: m2}
	}
}

// trialSeed mixes the call seed and trial index with splitmix64 so that
// neighbouring trials start from unrelated generator states.
func trialSeed(seed uint64, trial int) uint64 {
	z := seed + uint64(trial+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

func validate(c models.BarrierContract, m models.Market, sim models.Simulation) error {
	if err := c.Validate(); err != nil {
		return apperrors.Wrap(err, "contract")
	}
	if err := m.Validate(); err != nil {
		return apperrors.Wrap(err, "market")
	}
	if err := sim.Validate(); err != nil {
		return apperrors.Wrap(err, "simulation")
	}
	return nil
}

// Price is the plain function form of Pricer.Price: unseeded, single
// goroutine, returning only the present value.
func Price(c models.BarrierContract, m models.Market, sim models.Simulation) (float64, error) {
	res, err := NewPricer(PricerConfig{}, zerolog.Nop()).Price(context.Background(), c, m, sim)
	if err != nil {
		return 0, err
	}
	return res.Price, nil
}
