package pricing

import (
	"fmt"
	"math"

	"barrier-pricer/internal/models"
)

// DirectionFor derives the crossing direction from where the spot starts.
// A spot sitting exactly on the barrier is treated as an up barrier, which
// makes step 0 an immediate touch.
func DirectionFor(spot, barrier float64) models.BarrierDirection {
	if spot <= barrier {
		return models.BarrierUp
	}
	return models.BarrierDown
}

// Touched scans path in order and reports whether it reaches the barrier:
// any value >= barrier for an up barrier, any value <= barrier for a down one.
func Touched(path []float64, barrier float64, dir models.BarrierDirection) bool {
	switch dir {
	case models.BarrierUp:
		for _, s := range path {
			if s >= barrier {
				return true
			}
		}
	case models.BarrierDown:
		for _, s := range path {
			if s <= barrier {
				return true
			}
		}
	}
	return false
}

// Active applies the activation policy: a knock-in is live only if touched,
// a knock-out only if never touched.
func Active(touched bool, bt models.BarrierType) bool {
	return touched == (bt == models.BarrierTypeIn)
}

// Intrinsic returns the exercise value at the terminal price.
// It panics on an option type outside CALL/PUT; callers validate first.
func Intrinsic(opt models.OptionType, strike, terminal float64) float64 {
	switch opt {
	case models.OptionTypeCall:
		return math.Max(terminal-strike, 0)
	case models.OptionTypePut:
		return math.Max(strike-terminal, 0)
	}
	panic(fmt.Sprintf("pricing: unknown option type %q", opt))
}

// Payoff evaluates one simulated path against the contract.
func Payoff(path []float64, c models.BarrierContract, dir models.BarrierDirection) float64 {
	if !Active(Touched(path, c.Barrier, dir), c.BarrierType) {
		return 0
	}
	return Intrinsic(c.Option, c.Strike, path[len(path)-1])
}
