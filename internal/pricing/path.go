// Package pricing values barrier options by Monte Carlo simulation of
// geometric Brownian motion paths.
package pricing

import (
	"math"

	"barrier-pricer/internal/models"
)

// NormalSource yields independent standard normal draws.
// *rand.Rand from golang.org/x/exp/rand satisfies it.
type NormalSource interface {
	NormFloat64() float64
}

// SimulatePath generates one GBM price path of steps+1 points starting at
// m.Spot. dst is reused when it has enough capacity.
//
// Each step advances the previous price by
//
//	exp((r - q - σ²/2)·dt + σ·√dt·z),  dt = horizon/steps
//
// with a fresh z drawn from rng.
func SimulatePath(rng NormalSource, m models.Market, horizon float64, steps int, dst []float64) []float64 {
	if cap(dst) < steps+1 {
		dst = make([]float64, steps+1)
	}
	dst = dst[:steps+1]

	dt := horizon / float64(steps)
	drift := (m.Rate - m.Dividend - 0.5*m.Volatility*m.Volatility) * dt
	shock := m.Volatility * math.Sqrt(dt)

	dst[0] = m.Spot
	for i := 1; i <= steps; i++ {
		dst[i] = dst[i-1] * math.Exp(drift+shock*rng.NormFloat64())
	}
	return dst
}
