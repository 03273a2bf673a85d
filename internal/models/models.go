// Package models provides domain models for the barrier option pricer.
package models

import (
	"fmt"
	"math"
	"time"

	apperrors "barrier-pricer/internal/errors"
)

// Market holds the market state the underlying is simulated from.
type Market struct {
	Spot       float64 `json:"spot"`
	Rate       float64 `json:"rate"`
	Dividend   float64 `json:"dividend"`
	Volatility float64 `json:"volatility"`
}

// Validate checks the market parameters.
func (m Market) Validate() error {
	if err := positive("spot", m.Spot); err != nil {
		return err
	}
	if err := finite("rate", m.Rate); err != nil {
		return err
	}
	if err := finite("dividend", m.Dividend); err != nil {
		return err
	}
	if err := finite("volatility", m.Volatility); err != nil {
		return err
	}
	if m.Volatility < 0 {
		return apperrors.NewValidationError("volatility", m.Volatility, "must be non-negative")
	}
	return nil
}

// MaxSteps bounds the time steps of one path.
const MaxSteps = 1 << 24

// Simulation holds the Monte Carlo discretisation.
type Simulation struct {
	Steps  int `json:"steps"`
	Trials int `json:"trials"`
}

// Validate checks the simulation parameters.
func (s Simulation) Validate() error {
	if s.Steps <= 0 {
		return apperrors.NewValidationError("steps", s.Steps, "must be positive")
	}
	if s.Steps > MaxSteps {
		return apperrors.NewValidationError("steps", s.Steps, fmt.Sprintf("must not exceed %d", MaxSteps))
	}
	if s.Trials <= 0 {
		return apperrors.NewValidationError("trials", s.Trials, "must be positive")
	}
	return nil
}

// PriceResult is the outcome of a single pricing call.
type PriceResult struct {
	Price          float64          `json:"price"`
	StdErr         float64          `json:"std_err"`
	ConfidenceLow  float64          `json:"confidence_low"`
	ConfidenceHigh float64          `json:"confidence_high"`
	Confidence     float64          `json:"confidence"`
	Trials         int              `json:"trials"`
	Steps          int              `json:"steps"`
	Direction      BarrierDirection `json:"direction"`
	Seed           uint64           `json:"seed"`
	Elapsed        time.Duration    `json:"elapsed"`
}

func positive(field string, v float64) error {
	if err := finite(field, v); err != nil {
		return err
	}
	if v <= 0 {
		return apperrors.NewValidationError(field, v, "must be positive")
	}
	return nil
}

func finite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return apperrors.NewValidationError(field, v, "must be a finite number")
	}
	return nil
}
