package models

import (
	"strings"

	apperrors "barrier-pricer/internal/errors"
)

// OptionType represents the exercise side of an option.
type OptionType string

const (
	OptionTypeCall OptionType = "CALL"
	OptionTypePut  OptionType = "PUT"
)

// ParseOptionType parses a user supplied option type.
func ParseOptionType(s string) (OptionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call", "c":
		return OptionTypeCall, nil
	case "put", "p":
		return OptionTypePut, nil
	}
	return "", apperrors.NewKindError("call, put", s, apperrors.ErrUnknownOptionType)
}

// Valid reports whether t is one of the enumerated option types.
func (t OptionType) Valid() bool {
	return t == OptionTypeCall || t == OptionTypePut
}

// Label returns the title-case name used in reports ("Call", "Put").
func (t OptionType) Label() string {
	switch t {
	case OptionTypeCall:
		return "Call"
	case OptionTypePut:
		return "Put"
	}
	return string(t)
}

// BarrierType is the activation policy of a barrier.
type BarrierType string

const (
	BarrierTypeIn  BarrierType = "IN"  // knock-in
	BarrierTypeOut BarrierType = "OUT" // knock-out
)

// ParseBarrierType parses a user supplied barrier type.
func ParseBarrierType(s string) (BarrierType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in", "knock-in", "knockin", "ki":
		return BarrierTypeIn, nil
	case "out", "knock-out", "knockout", "ko":
		return BarrierTypeOut, nil
	}
	return "", apperrors.NewKindError("in, out", s, apperrors.ErrUnknownBarrierType)
}

// Valid reports whether t is one of the enumerated barrier types.
func (t BarrierType) Valid() bool {
	return t == BarrierTypeIn || t == BarrierTypeOut
}

// BarrierDirection is the side from which the path must approach the barrier.
type BarrierDirection string

const (
	BarrierUp   BarrierDirection = "UP"
	BarrierDown BarrierDirection = "DOWN"
)

// BarrierContract holds the contract terms of a European barrier option.
type BarrierContract struct {
	Strike      float64     `json:"strike"`
	Option      OptionType  `json:"option"`
	Barrier     float64     `json:"barrier"`
	BarrierType BarrierType `json:"barrier_type"`
	Horizon     float64     `json:"horizon"` // years
}

// Validate checks the contract terms.
func (c BarrierContract) Validate() error {
	if !c.Option.Valid() {
		return apperrors.NewKindError("CALL, PUT", string(c.Option), apperrors.ErrUnknownOptionType)
	}
	if !c.BarrierType.Valid() {
		return apperrors.NewKindError("IN, OUT", string(c.BarrierType), apperrors.ErrUnknownBarrierType)
	}
	if err := positive("strike", c.Strike); err != nil {
		return err
	}
	if err := positive("barrier", c.Barrier); err != nil {
		return err
	}
	return positive("horizon", c.Horizon)
}

// Describe returns a short human readable name such as "down-and-out put".
func (c BarrierContract) Describe(dir BarrierDirection) string {
	return strings.ToLower(string(dir)) + "-and-" + strings.ToLower(string(c.BarrierType)) +
		" " + strings.ToLower(string(c.Option))
}
