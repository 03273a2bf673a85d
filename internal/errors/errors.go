// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrInvalidParameter   = errors.New("invalid parameter")
	ErrUnknownOptionType  = errors.New("unknown option type")
	ErrUnknownBarrierType = errors.New("unknown barrier type")
	ErrConfigInvalid      = errors.New("invalid configuration")
	ErrDataNotFound       = errors.New("data not found")
	ErrDatabaseError      = errors.New("database error")
)

// ValidationError represents a rejected pricing input.
// It always unwraps to ErrInvalidParameter.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidParameter
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// KindError reports an option or barrier kind outside the enumerated set.
type KindError struct {
	Kind  string
	Value string
	Err   error
}

func (e *KindError) Error() string {
	return fmt.Sprintf("%v %q: expected one of %s", e.Err, e.Value, e.Kind)
}

func (e *KindError) Unwrap() error {
	return e.Err
}

// NewKindError creates a new KindError.
func NewKindError(kind, value string, err error) *KindError {
	return &KindError{
		Kind:  kind,
		Value: value,
		Err:   err,
	}
}

// StoreError represents a failure in the run journal.
type StoreError struct {
	Operation string
	RunID     string
	Err       error
}

func (e *StoreError) Error() string {
	if e.RunID != "" {
		return fmt.Sprintf("store error [%s] run %s: %v", e.Operation, e.RunID, e.Err)
	}
	return fmt.Sprintf("store error [%s]: %v", e.Operation, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is makes every StoreError match ErrDatabaseError.
func (e *StoreError) Is(target error) bool {
	return target == ErrDatabaseError
}

// NewStoreError creates a new StoreError.
func NewStoreError(operation, runID string, err error) *StoreError {
	return &StoreError{
		Operation: operation,
		RunID:     runID,
		Err:       err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
