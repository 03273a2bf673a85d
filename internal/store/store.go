// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"barrier-pricer/internal/models"
)

// DefaultListLimit bounds ListRuns when the caller passes no limit.
const DefaultListLimit = 20

// RunStore defines the interface for the sweep run journal.
type RunStore interface {
	// SaveRun records a completed sweep with all of its panel points.
	SaveRun(ctx context.Context, run *models.SweepRun) error
	// GetRun loads a run by id. Unknown ids yield ErrDataNotFound.
	GetRun(ctx context.Context, id string) (*models.SweepRun, error)
	// ListRuns returns the most recent runs first.
	ListRuns(ctx context.Context, limit int) ([]models.RunSummary, error)

	// Lifecycle
	Close() error
}
