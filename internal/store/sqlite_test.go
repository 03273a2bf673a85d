package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "barrier-pricer/internal/errors"
	"barrier-pricer/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "journal", "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testRun(created time.Time) *models.SweepRun {
	return &models.SweepRun{
		ID:         uuid.NewString(),
		CreatedAt:  created.UTC(),
		Market:     models.Market{Spot: 100, Rate: 0.05, Dividend: 0.01, Volatility: 0.3},
		Horizon:    1,
		Simulation: models.Simulation{Steps: 365, Trials: 200},
		Seed:       1<<63 + 5,
		Elapsed:    1500 * time.Millisecond,
		Panels: []models.SweepPanel{
			{
				Title:       "Put Option - down and out barrier (barrier = 90)",
				Option:      models.OptionTypePut,
				BarrierType: models.BarrierTypeOut,
				Barrier:     90,
				Direction:   models.BarrierDown,
				Points: []models.SweepPoint{
					{Strike: 95, Price: 0.61, StdErr: 0.08},
					{Strike: 100, Price: 1.02, StdErr: 0.11},
				},
			},
			{
				Title:       "Call Option - up and in barrier (barrier = 110)",
				Option:      models.OptionTypeCall,
				BarrierType: models.BarrierTypeIn,
				Barrier:     110,
				Direction:   models.BarrierUp,
				Points: []models.SweepPoint{
					{Strike: 95, Price: 15.3, StdErr: 1.1},
					{Strike: 100, Price: 12.7, StdErr: 1.0},
				},
			},
		},
	}
}

func TestSaveAndGetRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	run := testRun(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))

	require.NoError(t, s.SaveRun(ctx, run))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.True(t, run.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, run.Market, got.Market)
	assert.Equal(t, run.Simulation, got.Simulation)
	assert.Equal(t, run.Seed, got.Seed)
	assert.Equal(t, run.Elapsed, got.Elapsed)
	assert.Equal(t, run.Panels, got.Panels)
}

func TestGetRunUnknownID(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetRun(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrDataNotFound)

	var se *apperrors.StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "missing", se.RunID)
}

func TestSaveRunRejectsDuplicateAndEmptyID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	run := testRun(time.Now())

	require.NoError(t, s.SaveRun(ctx, run))
	assert.Error(t, s.SaveRun(ctx, run))

	assert.ErrorIs(t, s.SaveRun(ctx, &models.SweepRun{}), apperrors.ErrInvalidParameter)
}

func TestListRunsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	var ids []string
	for i := 0; i < 3; i++ {
		run := testRun(base.Add(time.Duration(i) * time.Hour))
		require.NoError(t, s.SaveRun(ctx, run))
		ids = append(ids, run.ID)
	}

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Equal(t, ids[0], runs[2].ID)
	assert.Equal(t, 2, runs[0].Panels)
	assert.Equal(t, 4, runs[0].Points)
	assert.Equal(t, 200, runs[0].Trials)

	runs, err = s.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestListRunsEmpty(t *testing.T) {
	runs, err := newTestStore(t).ListRuns(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
