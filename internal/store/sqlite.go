// Package store provides data persistence implementations.
package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "barrier-pricer/internal/errors"
	"barrier-pricer/internal/models"
)

// SQLiteStore implements RunStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

var _ RunStore = (*SQLiteStore)(nil)

// NewSQLiteStore opens (and if needed creates) the journal at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, apperrors.NewStoreError("open", "", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, apperrors.NewStoreError("open", "", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, apperrors.NewStoreError("init schema", "", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- One row per sweep
	CREATE TABLE IF NOT EXISTS sweep_runs (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		spot REAL NOT NULL,
		rate REAL NOT NULL,
		dividend REAL NOT NULL,
		volatility REAL NOT NULL,
		horizon REAL NOT NULL,
		steps INTEGER NOT NULL,
		trials INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		elapsed_ns INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sweep_runs_created ON sweep_runs(created_at);

	-- Panels keep their position so runs reload in order
	CREATE TABLE IF NOT EXISTS sweep_panels (
		run_id TEXT NOT NULL REFERENCES sweep_runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		title TEXT NOT NULL,
		option_type TEXT NOT NULL,
		barrier_type TEXT NOT NULL,
		barrier REAL NOT NULL,
		direction TEXT NOT NULL,
		PRIMARY KEY (run_id, position)
	);

	CREATE TABLE IF NOT EXISTS sweep_points (
		run_id TEXT NOT NULL,
		panel INTEGER NOT NULL,
		strike REAL NOT NULL,
		price REAL NOT NULL,
		std_err REAL NOT NULL,
		FOREIGN KEY (run_id, panel) REFERENCES sweep_panels(run_id, position) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_sweep_points_run ON sweep_points(run_id, panel, strike);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun records run and its points in a single transaction.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *models.SweepRun) error {
	if run == nil || run.ID == "" {
		return apperrors.NewStoreError("save run", "", apperrors.NewValidationError("id", "", "run id is required"))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewStoreError("begin", run.ID, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sweep_runs (id, created_at, spot, rate, dividend, volatility, horizon, steps, trials, seed, elapsed_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.CreatedAt.UTC(), run.Market.Spot, run.Market.Rate, run.Market.Dividend, run.Market.Volatility,
		run.Horizon, run.Simulation.Steps, run.Simulation.Trials, int64(run.Seed), int64(run.Elapsed))
	if err != nil {
		return apperrors.NewStoreError("insert run", run.ID, err)
	}

	panelStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sweep_panels (run_id, position, title, option_type, barrier_type, barrier, direction)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return apperrors.NewStoreError("prepare panels", run.ID, err)
	}
	defer panelStmt.Close()

	pointStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sweep_points (run_id, panel, strike, price, std_err)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return apperrors.NewStoreError("prepare points", run.ID, err)
	}
	defer pointStmt.Close()

	for i, p := range run.Panels {
		if _, err := panelStmt.ExecContext(ctx, run.ID, i, p.Title, string(p.Option), string(p.BarrierType), p.Barrier, string(p.Direction)); err != nil {
			return apperrors.NewStoreError("insert panel", run.ID, err)
		}
		for _, pt := range p.Points {
			if _, err := pointStmt.ExecContext(ctx, run.ID, i, pt.Strike, pt.Price, pt.StdErr); err != nil {
				return apperrors.NewStoreError("insert point", run.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewStoreError("commit", run.ID, err)
	}
	return nil
}

// GetRun loads a run with its panels and points.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*models.SweepRun, error) {
	var (
		run     models.SweepRun
		seed    int64
		elapsed int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, spot, rate, dividend, volatility, horizon, steps, trials, seed, elapsed_ns
		FROM sweep_runs WHERE id = ?
	`, id).Scan(&run.ID, &run.CreatedAt, &run.Market.Spot, &run.Market.Rate, &run.Market.Dividend, &run.Market.Volatility,
		&run.Horizon, &run.Simulation.Steps, &run.Simulation.Trials, &seed, &elapsed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewStoreError("get run", id, apperrors.ErrDataNotFound)
	}
	if err != nil {
		return nil, apperrors.NewStoreError("get run", id, err)
	}
	run.Seed = uint64(seed)
	run.Elapsed = time.Duration(elapsed)

	if err := s.loadPanels(ctx, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

func (s *SQLiteStore) loadPanels(ctx context.Context, run *models.SweepRun) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT title, option_type, barrier_type, barrier, direction
		FROM sweep_panels WHERE run_id = ? ORDER BY position ASC
	`, run.ID)
	if err != nil {
		return apperrors.NewStoreError("query panels", run.ID, err)
	}
	for rows.Next() {
		var p models.SweepPanel
		var opt, bt, dir string
		if err := rows.Scan(&p.Title, &opt, &bt, &p.Barrier, &dir); err != nil {
			rows.Close()
			return apperrors.NewStoreError("scan panel", run.ID, err)
		}
		p.Option = models.OptionType(opt)
		p.BarrierType = models.BarrierType(bt)
		p.Direction = models.BarrierDirection(dir)
		run.Panels = append(run.Panels, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return apperrors.NewStoreError("iterate panels", run.ID, err)
	}

	points, err := s.db.QueryContext(ctx, `
		SELECT panel, strike, price, std_err
		FROM sweep_points WHERE run_id = ? ORDER BY panel ASC, strike ASC
	`, run.ID)
	if err != nil {
		return apperrors.NewStoreError("query points", run.ID, err)
	}
	defer points.Close()

	for points.Next() {
		var idx int
		var pt models.SweepPoint
		if err := points.Scan(&idx, &pt.Strike, &pt.Price, &pt.StdErr); err != nil {
			return apperrors.NewStoreError("scan point", run.ID, err)
		}
		if idx < 0 || idx >= len(run.Panels) {
			continue
		}
		run.Panels[idx].Points = append(run.Panels[idx].Points, pt)
	}
	if err := points.Err(); err != nil {
		return apperrors.NewStoreError("iterate points", run.ID, err)
	}
	return nil
}

// ListRuns returns summaries of the most recent runs, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]models.RunSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.created_at, r.spot, r.trials, r.steps,
			(SELECT COUNT(*) FROM sweep_panels p WHERE p.run_id = r.id),
			(SELECT COUNT(*) FROM sweep_points q WHERE q.run_id = r.id)
		FROM sweep_runs r
		ORDER BY r.created_at DESC, r.id ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, apperrors.NewStoreError("list runs", "", err)
	}
	defer rows.Close()

	var runs []models.RunSummary
	for rows.Next() {
		var r models.RunSummary
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Spot, &r.Trials, &r.Steps, &r.Panels, &r.Points); err != nil {
			return nil, apperrors.NewStoreError("scan run", "", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("iterate runs", "", err)
	}
	return runs, nil
}
