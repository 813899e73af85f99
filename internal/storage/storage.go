// Package storage persists scan history in a local SQLite database so
// past runs can be listed and compared. The engine itself never touches
// storage; the CLI saves a run's aggregated records after reporting.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/devscan/devscan/internal/engine"
	"github.com/devscan/devscan/internal/practice"
)

// Store is the scan-history database.
type Store struct {
	db *sql.DB
}

// RunSummary is one row of `devscan history`.
type RunSummary struct {
	ID          string
	Root        string
	StartedAt   time.Time
	CompletedAt time.Time
	Components  int
	Practicing  int
	Violations  int
	Unknown     int
}

// Open creates or opens the history database at path.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging history database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun persists a run and its aggregated records in one transaction.
func (s *Store) SaveRun(ctx context.Context, root string, result *engine.RunResult) error {
	records := result.Aggregate()

	var practicing, violations, unknown int
	for _, rec := range records {
		switch rec.Result {
		case practice.ResultPracticing:
			practicing++
		case practice.ResultNotPracticing:
			violations++
		default:
			unknown++
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, root, started_at, completed_at, components, practicing, violations, unknown)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		result.ID, root, result.StartedAt, result.CompletedAt,
		len(result.Components), practicing, violations, unknown)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	for _, rec := range records {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO records (run_id, practice_id, component, language, result, is_on, impact, details)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			result.ID, rec.Practice.ID, rec.Component.ID(), string(rec.Component.Language),
			string(rec.Result), rec.IsOn, rec.Impact.String(), rec.Details)
		if err != nil {
			return fmt.Errorf("inserting record %s: %w", rec.Practice.ID, err)
		}
	}

	return tx.Commit()
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, root, started_at, completed_at, components, practicing, violations, unknown
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.Root, &r.StartedAt, &r.CompletedAt,
			&r.Components, &r.Practicing, &r.Violations, &r.Unknown); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// StoredRecord is one persisted evaluation record.
type StoredRecord struct {
	PracticeID string
	Component  string
	Language   string
	Result     string
	IsOn       bool
	Impact     string
	Details    string
}

// RunRecords returns the records persisted for one run. The ID may be
// a unique prefix, as printed by `devscan history`.
func (s *Store) RunRecords(ctx context.Context, runID string) ([]StoredRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT practice_id, component, language, result, is_on, impact, details
		FROM records WHERE run_id LIKE ? || '%' ORDER BY component, practice_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var out []StoredRecord
	for rows.Next() {
		var r StoredRecord
		if err := rows.Scan(&r.PracticeID, &r.Component, &r.Language,
			&r.Result, &r.IsOn, &r.Impact, &r.Details); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
