package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/unitgate/internal/engine"
	"github.com/roach88/unitgate/internal/report"
	"github.com/roach88/unitgate/internal/unit"
)

// ErrRunNotFound is returned when a run ID is not stored.
var ErrRunNotFound = errors.New("run not found")

// RunInfo is the stored summary of a run.
type RunInfo struct {
	Seq     int64          `json:"seq"`
	ID      string         `json:"id"`
	Summary report.Summary `json:"summary"`
}

// ListRuns returns up to limit runs, most recent first. A limit of zero or
// less returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunInfo, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, id, passed, failed, skipped, errored
		FROM runs
		ORDER BY seq DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunInfo{}
	for rows.Next() {
		var ri RunInfo
		if err := rows.Scan(&ri.Seq, &ri.ID,
			&ri.Summary.Passed, &ri.Summary.Failed, &ri.Summary.Skipped, &ri.Summary.Errored); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, ri)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// LatestRunID returns the ID of the most recently written run.
// Returns ErrRunNotFound if the store is empty.
func (s *Store) LatestRunID(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM runs ORDER BY seq DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrRunNotFound
	}
	if err != nil {
		return "", fmt.Errorf("query latest run: %w", err)
	}
	return id, nil
}

// ReadReport rebuilds the report of a stored run, with units and outcomes
// in the order they were written.
// Returns an error wrapping ErrRunNotFound if runID is not stored.
func (s *Store) ReadReport(ctx context.Context, runID string) (*report.Report, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM runs WHERE id = ?`, runID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("read report %s: %w", runID, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", runID, err)
	}

	outcomes, err := s.readOutcomes(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", runID, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT identity, status, error
		FROM unit_results
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read report %s: query units: %w", runID, err)
	}
	defer rows.Close()

	r := &report.Report{RunID: runID, Units: []report.UnitReport{}}
	for rows.Next() {
		var u report.UnitReport
		var status string
		if err := rows.Scan(&u.Identity, &status, &u.Error); err != nil {
			return nil, fmt.Errorf("read report %s: scan unit: %w", runID, err)
		}
		u.Status = engine.Status(status)
		u.Outcomes = outcomes[u.Identity]
		r.Add(u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read report %s: iterate units: %w", runID, err)
	}
	return r, nil
}

// readOutcomes returns the outcomes of a run keyed by unit identity.
func (s *Store) readOutcomes(ctx context.Context, runID string) (map[string][]unit.Outcome, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT identity, seq, operation, file, line, function, passed, message
		FROM outcomes
		WHERE run_id = ?
		ORDER BY identity COLLATE BINARY ASC, position ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]unit.Outcome)
	for rows.Next() {
		var identity string
		var o unit.Outcome
		if err := rows.Scan(&identity, &o.Seq, &o.Operation,
			&o.Site.File, &o.Site.Line, &o.Site.Function, &o.Passed, &o.Message); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		out[identity] = append(out[identity], o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcomes: %w", err)
	}
	return out, nil
}

// Failures returns the failing outcomes recorded for identity across all
// runs, most recent run first.
func (s *Store) Failures(ctx context.Context, identity string) ([]unit.Outcome, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT o.seq, o.operation, o.file, o.line, o.function, o.passed, o.message
		FROM outcomes o
		JOIN runs r ON r.id = o.run_id
		WHERE o.identity = ? AND o.passed = 0
		ORDER BY r.seq DESC, o.position ASC
	`, identity)
	if err != nil {
		return nil, fmt.Errorf("query failures: %w", err)
	}
	defer rows.Close()

	failures := []unit.Outcome{}
	for rows.Next() {
		var o unit.Outcome
		if err := rows.Scan(&o.Seq, &o.Operation,
			&o.Site.File, &o.Site.Line, &o.Site.Function, &o.Passed, &o.Message); err != nil {
			return nil, fmt.Errorf("scan failure: %w", err)
		}
		failures = append(failures, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate failures: %w", err)
	}
	return failures, nil
}
