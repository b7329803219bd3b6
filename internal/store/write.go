package store

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/unitgate/internal/report"
)

// WriteReport stores a run report in one transaction.
// Returns inserted=false without writing anything if the run ID is
// already stored.
func (s *Store) WriteReport(ctx context.Context, r *report.Report) (inserted bool, err error) {
	if r.RunID == "" {
		return false, fmt.Errorf("write report: empty run ID")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("write report: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	sum := r.Summary
	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, passed, failed, skipped, errored)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, r.RunID, sum.Passed, sum.Failed, sum.Skipped, sum.Errored)
	if err != nil {
		return false, fmt.Errorf("write report: insert run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("write report: rows affected: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	for i, u := range r.Units {
		if err := writeUnit(ctx, tx, r.RunID, i, u); err != nil {
			return false, fmt.Errorf("write report: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("write report: commit: %w", err)
	}
	return true, nil
}

func writeUnit(ctx context.Context, tx *sql.Tx, runID string, position int, u report.UnitReport) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO unit_results (run_id, position, identity, status, error)
		VALUES (?, ?, ?, ?, ?)
	`, runID, position, u.Identity, string(u.Status), norm.NFC.String(u.Error))
	if err != nil {
		return fmt.Errorf("insert unit %s: %w", u.Identity, err)
	}

	for i, o := range u.Outcomes {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO outcomes
			(id, run_id, identity, seq, position, operation, file, line, function, passed, message)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			OutcomeID(runID, u.Identity, o.Seq),
			runID,
			u.Identity,
			o.Seq,
			i,
			o.Operation,
			o.Site.File,
			o.Site.Line,
			o.Site.Function,
			o.Passed,
			norm.NFC.String(o.Message),
		)
		if err != nil {
			return fmt.Errorf("insert outcome %s#%d: %w", u.Identity, o.Seq, err)
		}
	}
	return nil
}
