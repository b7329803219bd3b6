package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/unitgate/internal/engine"
	"github.com/roach88/unitgate/internal/report"
	"github.com/roach88/unitgate/internal/unit"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestReport builds a report with one unit of each status.
func createTestReport(runID string) *report.Report {
	site := func(line int) unit.CallSite {
		return unit.CallSite{File: "/src/cart_test.go", Line: line, Function: "cart.Test"}
	}
	r := &report.Report{RunID: runID, Units: []report.UnitReport{}}
	r.Add(report.UnitReport{
		Identity: "cart",
		Status:   engine.StatusFailed,
		Outcomes: []unit.Outcome{
			{Operation: "Add", Site: site(10), Passed: true, Seq: 1},
			{Operation: "Add", Site: site(11), Passed: false, Message: "1 != 2", Seq: 3},
			{Operation: "Remove", Site: site(20), Passed: true, Seq: 2},
		},
	})
	r.Add(report.UnitReport{Identity: "checkout", Status: engine.StatusSkipped})
	r.Add(report.UnitReport{
		Identity: "broken",
		Status:   engine.StatusErrored,
		Error:    "LIFECYCLE_FAILED: broken.BeforeAll: setup failed",
	})
	r.Add(report.UnitReport{
		Identity: "empty",
		Status:   engine.StatusPassed,
	})
	return r
}
