package selftest

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/roach88/unitgate/internal/engine"
	"github.com/roach88/unitgate/internal/plan"
	"github.com/roach88/unitgate/internal/report"
	"github.com/roach88/unitgate/internal/store"
	"github.com/roach88/unitgate/internal/unit"
)

// Suite returns fresh instances of every selftest unit.
func Suite() []unit.Unit {
	return []unit.Unit{
		&RunIDTest{},
		&PlanTest{},
		&ReportTest{},
		&StoreTest{},
	}
}

// RunIDTest checks that generated run IDs sort by creation time.
type RunIDTest struct {
	unit.Base
}

func (t *RunIDTest) Ordered() error {
	gen := engine.UUIDv7Generator{}
	first := gen.Generate()
	t.Sleep(2 * time.Millisecond)
	second := gen.Generate()

	t.Assert(first < second, "run IDs sort by creation time")
	t.Pattern(`^[0-9a-f]{8}-[0-9a-f]{4}-7[0-9a-f]{3}-[0-9a-f]{4}-[0-9a-f]{12}$`, first, "UUIDv7 form")
	return nil
}

// PlanTest checks that YAML and CUE plans decode to the same plan.
type PlanTest struct {
	unit.Base
}

const (
	yamlPlan = "name: smoke\nunits: [a, b]\ncheck_required: false\nformat: json\n"
	cuePlan  = `name: "smoke", units: ["a", "b"], check_required: false, format: "json"`
)

func (t *PlanTest) Formats() error {
	fromYAML, err := plan.ParseYAML("smoke.yaml", []byte(yamlPlan))
	if err != nil {
		return err
	}
	fromCUE, err := plan.ParseCUE("smoke.cue", []byte(cuePlan))
	if err != nil {
		return err
	}

	t.Equal(fromYAML, fromCUE, "YAML and CUE agree")
	t.Len(2, fromYAML.Units, "")
	t.NotNil(fromYAML.CheckRequired, "override is set")
	return nil
}

func (t *PlanTest) UnknownField() error {
	return t.AssertError(unit.KindOf[*plan.LoadError](), func() error {
		_, err := plan.ParseYAML("typo.yaml", []byte("name: x\nunitz: [a]\n"))
		return err
	}, "unknown fields are rejected")
}

// ReportTest checks the statuses a run reports. A gated unit must be
// reported as skipped, never as failed.
type ReportTest struct {
	unit.Base
	rep *report.Report
}

func (t *ReportTest) Requirements() []unit.Requirement {
	return []unit.Requirement{unit.Require[RunIDTest]()}
}

func (t *ReportTest) BeforeAll() error {
	rep, err := sampleReport(context.Background(), "selftest-report")
	if err != nil {
		return err
	}
	t.rep = rep
	return nil
}

func (t *ReportTest) Statuses() error {
	t.Equal(report.Summary{Passed: 1, Failed: 1, Skipped: 1}, t.rep.Summary, "")
	gated, ok := t.rep.Unit("gated")
	t.Assert(ok, "gated unit reported")
	t.Equal(engine.StatusSkipped, gated.Status, "skipped, not failed")
	return nil
}

func (t *ReportTest) JSON() error {
	data, err := report.Encode(t.rep)
	if err != nil {
		return err
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	t.HasKeys(doc, []any{"run_id", "units", "summary"}, "")
	t.Contains(map[string]any{"run_id": "selftest-report"}, doc, false, "")
	return nil
}

// StoreTest checks that reports survive a round trip through the history
// database.
type StoreTest struct {
	unit.Base
	dir string
	st  *store.Store
}

func (t *StoreTest) Requirements() []unit.Requirement {
	return []unit.Requirement{unit.RequireOK[ReportTest]()}
}

func (t *StoreTest) BeforeAll() error {
	dir, err := os.MkdirTemp("", "unitgate-selftest-")
	if err != nil {
		return err
	}
	st, err := store.Open(filepath.Join(dir, "history.db"))
	if err != nil {
		os.RemoveAll(dir)
		return err
	}
	t.dir, t.st = dir, st
	return nil
}

func (t *StoreTest) AfterAll() error {
	return errors.Join(t.st.Close(), os.RemoveAll(t.dir))
}

func (t *StoreTest) RoundTrip() error {
	ctx := context.Background()
	want, err := sampleReport(ctx, "selftest-store")
	if err != nil {
		return err
	}

	inserted, err := t.st.WriteReport(ctx, want)
	if err != nil {
		return err
	}
	t.Truthy(inserted, "first write inserts")

	inserted, err = t.st.WriteReport(ctx, want)
	if err != nil {
		return err
	}
	t.Falsy(inserted, "second write is a no-op")

	got, err := t.st.ReadReport(ctx, want.RunID)
	if err != nil {
		return err
	}
	t.Equal(want, got, "report read back unchanged")
	return nil
}

func (t *StoreTest) MissingRun() error {
	return t.AssertError(unit.KindIs(store.ErrRunNotFound), func() error {
		_, err := t.st.ReadReport(context.Background(), "missing")
		return err
	}, "")
}
