package report

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/unitgate/internal/engine"
	"github.com/roach88/unitgate/internal/unit"
)

type fixture struct {
	unit.Base
	id       string
	ops      []unit.Operation
	reqs     []unit.Requirement
	setupErr error
}

func (f *fixture) UnitID() string                   { return f.id }
func (f *fixture) Operations() []unit.Operation     { return f.ops }
func (f *fixture) Requirements() []unit.Requirement { return f.reqs }
func (f *fixture) BeforeAll() error                 { return f.setupErr }

// record adds an operation recording one outcome at a fixed site.
func (f *fixture) record(op string, line int, passed bool, msg string) *fixture {
	site := unit.CallSite{File: "/src/cart_test.go", Line: line, Function: "cart." + op}
	f.ops = append(f.ops, unit.Operation{Name: op, Fn: func() error {
		f.Recorder().RecordAt(site, passed, msg)
		return nil
	}})
	return f
}

// sampleRun produces one unit of each status.
func sampleRun(t *testing.T) *engine.RunReport {
	t.Helper()

	cart := (&fixture{id: "cart"}).
		record("Add", 10, true, "").
		record("Remove", 20, false, "1 != 2")
	checkout := &fixture{id: "checkout", reqs: []unit.Requirement{
		unit.RequireFunc("cart", func() unit.Unit { return cart }, true),
	}}
	broken := &fixture{id: "broken", setupErr: errors.New("setup failed")}
	empty := &fixture{id: "empty"}

	e := engine.New(engine.WithRunIDGenerator(engine.NewFixedGenerator("run-golden")))
	run, err := e.RunAll(context.Background(), []unit.Unit{cart, checkout, broken, empty})
	require.Error(t, err)
	return run
}

func TestFromRun(t *testing.T) {
	r := FromRun(sampleRun(t))

	assert.Equal(t, "run-golden", r.RunID)
	assert.Equal(t, Summary{Passed: 1, Failed: 1, Skipped: 1, Errored: 1}, r.Summary)
	assert.Equal(t, 4, r.Summary.Total())
	assert.False(t, r.Summary.OK())

	cart, ok := r.Unit("cart")
	require.True(t, ok)
	assert.Equal(t, engine.StatusFailed, cart.Status)
	require.Len(t, cart.Outcomes, 2)
	assert.Equal(t, "Add", cart.Outcomes[0].Operation)
	require.Len(t, cart.Failures(), 1)
	assert.Equal(t, "1 != 2", cart.Failures()[0].Message)

	checkout, ok := r.Unit("checkout")
	require.True(t, ok)
	assert.Equal(t, engine.StatusSkipped, checkout.Status)
	assert.Empty(t, checkout.Outcomes)

	broken, ok := r.Unit("broken")
	require.True(t, ok)
	assert.Equal(t, engine.StatusErrored, broken.Status)
	assert.Contains(t, broken.Error, "setup failed")

	_, ok = r.Unit("missing")
	assert.False(t, ok)
}

func TestFromRun_GroupsOutcomesByOperation(t *testing.T) {
	f := &fixture{id: "interleaved"}
	site := unit.CallSite{File: "x.go", Line: 1}
	f.ops = []unit.Operation{
		{Name: "First", Fn: func() error {
			f.Recorder().RecordAt(site, true, "a")
			return nil
		}},
		{Name: "Second", Fn: func() error {
			f.Recorder().RecordAt(site, true, "b")
			return nil
		}},
	}
	run, err := engine.New().RunAll(context.Background(), []unit.Unit{f})
	require.NoError(t, err)

	r := FromRun(run)
	require.Len(t, r.Units, 1)
	got := r.Units[0].Outcomes
	require.Len(t, got, 2)
	assert.Equal(t, []int64{1, 2}, []int64{got[0].Seq, got[1].Seq})
	assert.True(t, r.Summary.OK())
}

func TestSummary_SkippedIsNotFailure(t *testing.T) {
	s := Summary{Passed: 2, Skipped: 3}
	assert.True(t, s.OK())
	assert.Equal(t, 5, s.Total())
}

func TestWriteText(t *testing.T) {
	r := FromRun(sampleRun(t))

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, r, false))

	want := "run run-golden\n" +
		"FAIL  cart\n" +
		"      not ok Remove  cart_test.go:20  1 != 2\n" +
		"SKIP  checkout\n" +
		"ERROR broken\n" +
		"      LIFECYCLE_FAILED: broken.BeforeAll: setup failed\n" +
		"PASS  empty\n" +
		"4 units: 1 passed, 1 failed, 1 skipped, 1 errored\n"
	assert.Equal(t, want, buf.String())
}

func TestReport_Golden(t *testing.T) {
	AssertGolden(t, "sample_run", FromRun(sampleRun(t)))
}

func TestReport_GoldenText(t *testing.T) {
	AssertGoldenText(t, "sample_run_text", FromRun(sampleRun(t)))
}
