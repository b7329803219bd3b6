package selftest

import (
	"context"

	"github.com/roach88/unitgate/internal/engine"
	"github.com/roach88/unitgate/internal/report"
	"github.com/roach88/unitgate/internal/unit"
)

// probe is a unit of the nested runs used by ReportTest and StoreTest.
type probe struct {
	unit.Base
	id   string
	pass bool
}

func (p *probe) UnitID() string { return p.id }

func (p *probe) Operations() []unit.Operation {
	return unit.Table(unit.Operation{Name: "Check", Fn: func() error {
		p.Assert(p.pass, "probe result")
		return nil
	}})
}

// sampleReport runs a nested suite of one passing, one failing and one
// gated unit on a fresh engine.
func sampleReport(ctx context.Context, runID string) (*report.Report, error) {
	passing := &probe{id: "passing", pass: true}
	failing := &probe{id: "failing"}
	gated := &probe{id: "gated", pass: true}
	gated.Need(unit.RequireFunc("failing", func() unit.Unit { return failing }, true))

	e := engine.New(engine.WithRunIDGenerator(engine.NewFixedGenerator(runID)))
	run, err := e.RunAll(ctx, []unit.Unit{passing, gated})
	if err != nil {
		return nil, err
	}
	return report.FromRun(run), nil
}
