package engine

import "github.com/roach88/unitgate/internal/unit"

// Result is a completed unit.
type Result struct {
	ID   string
	Unit unit.Unit
}

// OK reports whether every outcome of the unit passed.
func (r *Result) OK() bool {
	return r.Unit.Recorder().IsOK()
}

// Groups returns the unit's outcomes grouped by operation.
func (r *Result) Groups() []unit.Group {
	return r.Unit.Recorder().Groups()
}

// Status is the reported verdict for a unit. Skipped and failed are never
// merged: a skipped unit did not run at all.
type Status string

const (
	StatusPassed  Status = "pass"
	StatusFailed  Status = "fail"
	StatusSkipped Status = "skip"
	StatusErrored Status = "error"
)

// UnitRun is the registry entry of one unit attempted during a run.
type UnitRun struct {
	ID string
	Entry
}

// Status derives the verdict from the entry.
func (u UnitRun) Status() Status {
	switch u.State {
	case Completed:
		if u.Result.OK() {
			return StatusPassed
		}
		return StatusFailed
	case Rejected:
		return StatusSkipped
	default:
		return StatusErrored
	}
}

// RunReport lists the units attempted by RunAll in first-attempt order.
type RunReport struct {
	RunID string
	Units []UnitRun
}

// Count returns the number of units with status s.
func (r *RunReport) Count(s Status) int {
	n := 0
	for _, u := range r.Units {
		if u.Status() == s {
			n++
		}
	}
	return n
}

// OK reports whether no unit failed or errored. Skipped units do not make
// a run fail.
func (r *RunReport) OK() bool {
	return r.Count(StatusFailed) == 0 && r.Count(StatusErrored) == 0
}
