package report

import (
	"github.com/roach88/unitgate/internal/engine"
	"github.com/roach88/unitgate/internal/unit"
)

// Report is the serializable result of one run.
type Report struct {
	RunID   string       `json:"run_id"`
	Units   []UnitReport `json:"units"`
	Summary Summary      `json:"summary"`
}

// UnitReport is the verdict and outcomes of one unit.
//
// Outcomes are ordered by operation, in the order each operation first
// recorded an outcome, and chronologically inside an operation. Seq keeps
// the recording order across operations.
type UnitReport struct {
	Identity string         `json:"identity"`
	Status   engine.Status  `json:"status"`
	Error    string         `json:"error,omitempty"`
	Outcomes []unit.Outcome `json:"outcomes,omitempty"`
}

// Summary counts units by status.
type Summary struct {
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
	Errored int `json:"errored"`
}

// Total returns the number of units counted.
func (s Summary) Total() int {
	return s.Passed + s.Failed + s.Skipped + s.Errored
}

// OK reports whether no unit failed or errored.
func (s Summary) OK() bool {
	return s.Failed == 0 && s.Errored == 0
}

// FromRun builds a report from an engine run.
func FromRun(run *engine.RunReport) *Report {
	r := &Report{RunID: run.RunID, Units: make([]UnitReport, 0, len(run.Units))}
	for _, u := range run.Units {
		ur := UnitReport{Identity: u.ID, Status: u.Status()}
		if u.Err != nil {
			ur.Error = u.Err.Error()
		}
		if u.Result != nil {
			for _, g := range u.Result.Groups() {
				ur.Outcomes = append(ur.Outcomes, g.Outcomes...)
			}
		}
		r.Add(ur)
	}
	return r
}

// Add appends a unit report and counts its status.
func (r *Report) Add(u UnitReport) {
	r.Units = append(r.Units, u)
	switch u.Status {
	case engine.StatusPassed:
		r.Summary.Passed++
	case engine.StatusFailed:
		r.Summary.Failed++
	case engine.StatusSkipped:
		r.Summary.Skipped++
	default:
		r.Summary.Errored++
	}
}

// Unit returns the report of the unit with the given identity.
func (r *Report) Unit(identity string) (UnitReport, bool) {
	for _, u := range r.Units {
		if u.Identity == identity {
			return u, true
		}
	}
	return UnitReport{}, false
}

// Failures returns the failing outcomes of the unit.
func (u UnitReport) Failures() []unit.Outcome {
	var out []unit.Outcome
	for _, o := range u.Outcomes {
		if !o.Passed {
			out = append(out, o)
		}
	}
	return out
}
