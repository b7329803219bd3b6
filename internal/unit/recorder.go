package unit

import (
	"fmt"
	"path/filepath"
	"runtime"
)

// CallSite identifies the statement that produced an outcome.
type CallSite struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Function string `json:"function,omitempty"`
}

// String formats the site as base-file:line.
func (c CallSite) String() string {
	if c.File == "" {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", filepath.Base(c.File), c.Line)
}

// Outcome is one recorded assertion result.
type Outcome struct {
	Operation string   `json:"operation"`
	Site      CallSite `json:"site"`
	Passed    bool     `json:"passed"`
	Message   string   `json:"message,omitempty"`

	// Seq is the position of the outcome within its unit, starting at 1.
	Seq int64 `json:"seq"`
}

// Group holds the outcomes of a single operation in recording order.
type Group struct {
	Operation string    `json:"operation"`
	Outcomes  []Outcome `json:"outcomes"`
}

// Recorder is the per-unit log of assertion outcomes.
//
// The zero value is ready to use. A Recorder is owned by exactly one unit
// and is not safe for concurrent use.
type Recorder struct {
	current  string
	outcomes []Outcome
	lastOK   *bool
}

// SetOperation sets the operation that subsequent outcomes are grouped under.
func (r *Recorder) SetOperation(name string) {
	r.current = name
}

// Operation returns the current operation name.
func (r *Recorder) Operation() string {
	return r.current
}

// Record appends an outcome whose call site is the caller of Record.
func (r *Recorder) Record(result bool, message string) {
	r.RecordAt(CallerSite(1), result, message)
}

// RecordAt appends an outcome with an explicit call site.
func (r *Recorder) RecordAt(site CallSite, result bool, message string) {
	r.outcomes = append(r.outcomes, Outcome{
		Operation: r.current,
		Site:      site,
		Passed:    result,
		Message:   message,
		Seq:       int64(len(r.outcomes) + 1),
	})
	r.lastOK = &result
}

// Outcomes returns a copy of all outcomes in recording order.
func (r *Recorder) Outcomes() []Outcome {
	out := make([]Outcome, len(r.outcomes))
	copy(out, r.outcomes)
	return out
}

// Groups returns the outcomes grouped by operation. Groups appear in the
// order their operation first recorded an outcome.
func (r *Recorder) Groups() []Group {
	index := make(map[string]int)
	var groups []Group
	for _, o := range r.outcomes {
		i, ok := index[o.Operation]
		if !ok {
			i = len(groups)
			index[o.Operation] = i
			groups = append(groups, Group{Operation: o.Operation})
		}
		groups[i].Outcomes = append(groups[i].Outcomes, o)
	}
	return groups
}

// Len returns the number of recorded outcomes.
func (r *Recorder) Len() int {
	return len(r.outcomes)
}

// IsLastOK reports the result of the most recent outcome.
// It is true when nothing has been recorded yet.
func (r *Recorder) IsLastOK() bool {
	if r.lastOK == nil {
		return true
	}
	return *r.lastOK
}

// IsOK reports whether every recorded outcome passed.
// A recorder with no outcomes is ok.
func (r *Recorder) IsOK() bool {
	for _, o := range r.outcomes {
		if !o.Passed {
			return false
		}
	}
	return true
}

// CallerSite returns the call site skip frames above the function that
// calls CallerSite. CallerSite(0) is the caller itself.
func CallerSite(skip int) CallSite {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return CallSite{}
	}
	site := CallSite{File: file, Line: line}
	if fn := runtime.FuncForPC(pc); fn != nil {
		site.Function = fn.Name()
	}
	return site
}
