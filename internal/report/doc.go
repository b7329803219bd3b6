// Package report turns engine runs into serializable reports.
//
// A Report carries one UnitReport per unit attempted in the run, with a
// status of pass, fail, skip or error. Skipped units were rejected by a
// requirement gate and never ran; they are never counted as failures.
// Reports are written as JSON, as a plain text summary, or to the run
// history store.
package report
