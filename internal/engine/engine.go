package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/unitgate/internal/unit"
)

// Engine runs units in requirement order, at most once per identity.
//
// Thread-safety model: an Engine and its Registry must be used from one
// goroutine. Units run synchronously on the caller's goroutine.
//
// INVARIANTS:
//   - InProgress is written for a unit before its requirements resolve
//   - Completed is written only after AfterAll returns
//   - A Completed entry is never replaced
type Engine struct {
	registry *Registry
	logger   *slog.Logger
	runIDs   RunIDGenerator
}

// EngineOption allows configuration of engine parameters.
type EngineOption func(*Engine)

// WithLogger sets the structured logger. Default: logs are discarded.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithRegistry makes the engine record into r. Engines sharing a registry
// share memoized results.
func WithRegistry(r *Registry) EngineOption {
	return func(e *Engine) {
		e.registry = r
	}
}

// WithRunIDGenerator sets the generator for RunAll's run IDs.
// Default: UUIDv7Generator.
func WithRunIDGenerator(g RunIDGenerator) EngineOption {
	return func(e *Engine) {
		e.runIDs = g
	}
}

// New creates an Engine with a fresh registry.
func New(opts ...EngineOption) *Engine {
	e := &Engine{
		registry: NewRegistry(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		runIDs:   UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the registry the engine records into.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// StartTesting runs u unless its identity was attempted before.
//
// It returns the completed result, or nil when the unit did not run: a
// requirement gate rejected it, or an earlier attempt of the same identity
// was rejected or aborted. A unit that already completed returns its
// earlier result without running again.
//
// Execution flow:
// 1. Write InProgress for the unit's identity
// 2. Resolve requirements; a closed gate leaves the unit Rejected
// 3. BeforeAll, every operation, AfterAll
// 4. Write Completed and return the result
//
// A failing hook aborts the unit: the entry becomes Aborted and the
// returned error is a *RuntimeError. Callers must not drop it.
func (e *Engine) StartTesting(ctx context.Context, u unit.Unit) (*Result, error) {
	id := unit.IdentityOf(u)

	switch entry := e.registry.Lookup(id); entry.State {
	case Completed:
		e.logger.Debug("unit memoized", "unit", id)
		return entry.Result, nil
	case NotStarted:
	default:
		e.logger.Debug("unit already attempted", "unit", id, "state", entry.State)
		return nil, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("start %s: %w", id, err)
	}

	e.registry.set(id, Entry{State: InProgress})

	allowed, err := e.resolve(ctx, u, id)
	if err != nil {
		e.abort(id, err)
		return nil, err
	}
	if !allowed {
		e.registry.set(id, Entry{State: Rejected})
		e.logger.Info("unit skipped", "unit", id)
		return nil, nil
	}

	e.logger.Info("unit started", "unit", id)
	if err := e.execute(u, id); err != nil {
		e.abort(id, err)
		return nil, err
	}

	result := &Result{ID: id, Unit: u}
	e.registry.set(id, Entry{State: Completed, Result: result})
	e.logger.Info("unit completed",
		"unit", id,
		"ok", result.OK(),
		"outcomes", u.Recorder().Len(),
	)
	return result, nil
}

// execute runs the lifecycle of an admitted unit.
func (e *Engine) execute(u unit.Unit, id string) error {
	if err := u.BeforeAll(); err != nil {
		return NewLifecycleError(id, HookBeforeAll, "", err)
	}
	if err := e.dispatch(u, id); err != nil {
		return err
	}
	if err := u.AfterAll(); err != nil {
		return NewLifecycleError(id, HookAfterAll, "", err)
	}
	return nil
}

func (e *Engine) abort(id string, err error) {
	e.registry.set(id, Entry{State: Aborted, Err: err})
	e.logger.Error("unit aborted", "unit", id, "error", err)
}

// RunAll starts each unit in order and reports every unit attempted on the
// way, requirements included. Aborted units do not stop the run; their
// errors are joined into the returned error. Requirement cycles are
// logged as warnings before any unit starts.
func (e *Engine) RunAll(ctx context.Context, units []unit.Unit) (*RunReport, error) {
	report := &RunReport{RunID: e.runIDs.Generate()}
	logger := e.logger.With("run_id", report.RunID)
	logger.Info("run started", "units", len(units))
	for _, w := range AnalyzeCycles(units) {
		logger.Warn(w.Message, "gated", w.Gated)
	}

	before := e.registry.Len()
	var errs []error
	for _, u := range units {
		if _, err := e.StartTesting(ctx, u); err != nil {
			errs = append(errs, err)
			if ctx.Err() != nil {
				break
			}
		}
	}

	seen := make(map[string]bool)
	ids := e.registry.Identities()[before:]
	for _, u := range units {
		ids = append(ids, unit.IdentityOf(u))
	}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		entry := e.registry.Lookup(id)
		if entry.State == NotStarted {
			continue
		}
		report.Units = append(report.Units, UnitRun{ID: id, Entry: entry})
	}

	logger.Info("run finished",
		"passed", report.Count(StatusPassed),
		"failed", report.Count(StatusFailed),
		"skipped", report.Count(StatusSkipped),
		"errored", report.Count(StatusErrored),
	)
	return report, errors.Join(errs...)
}
