package engine

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"

	"github.com/roach88/unitgate/internal/unit"
)

// dispatch runs every operation of u in table order.
//
// Each operation is bracketed by BeforeEach and AfterEach. An operation
// that returns an error or panics is handed to OnFailure and then recorded
// as a failing outcome, and the remaining operations still run. Hook
// failures stop dispatch and are returned as lifecycle errors.
func (e *Engine) dispatch(u unit.Unit, id string) error {
	rec := u.Recorder()

	for _, op := range unit.Operations(u) {
		rec.SetOperation(op.Name)

		if err := u.BeforeEach(); err != nil {
			return NewLifecycleError(id, HookBeforeEach, op.Name, err)
		}

		e.logger.Debug("operation started", "unit", id, "operation", op.Name)
		if err := unit.Invoke(op.Fn); err != nil {
			if herr := u.OnFailure(err); herr != nil {
				return NewLifecycleError(id, HookOnFailure, op.Name, herr)
			}
			site := failureSite(u, op, err)
			rec.RecordAt(site, false, fmt.Sprintf("Exception: %v at %s", err, site))
			e.logger.Debug("operation failed", "unit", id, "operation", op.Name, "error", err)
		}

		if err := u.AfterEach(); err != nil {
			return NewLifecycleError(id, HookAfterEach, op.Name, err)
		}
	}
	return nil
}

// failureSite locates an operation failure: the panicking statement for a
// panic, otherwise the declaration of the operation.
func failureSite(u unit.Unit, op unit.Operation, err error) unit.CallSite {
	var pe *unit.PanicError
	if errors.As(err, &pe) && pe.Site.File != "" {
		return pe.Site
	}
	if m, ok := reflect.TypeOf(u).MethodByName(op.Name); ok {
		return funcSite(m.Func.Pointer())
	}
	return funcSite(reflect.ValueOf(op.Fn).Pointer())
}

func funcSite(pc uintptr) unit.CallSite {
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return unit.CallSite{}
	}
	file, line := fn.FileLine(fn.Entry())
	return unit.CallSite{File: file, Line: line, Function: fn.Name()}
}
