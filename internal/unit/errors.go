package unit

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// MisuseError reports an invalid argument to an assertion or declaration
// helper. It is a configuration error, never a test outcome.
type MisuseError struct {
	Func   string // helper that was misused, e.g. "AssertError"
	Reason string
}

// Error implements the error interface.
func (e *MisuseError) Error() string {
	return fmt.Sprintf("misuse of %s: %s", e.Func, e.Reason)
}

// IsMisuse returns true if err is or wraps a *MisuseError.
func IsMisuse(err error) bool {
	var me *MisuseError
	return errors.As(err, &me)
}

// PanicError is the failure produced when an invoked function panics.
type PanicError struct {
	Value any
	Site  CallSite
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the panic value when it is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Invoke calls fn and converts a panic into a *PanicError.
func Invoke(fn func() error) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &PanicError{Value: v, Site: panicSite()}
		}
	}()
	return fn()
}

// panicSite finds the frame that raised the panic being recovered.
// It must be called from the deferred function doing the recover.
func panicSite() CallSite {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !strings.HasPrefix(frame.Function, "runtime.") {
			return CallSite{File: frame.File, Line: frame.Line, Function: frame.Function}
		}
		if !more {
			return CallSite{}
		}
	}
}
