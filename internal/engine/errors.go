package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents a failure that aborts a unit's run.
//
// Runtime errors include:
//   - Lifecycle failure: a hook returned an error
//   - Requirement failure: a requirement run on the unit's behalf aborted
//
// Assertion failures and operation failures are never runtime errors; they
// are recorded as outcomes.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Unit is the identity of the affected unit.
	Unit string

	// Hook names the failing hook (lifecycle failures).
	Hook Hook

	// Operation is the operation running when the hook failed, if any.
	Operation string

	// Requirement is the identity of the aborted requirement
	// (requirement failures).
	Requirement string

	// Err is the underlying failure.
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeLifecycleFailed indicates a hook of the unit failed.
	ErrCodeLifecycleFailed RuntimeErrorCode = "LIFECYCLE_FAILED"

	// ErrCodeRequirementFailed indicates a requirement aborted while being
	// run for the unit.
	ErrCodeRequirementFailed RuntimeErrorCode = "REQUIREMENT_FAILED"
)

// Hook names a lifecycle hook.
type Hook string

const (
	HookBeforeAll  Hook = "BeforeAll"
	HookAfterAll   Hook = "AfterAll"
	HookBeforeEach Hook = "BeforeEach"
	HookAfterEach  Hook = "AfterEach"
	HookOnFailure  Hook = "OnFailure"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	switch {
	case e.Code == ErrCodeRequirementFailed:
		return fmt.Sprintf("%s: %s requires %s: %v", e.Code, e.Unit, e.Requirement, e.Err)
	case e.Operation != "":
		return fmt.Sprintf("%s: %s.%s (operation %s): %v", e.Code, e.Unit, e.Hook, e.Operation, e.Err)
	default:
		return fmt.Sprintf("%s: %s.%s: %v", e.Code, e.Unit, e.Hook, e.Err)
	}
}

// Unwrap returns the underlying failure.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// IsLifecycleError returns true if err is, or wraps, a lifecycle failure.
// Requirement failures wrap the lifecycle failure that caused them, so they
// match too.
func IsLifecycleError(err error) bool {
	for err != nil {
		var re *RuntimeError
		if !errors.As(err, &re) {
			return false
		}
		if re.Code == ErrCodeLifecycleFailed {
			return true
		}
		err = re.Err
	}
	return false
}

// NewLifecycleError creates a RuntimeError for a failed hook.
func NewLifecycleError(unitID string, hook Hook, operation string, err error) *RuntimeError {
	return &RuntimeError{
		Code:      ErrCodeLifecycleFailed,
		Unit:      unitID,
		Hook:      hook,
		Operation: operation,
		Err:       err,
	}
}

// NewRequirementError creates a RuntimeError for an aborted requirement.
func NewRequirementError(unitID, requirement string, err error) *RuntimeError {
	return &RuntimeError{
		Code:        ErrCodeRequirementFailed,
		Unit:        unitID,
		Requirement: requirement,
		Err:         err,
	}
}
