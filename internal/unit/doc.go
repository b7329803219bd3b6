// Package unit defines executable test units and the assertion recorder.
//
// A unit is a struct embedding Base. Its test operations are either
// returned by an Operations method (see Operable) or discovered from its
// exported func() error and func() methods. Each assertion appends an
// Outcome to the unit's Recorder, grouped under the operation that was
// running and stamped with the call site of the assertion statement.
//
// # Requirements
//
// A unit lists its prerequisites from Requirements:
//
//	func (t *SessionTest) Requirements() []unit.Requirement {
//		return []unit.Requirement{
//			unit.RequireOK[RequestTest](), // must have passed
//			unit.Require[URLTest](),       // must have been attempted
//		}
//	}
//
// Resolution of requirements and execution order live in package engine.
//
// # Failure kinds
//
// AssertError and AssertNoError classify failures with a Kind. A failure
// that does not match the kind is handed back to the operation instead of
// being recorded, so it surfaces as a failure of the operation itself.
package unit
