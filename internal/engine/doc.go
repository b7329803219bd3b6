// Package engine resolves unit requirements and runs units.
//
// ARCHITECTURE:
//
// Single-threaded, synchronous execution. StartTesting runs one unit on
// the caller's goroutine: it resolves the unit's requirements (running the
// ones never attempted), then calls BeforeAll, each operation bracketed by
// BeforeEach/AfterEach, and AfterAll.
//
// Registry:
// Every identity moves NotStarted → InProgress → {Rejected, Aborted,
// Completed}. InProgress is written before requirements resolve, so a
// requirement cycle closes a NeedOK gate instead of recursing forever.
// Completed entries are immutable, which memoizes results: an identity
// runs at most once per registry. AnalyzeCycles reports the same cycles
// statically, before anything runs.
//
// Failures:
//   - Assertion failure: a recorded false outcome
//   - Operation failure: an operation error or panic, recorded as a false
//     outcome; the other operations still run
//   - Lifecycle failure: a hook error, returned as *RuntimeError; the unit
//     is Aborted
//   - Gate rejection: StartTesting returns nil, nil and the unit is
//     Rejected
package engine
