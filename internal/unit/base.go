package unit

import "time"

// Hooks are the lifecycle extension points of a unit. A non-nil error from
// any hook aborts the unit's run.
type Hooks interface {
	BeforeAll() error
	AfterAll() error
	// BeforeEach runs immediately before every operation.
	BeforeEach() error
	// AfterEach runs after every operation, including failed ones.
	AfterEach() error
	// OnFailure receives the failure of an operation before it is recorded.
	OnFailure(err error) error
}

// Unit is an executable test subject.
type Unit interface {
	Hooks
	Requirements() []Requirement
	Recorder() *Recorder
	// CheckRequired reports whether requirements that have not run yet are
	// run first. When false they are passed over.
	CheckRequired() bool
}

// Base provides the default no-op hooks, the recorder and the assertion
// primitives. Units embed it and are used through a pointer:
//
//	type CacheTest struct {
//		unit.Base
//	}
//
//	func (t *CacheTest) Requirements() []unit.Requirement {
//		return []unit.Requirement{unit.RequireOK[FileTest]()}
//	}
//
//	func (t *CacheTest) Put() error {
//		t.Equal(1, cache.Len(), "")
//		return nil
//	}
//
// The zero value is ready to use.
type Base struct {
	rec      Recorder
	requires []Requirement
	lenient  bool
}

var _ Unit = (*Base)(nil)

func (b *Base) BeforeAll() error          { return nil }
func (b *Base) AfterAll() error           { return nil }
func (b *Base) BeforeEach() error         { return nil }
func (b *Base) AfterEach() error          { return nil }
func (b *Base) OnFailure(err error) error { return nil }

// Recorder returns the unit's outcome log.
func (b *Base) Recorder() *Recorder {
	return &b.rec
}

// Requirements returns the requirements added with Need. Units with a fixed
// set of prerequisites usually override it instead.
func (b *Base) Requirements() []Requirement {
	return b.requires
}

// Need adds requirements to the unit.
func (b *Base) Need(reqs ...Requirement) {
	b.requires = append(b.requires, reqs...)
}

// CheckRequired reports whether missing requirements are run first.
// It defaults to true.
func (b *Base) CheckRequired() bool {
	return !b.lenient
}

// SetCheckRequired toggles running missing requirements first.
func (b *Base) SetCheckRequired(check bool) {
	b.lenient = !check
}

// IsOK reports whether every outcome recorded so far passed.
func (b *Base) IsOK() bool {
	return b.rec.IsOK()
}

// IsLastOK reports whether the most recent outcome passed.
func (b *Base) IsLastOK() bool {
	return b.rec.IsLastOK()
}

// Sleep blocks for d and returns the time it started. It cannot be
// interrupted.
func (b *Base) Sleep(d time.Duration) time.Time {
	start := time.Now()
	time.Sleep(d)
	return start
}
