package engine

import (
	"fmt"
)

// State is the position of a unit identity in the registry.
type State int

const (
	// NotStarted means the identity has never been attempted.
	NotStarted State = iota

	// InProgress is written before requirements are resolved. Observing it
	// while resolving means the requirement graph has a cycle back to a
	// unit that is still resolving.
	InProgress

	// Rejected means a requirement gate refused the unit; it never ran.
	Rejected

	// Aborted means a lifecycle hook failed, or a requirement being run on
	// the unit's behalf did.
	Aborted

	// Completed means the unit ran; its entry never changes again.
	Completed
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case InProgress:
		return "in_progress"
	case Rejected:
		return "rejected"
	case Aborted:
		return "aborted"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Entry is the registry record for one unit identity.
type Entry struct {
	State  State
	Result *Result // set when State is Completed
	Err    error   // set when State is Aborted
}

// Registry maps unit identities to their outcome.
//
// An engine owns its registry; engines built WithRegistry share one, which
// gives process-wide memoization. Registry is not safe for concurrent use.
type Registry struct {
	entries map[string]Entry
	order   []string // identities in first-attempt order
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Lookup returns the entry for id. Unknown identities are NotStarted.
func (r *Registry) Lookup(id string) Entry {
	return r.entries[id]
}

// Len returns the number of identities that have been attempted.
func (r *Registry) Len() int {
	return len(r.order)
}

// Identities returns attempted identities in first-attempt order.
func (r *Registry) Identities() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// set records e for id. Completed entries are never overwritten.
func (r *Registry) set(id string, e Entry) {
	cur, seen := r.entries[id]
	if cur.State == Completed {
		return
	}
	if !seen {
		r.order = append(r.order, id)
	}
	r.entries[id] = e
}
