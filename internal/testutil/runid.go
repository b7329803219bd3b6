package testutil

import (
	"fmt"
	"sync"
)

// FixedRunIDGenerator returns the same run ID every time.
//
// Unlike engine.FixedGenerator, which returns IDs in sequence and panics
// when exhausted, this generator never runs out. Use it where a test runs
// an unknown number of times but needs byte-identical reports.
//
// Thread-safety: FixedRunIDGenerator is stateless and safe for concurrent use.
type FixedRunIDGenerator struct {
	id string
}

// NewFixedRunIDGenerator creates a fixed run ID generator.
// If id is empty, Generate() returns "test-run-default".
func NewFixedRunIDGenerator(id string) *FixedRunIDGenerator {
	if id == "" {
		id = "test-run-default"
	}
	return &FixedRunIDGenerator{id: id}
}

// Generate returns the fixed run ID.
func (g *FixedRunIDGenerator) Generate() string {
	return g.id
}

// SequentialRunIDGenerator returns prefix-1, prefix-2, ... and can be reset
// so a test scenario can repeat with identical run IDs.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SequentialRunIDGenerator struct {
	mu     sync.Mutex
	prefix string
	seq    int64
}

// NewSequentialRunIDGenerator creates a generator whose first ID is
// prefix-1.
func NewSequentialRunIDGenerator(prefix string) *SequentialRunIDGenerator {
	return &SequentialRunIDGenerator{prefix: prefix}
}

// Generate returns the next run ID.
func (g *SequentialRunIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("%s-%d", g.prefix, g.seq)
}

// Reset restarts the sequence. The next ID is prefix-1.
func (g *SequentialRunIDGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}
