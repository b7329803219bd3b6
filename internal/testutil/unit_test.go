package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/unitgate/internal/engine"
)

func TestFixedRunIDGenerator(t *testing.T) {
	gen := NewFixedRunIDGenerator("run-123")
	assert.Equal(t, "run-123", gen.Generate())
	assert.Equal(t, "run-123", gen.Generate())

	assert.Equal(t, "test-run-default", NewFixedRunIDGenerator("").Generate())
}

func TestSequentialRunIDGenerator(t *testing.T) {
	gen := NewSequentialRunIDGenerator("run")
	assert.Equal(t, "run-1", gen.Generate())
	assert.Equal(t, "run-2", gen.Generate())

	gen.Reset()
	assert.Equal(t, "run-1", gen.Generate())
}

func TestSampleSuite_Statuses(t *testing.T) {
	e := engine.New(engine.WithRunIDGenerator(NewFixedRunIDGenerator("")))

	run, err := e.RunAll(context.Background(), SampleSuite())
	require.Error(t, err)
	assert.ErrorContains(t, err, "ledger unavailable")

	got := map[string]engine.Status{}
	for _, u := range run.Units {
		got[u.ID] = u.Status()
	}
	assert.Equal(t, map[string]engine.Status{
		"cart":     engine.StatusPassed,
		"checkout": engine.StatusPassed,
		"payment":  engine.StatusFailed,
		"refund":   engine.StatusSkipped,
		"ledger":   engine.StatusErrored,
	}, got)
}

func TestSampleSuite_FreshUnits(t *testing.T) {
	first := SampleSuite()
	second := SampleSuite()
	assert.NotSame(t, first[0], second[0])
}
