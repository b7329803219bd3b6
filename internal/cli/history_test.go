package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/unitgate/internal/store"
	"github.com/roach88/unitgate/internal/testutil"
)

// recordRuns runs the sample suite n times into a fresh database.
func recordRuns(t *testing.T, n int) (opts *RootOptions, db string) {
	t.Helper()
	opts = newTestOptions(testutil.SampleSuite)
	db = filepath.Join(t.TempDir(), "history.db")
	for i := 0; i < n; i++ {
		code, _, _ := runCLI(t, opts, "run", "--db", db)
		require.Equal(t, ExitFailure, code)
	}
	return opts, db
}

func TestHistory(t *testing.T) {
	opts, db := recordRuns(t, 2)

	code, stdout, _ := runCLI(t, opts, "history", "--db", db)

	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t,
		"2  run-2  2 passed, 1 failed, 1 skipped, 1 errored\n"+
			"1  run-1  2 passed, 1 failed, 1 skipped, 1 errored\n",
		stdout)
}

func TestHistory_JSON(t *testing.T) {
	opts, db := recordRuns(t, 2)

	code, stdout, _ := runCLI(t, opts, "history", "--db", db, "--limit", "1", "--format", "json")
	require.Equal(t, ExitSuccess, code)

	var resp struct {
		Data []store.RunInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "run-2", resp.Data[0].ID)
}

func TestHistory_Empty(t *testing.T) {
	opts := newTestOptions(testutil.SampleSuite)
	db := filepath.Join(t.TempDir(), "history.db")
	s, err := store.Open(db)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	code, stdout, _ := runCLI(t, opts, "history", "--db", db)

	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, "No runs recorded.\n", stdout)
}

func TestHistory_MissingDatabase(t *testing.T) {
	code, _, stderr := runCLI(t, newTestOptions(testutil.SampleSuite),
		"history", "--db", filepath.Join(t.TempDir(), "missing.db"))

	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "database not found")
}

func TestHistory_RequiresDBFlag(t *testing.T) {
	code, _, stderr := runCLI(t, newTestOptions(testutil.SampleSuite), "history")

	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "required flag")
}

func TestShow_Latest(t *testing.T) {
	opts, db := recordRuns(t, 2)

	code, stdout, _ := runCLI(t, opts, "show", "--db", db)

	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "run run-2\n")
	assert.Contains(t, stdout, "SKIP  refund\n")
	assert.Contains(t, stdout, "ledger unavailable")
}

func TestShow_ByID(t *testing.T) {
	opts, db := recordRuns(t, 2)

	code, stdout, _ := runCLI(t, opts, "show", "--db", db, "run-1")

	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "run run-1\n")
}

func TestShow_UnknownRun(t *testing.T) {
	opts, db := recordRuns(t, 1)

	code, _, stderr := runCLI(t, opts, "show", "--db", db, "run-9")

	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "unknown run")
}

func TestFailures(t *testing.T) {
	opts, db := recordRuns(t, 2)

	code, stdout, _ := runCLI(t, opts, "failures", "--db", db, "payment")
	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, 2, countLines(stdout))
	assert.Contains(t, stdout, "Charge  unit.go:")
	assert.Contains(t, stdout, "declined")

	code, stdout, _ = runCLI(t, opts, "failures", "--db", db, "cart")
	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, "No failures recorded for cart.\n", stdout)
}

func countLines(s string) int {
	n := 0
	for _, c := range s {
		if c == '\n' {
			n++
		}
	}
	return n
}
