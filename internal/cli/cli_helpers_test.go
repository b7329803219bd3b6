package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/roach88/unitgate/internal/testutil"
)

// newTestOptions returns options whose runs are numbered run-1, run-2, ...
func newTestOptions(suite Suite) *RootOptions {
	return &RootOptions{Suite: suite, RunIDs: testutil.NewSequentialRunIDGenerator("run")}
}

// runCLI executes the command line and returns the exit code and output.
func runCLI(t *testing.T, opts *RootOptions, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = execute(context.Background(), opts, args, &out, &errOut)
	return code, out.String(), errOut.String()
}
