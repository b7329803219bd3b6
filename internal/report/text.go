package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/roach88/unitgate/internal/engine"
)

var statusLabels = map[engine.Status]string{
	engine.StatusPassed:  "PASS",
	engine.StatusFailed:  "FAIL",
	engine.StatusSkipped: "SKIP",
	engine.StatusErrored: "ERROR",
}

// WriteText writes the plain summary of r. Failing outcomes and unit
// errors are always listed; verbose also lists passing outcomes.
//
// Output shape:
//
//	run 0192...
//	PASS  app.CacheTest
//	FAIL  app.FileTest
//	      not ok Write  file_test.go:21  1 != 2
//	SKIP  app.IndexTest
//	4 units: 1 passed, 1 failed, 1 skipped, 1 errored
func WriteText(w io.Writer, r *Report, verbose bool) error {
	var b strings.Builder

	fmt.Fprintf(&b, "run %s\n", r.RunID)
	for _, u := range r.Units {
		fmt.Fprintf(&b, "%-5s %s\n", statusLabels[u.Status], u.Identity)
		if u.Error != "" {
			fmt.Fprintf(&b, "      %s\n", u.Error)
		}
		for _, o := range u.Outcomes {
			if o.Passed && !verbose {
				continue
			}
			mark := "ok"
			if !o.Passed {
				mark = "not ok"
			}
			line := fmt.Sprintf("      %s %s  %s", mark, o.Operation, o.Site)
			if o.Message != "" {
				line += "  " + o.Message
			}
			b.WriteString(line + "\n")
		}
	}
	s := r.Summary
	fmt.Fprintf(&b, "%d units: %d passed, %d failed, %d skipped, %d errored\n",
		s.Total(), s.Passed, s.Failed, s.Skipped, s.Errored)

	_, err := io.WriteString(w, b.String())
	return err
}
