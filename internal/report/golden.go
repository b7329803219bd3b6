package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Encode returns the JSON form of r: two-space indent, trailing newline.
func Encode(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// AssertGolden compares the JSON encoding of r against
// testdata/golden/{name}.golden.
//
// To regenerate golden files, run the test with -update.
func AssertGolden(t *testing.T, name string, r *Report) {
	t.Helper()

	data, err := Encode(r)
	if err != nil {
		t.Fatalf("encode report: %v", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
}

// AssertGoldenText compares the verbose text summary of r against
// testdata/golden/{name}.golden.
func AssertGoldenText(t *testing.T, name string, r *Report) {
	t.Helper()

	var buf bytes.Buffer
	if err := WriteText(&buf, r, true); err != nil {
		t.Fatalf("write report: %v", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, buf.Bytes())
}
