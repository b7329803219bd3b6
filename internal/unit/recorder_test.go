package unit

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_ZeroValueIsOK(t *testing.T) {
	var r Recorder

	assert.True(t, r.IsOK())
	assert.True(t, r.IsLastOK())
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.Groups())
}

func TestRecorder_GroupsPreserveOrder(t *testing.T) {
	var r Recorder

	r.SetOperation("b")
	r.Record(true, "first")
	r.SetOperation("a")
	r.Record(false, "second")
	r.SetOperation("b")
	r.Record(true, "third")

	groups := r.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, "b", groups[0].Operation)
	assert.Equal(t, "a", groups[1].Operation)

	require.Len(t, groups[0].Outcomes, 2)
	assert.Equal(t, "first", groups[0].Outcomes[0].Message)
	assert.Equal(t, "third", groups[0].Outcomes[1].Message)
	assert.Equal(t, int64(1), groups[0].Outcomes[0].Seq)
	assert.Equal(t, int64(3), groups[0].Outcomes[1].Seq)
}

func TestRecorder_OperationTracksCurrentGroup(t *testing.T) {
	var r Recorder
	assert.Empty(t, r.Operation())

	r.SetOperation("Put")
	assert.Equal(t, "Put", r.Operation())
	r.Record(true, "")

	r.SetOperation("Get")
	assert.Equal(t, "Get", r.Operation())
	assert.Equal(t, "Put", r.Outcomes()[0].Operation, "earlier outcomes keep their group")
}

func TestRecorder_Aggregation(t *testing.T) {
	var r Recorder

	r.SetOperation("op1")
	r.Record(true, "")
	r.Record(true, "")
	assert.True(t, r.IsOK())

	r.SetOperation("op2")
	r.Record(false, "")
	assert.False(t, r.IsOK())
	assert.False(t, r.IsLastOK())

	r.Record(true, "")
	assert.True(t, r.IsLastOK())
	assert.False(t, r.IsOK(), "earlier failure still fails the unit")
}

func TestRecorder_RecordCapturesCaller(t *testing.T) {
	var r Recorder
	r.SetOperation("op")

	_, file, line, _ := runtime.Caller(0)
	r.Record(true, "") // line+1

	out := r.Outcomes()
	require.Len(t, out, 1)
	assert.Equal(t, file, out[0].Site.File)
	assert.Equal(t, line+1, out[0].Site.Line)
	assert.Contains(t, out[0].Site.Function, "TestRecorder_RecordCapturesCaller")
}

func TestRecorder_OutcomesIsACopy(t *testing.T) {
	var r Recorder
	r.Record(true, "kept")

	out := r.Outcomes()
	out[0].Message = "changed"

	assert.Equal(t, "kept", r.Outcomes()[0].Message)
}

func TestCallSite_String(t *testing.T) {
	assert.Equal(t, "unknown", CallSite{}.String())
	assert.Equal(t, "unit_test.go:12", CallSite{File: "/src/pkg/unit_test.go", Line: 12}.String())
}
