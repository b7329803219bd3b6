package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/unitgate/internal/engine"
	"github.com/roach88/unitgate/internal/report"
	"github.com/roach88/unitgate/internal/testutil"
	"github.com/roach88/unitgate/internal/unit"
)

func TestRun_SampleSuite(t *testing.T) {
	code, stdout, stderr := runCLI(t, newTestOptions(testutil.SampleSuite), "run")

	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stdout, "run run-1\n")
	assert.Contains(t, stdout, "PASS  cart\n")
	assert.Contains(t, stdout, "PASS  checkout\n")
	assert.Contains(t, stdout, "FAIL  payment\n")
	assert.Contains(t, stdout, "not ok Charge")
	assert.Contains(t, stdout, "declined")
	assert.Contains(t, stdout, "SKIP  refund\n")
	assert.Contains(t, stdout, "ERROR ledger\n")
	assert.Contains(t, stdout, "5 units: 2 passed, 1 failed, 1 skipped, 1 errored\n")
	assert.Contains(t, stderr, "run aborted")
	assert.Contains(t, stderr, "ledger unavailable")
}

func TestRun_PassingSuite(t *testing.T) {
	code, stdout, _ := runCLI(t, newTestOptions(testutil.PassingSuite), "run")

	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "2 units: 2 passed, 0 failed, 0 skipped, 0 errored\n")
	assert.NotContains(t, stdout, "ok Add", "passing outcomes are listed only when verbose")
}

func TestRun_Verbose(t *testing.T) {
	code, stdout, stderr := runCLI(t, newTestOptions(testutil.PassingSuite), "run", "-v")

	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "ok Add")
	assert.Contains(t, stderr, "unit completed", "debug logs go to stderr")
}

func TestRun_UnitFlagRunsRequirements(t *testing.T) {
	code, stdout, _ := runCLI(t, newTestOptions(testutil.SampleSuite), "run", "--unit", "checkout")

	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "PASS  checkout\nPASS  cart\n")
	assert.Contains(t, stdout, "2 units: 2 passed")
}

func TestRun_NoCheckRequired(t *testing.T) {
	code, stdout, _ := runCLI(t, newTestOptions(testutil.SampleSuite),
		"run", "--unit", "checkout", "--no-check-required")

	assert.Equal(t, ExitSuccess, code)
	assert.NotContains(t, stdout, "cart")
	assert.Contains(t, stdout, "1 units: 1 passed")
}

func TestRun_UnknownUnit(t *testing.T) {
	code, _, stderr := runCLI(t, newTestOptions(testutil.SampleSuite), "run", "--unit", "nope")

	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "unknown units: nope")
}

func TestRun_NoSuite(t *testing.T) {
	code, _, stderr := runCLI(t, &RootOptions{}, "run")

	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "no suite configured")
}

func TestRun_JSON(t *testing.T) {
	code, stdout, _ := runCLI(t, newTestOptions(testutil.SampleSuite), "run", "--format", "json")

	assert.Equal(t, ExitFailure, code)

	var resp struct {
		Status string        `json:"status"`
		Data   report.Report `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "run-1", resp.Data.RunID)
	assert.Equal(t, report.Summary{Passed: 2, Failed: 1, Skipped: 1, Errored: 1}, resp.Data.Summary)

	refund, ok := resp.Data.Unit("refund")
	require.True(t, ok)
	assert.Equal(t, engine.StatusSkipped, refund.Status)
}

func TestRun_Plan(t *testing.T) {
	dir := t.TempDir()
	planPath := filepath.Join(dir, "refund.yaml")
	require.NoError(t, os.WriteFile(planPath, []byte("name: refund\nunits: [refund]\nformat: json\n"), 0644))

	code, stdout, _ := runCLI(t, newTestOptions(testutil.SampleSuite), "run", "--plan", planPath)

	assert.Equal(t, ExitFailure, code, "payment runs first and fails")

	var resp struct {
		Data report.Report `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp), "plan format applies")
	assert.Equal(t, report.Summary{Failed: 1, Skipped: 1}, resp.Data.Summary)
}

func TestRun_PlanFormatOverriddenByFlag(t *testing.T) {
	dir := t.TempDir()
	planPath := filepath.Join(dir, "plan.cue")
	require.NoError(t, os.WriteFile(planPath, []byte(`name: "cart", units: ["cart"], format: "json"`), 0644))

	code, stdout, _ := runCLI(t, newTestOptions(testutil.SampleSuite), "run", "--plan", planPath, "--format", "text")

	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "PASS  cart\n")
}

func TestRun_InvalidPlan(t *testing.T) {
	dir := t.TempDir()
	planPath := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(planPath, []byte("name: x\nunitz: [a]\n"), 0644))

	code, _, stderr := runCLI(t, newTestOptions(testutil.SampleSuite), "run", "--plan", planPath)

	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "failed to load plan")
}

func TestRun_InvalidPlanJSON(t *testing.T) {
	dir := t.TempDir()
	planPath := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(planPath, []byte("name: x\nunitz: [a]\n"), 0644))

	code, stdout, _ := runCLI(t, newTestOptions(testutil.SampleSuite),
		"run", "--plan", planPath, "--format", "json")

	assert.Equal(t, ExitCommandError, code)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E002", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "failed to load plan")
}

func TestRun_PlanFormatAppliesToCommandErrors(t *testing.T) {
	planPath := filepath.Join(t.TempDir(), "json.yaml")
	require.NoError(t, os.WriteFile(planPath, []byte("name: json\nunits: [nope]\nformat: json\n"), 0644))

	code, stdout, stderr := runCLI(t, newTestOptions(testutil.SampleSuite), "run", "--plan", planPath)

	assert.Equal(t, ExitCommandError, code)
	assert.Empty(t, stderr)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E002", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "unknown units: nope")
}

func TestList(t *testing.T) {
	code, stdout, _ := runCLI(t, newTestOptions(testutil.SampleSuite), "list")

	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "checkout (1 operations)\n  requires cart (passed)\n")
	assert.Contains(t, stdout, "5 units\n")
}

func TestList_JSON(t *testing.T) {
	code, stdout, _ := runCLI(t, newTestOptions(testutil.SampleSuite), "list", "--format", "json")
	require.Equal(t, ExitSuccess, code)

	var resp struct {
		Data SuiteInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.Len(t, resp.Data.Units, 5)
	assert.Equal(t, UnitInfo{
		Identity:   "refund",
		Operations: []string{"Refund"},
		Requires:   []RequirementInfo{{Target: "payment", NeedOK: true}},
	}, resp.Data.Units[3])
	assert.Empty(t, resp.Data.Cycles)
}

func TestList_Cycles(t *testing.T) {
	suite := func() []unit.Unit {
		a := testutil.NewUnit("a").Pass("Op")
		b := testutil.NewUnit("b").Pass("Op")
		a.Requires(b, true)
		b.Requires(a, false)
		return []unit.Unit{a, b}
	}

	code, stdout, _ := runCLI(t, newTestOptions(suite), "list")

	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "warning: requirement cycle: a → b → a\n")
	assert.Contains(t, stdout, "2 units\n")
}
