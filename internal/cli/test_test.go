package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `
name: year_window
description: eq over a year matches the whole calendar year
now: "2024-05-20T00:00:00Z"
patients:
  - name: {id: 0190f5a8-0000-7000-8000-000000000001, family: Early}
    birthDate: "2022-12-31T23:59:59.999Z"
  - name: {id: 0190f5a8-0000-7000-8000-000000000002, family: Inside}
    birthDate: "2023-06-01"
terms: [eq2023]
expect:
  families: [Inside]
`

const failingScenario = `
name: wrong_expectation
description: expects a record the window excludes
now: "2024-05-20T00:00:00Z"
patients:
  - name: {id: 0190f5a8-0000-7000-8000-000000000001, family: Early}
    birthDate: "2022-12-31T23:59:59.999Z"
terms: [eq2023]
expect:
  families: [Early]
`

func executeTest(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewTestCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestTestCommandMissingArgs(t *testing.T) {
	_, err := executeTest(t, "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	_, err := executeTest(t, "text", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommandEmptyScenariosDir(t *testing.T) {
	out, err := executeTest(t, "text", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")
}

func TestTestCommandEmptyScenariosDirJSON(t *testing.T) {
	out, err := executeTest(t, "json", t.TempDir())
	require.NoError(t, err)

	resp := decodeResponse(t, bytes.NewBufferString(out))
	assert.Equal(t, "ok", resp.Status)
}

func TestTestCommandPassing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "year_window.yaml", passingScenario)

	out, err := executeTest(t, "text", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ year_window")
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
}

func TestTestCommandFailing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "year_window.yaml", passingScenario)
	writeFile(t, dir, "wrong_expectation.yaml", failingScenario)

	out, err := executeTest(t, "json", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
		Error  *CLIError  `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeTestFailed, resp.Error.Code)
	assert.Equal(t, 1, resp.Data.Passed)
	assert.Equal(t, 1, resp.Data.Failed)
	assert.Equal(t, 2, resp.Data.Total)

	// Walk order is lexical.
	require.Len(t, resp.Data.Scenarios, 2)
	assert.Equal(t, "wrong_expectation", resp.Data.Scenarios[0].Name)
	assert.False(t, resp.Data.Scenarios[0].Pass)
	assert.NotEmpty(t, resp.Data.Scenarios[0].Errors)
	assert.True(t, resp.Data.Scenarios[1].Pass)
}

func TestTestCommandFilter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "year_window.yaml", passingScenario)
	writeFile(t, dir, "wrong_expectation.yaml", failingScenario)

	out, err := executeTest(t, "text", dir, "--filter", "year_*")
	require.NoError(t, err)
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
	assert.NotContains(t, out, "wrong_expectation")
}

func TestTestCommandInvalidFilter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "year_window.yaml", passingScenario)

	_, err := executeTest(t, "text", dir, "--filter", "[")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommandGoldenRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "year_window.yaml", passingScenario)
	goldenPath := filepath.Join(dir, "golden", "year_window.golden")

	out, err := executeTest(t, "text", dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ year_window (golden updated)")

	golden, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	assert.Contains(t, string(golden), `"predicate": "2023-01-01T00:00:00.000 <= birth_date <= 2023-12-31T23:59:59.999"`)

	_, err = executeTest(t, "text", dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(goldenPath, []byte("{}\n"), 0644))
	out, err = executeTest(t, "text", dir)
	require.Error(t, err)
	assert.Contains(t, out, "does not match golden file")
}

func TestTestCommandGoldenDirFlag(t *testing.T) {
	dir := t.TempDir()
	goldenDir := filepath.Join(t.TempDir(), "snapshots")
	writeFile(t, dir, "year_window.yaml", passingScenario)

	_, err := executeTest(t, "text", dir, "--update", "--golden-dir", goldenDir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(goldenDir, "year_window.golden"))
	assert.NoError(t, err)
}

func TestTestCommandHarnessScenarios(t *testing.T) {
	scenarios := filepath.Join("..", "harness", "testdata", "scenarios")
	golden := filepath.Join("..", "harness", "testdata", "golden")

	out, err := executeTest(t, "text", scenarios, "--golden-dir", golden)
	require.NoError(t, err, out)
	assert.Contains(t, out, "All scenarios passed")
}

func TestTestHelpText(t *testing.T) {
	out, err := executeTest(t, "text", "--help")
	require.NoError(t, err)

	assert.Contains(t, out, "--update")
	assert.Contains(t, out, "--filter")
	assert.Contains(t, out, "--golden-dir")
	assert.Contains(t, out, "scenarios-dir")
}
