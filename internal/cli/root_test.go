package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cliResult captures one command execution.
type cliResult struct {
	stdout string
	stderr string
	err    error
}

// jsonResponse mirrors CLIResponse with a raw payload for typed decoding.
type jsonResponse struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Error   *CLIError       `json:"error"`
	TraceID string          `json:"trace_id"`
}

// testDB runs the test from an empty directory and returns a database path
// inside a not-yet-existing subdirectory.
func testDB(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", dir)
	return filepath.Join(dir, "data", "hospice.db")
}

// runCLI executes the root command against db with a fixed trace id.
func runCLI(t *testing.T, db string, args ...string) cliResult {
	t.Helper()
	return runCLIWithInput(t, db, "", args...)
}

func runCLIWithInput(t *testing.T, db, stdin string, args ...string) cliResult {
	t.Helper()
	cmd := newRootCommand(&RootOptions{TraceIDs: NewFixedGenerator("trace-test")})
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--db", db}, args...))
	err := cmd.Execute()
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// decode parses a JSON envelope from stdout.
func (r cliResult) decode(t *testing.T) jsonResponse {
	t.Helper()
	var resp jsonResponse
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &resp), "stdout: %s", r.stdout)
	return resp
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "carebase", cmd.Use)
	assert.Contains(t, cmd.Long, "wide record")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"reset"}, {"fetch"}, {"view"}, {"insert"}, {"update"}, {"delete"},
		{"disease", "add"}, {"disease", "delete"}, {"query"}, {"validate"},
	}

	for _, path := range commands {
		name := strings.Join(path, " ")
		t.Run(name, func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "Command %s should exist", name)
			require.NotNil(t, subCmd)
			assert.Equal(t, path[len(path)-1], subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	dbFlag := cmd.PersistentFlags().Lookup("db")
	require.NotNil(t, dbFlag)
	assert.Equal(t, "database/hospice.db", dbFlag.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestRecordFlags(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"insert", "update", "validate"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		require.NotNil(t, sub.Flags().Lookup("set"), "%s --set", name)
		fileFlag := sub.Flags().Lookup("file")
		require.NotNil(t, fileFlag, "%s --file", name)
		assert.Equal(t, "f", fileFlag.Shorthand)
	}
}

func TestInvalidFormat(t *testing.T) {
	db := testDB(t)

	res := runCLI(t, db, "--format", "xml", "fetch", "credential")
	require.Error(t, res.err)
	assert.Equal(t, ExitCommandError, GetExitCode(res.err))
}

func TestFormatFromEnvironment(t *testing.T) {
	db := testDB(t)
	t.Setenv("CAREBASE_FORMAT", "json")

	res := runCLI(t, db, "fetch", "disease_masterlist")
	require.NoError(t, res.err)
	assert.Equal(t, "ok", res.decode(t).Status)
}

func TestTraceIDInOutputAndLogs(t *testing.T) {
	db := testDB(t)

	res := runCLI(t, db, "--format", "json", "-v", "fetch", "credential")
	require.NoError(t, res.err)
	assert.Equal(t, "trace-test", res.decode(t).TraceID)
	assert.Contains(t, res.stderr, "trace_id=trace-test")
}
