package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad")))

	wrapped := fmt.Errorf("outer: %w", WrapExitError(ExitCommandError, "inner", errors.New("cause")))
	assert.Equal(t, ExitCommandError, GetExitCode(wrapped))
}

func TestExitErrorMessage(t *testing.T) {
	assert.Equal(t, "bad", NewExitError(ExitFailure, "bad").Error())

	cause := errors.New("cause")
	err := WrapExitError(ExitFailure, "bad", cause)
	assert.Equal(t, "bad: cause", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestIsReported(t *testing.T) {
	assert.False(t, IsReported(errors.New("plain")))
	assert.False(t, IsReported(NewExitError(ExitFailure, "x")))
	assert.True(t, IsReported(NewExitError(ExitFailure, "x").reported()))
}

func TestOutputFormatterJSON(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}

	require.NoError(t, f.SuccessWithTrace(map[string]int{"a": 1}, "run-1"))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "run-1", resp.TraceID)
	assert.Equal(t, map[string]any{"a": float64(1)}, resp.Data)
}

func TestOutputFormatterError(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf, Verbose: true}

	require.NoError(t, f.Error(ErrCodeGeneric, "broken", "more"))
	assert.Equal(t, "Error [E001]: broken\nDetails: more\n", buf.String())
}

func TestVerboseLogGoesToErrWriter(t *testing.T) {
	var out, errOut bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &out, ErrWriter: &errOut, Verbose: true}

	f.VerboseLog("hello %d", 1)
	assert.Empty(t, out.String())
	assert.Equal(t, "hello 1\n", errOut.String())

	f.Verbose = false
	f.VerboseLog("quiet")
	assert.Equal(t, "hello 1\n", errOut.String())
}

func TestVerboseLogFallsBackToWriter(t *testing.T) {
	var out bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &out, Verbose: true}

	f.VerboseLog("note")
	assert.Equal(t, "note\n", out.String())
	assert.Same(t, &out, f.GetErrWriter())
}
