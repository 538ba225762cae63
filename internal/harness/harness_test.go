package harness

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/roach88/vera/internal/engine"
	"github.com/roach88/vera/internal/ir"
	"github.com/roach88/vera/internal/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func load(t *testing.T, name string) *Scenario {
	t.Helper()
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", name+".yaml"))
	require.NoError(t, err)
	return s
}

func TestRun_Example1(t *testing.T) {
	result, err := Run(load(t, "example1"))
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, 1, result.Steps)
	assert.Equal(t, map[string]int{"x": 1, "z": 4}, result.Final)
	assert.Equal(t, map[string]int{"x": 1, "z": 4}, result.Compiled)
	require.Len(t, result.Trace, 1)
	assert.Equal(t, TraceEvent{Seq: 1, Rule: 2, Executions: 4, Clause: "|x, y| z"}, result.Trace[0])
}

func TestRun_Transfer(t *testing.T) {
	result, err := Run(load(t, "transfer"))
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, []int{2, 2, 3}, result.Fired())
	assert.Equal(t, map[string]int{"b": 3}, result.Compiled)
}

func TestRun_ErrorScenarios(t *testing.T) {
	for _, name := range []string{"unterminated", "collision", "capacity"} {
		t.Run(name, func(t *testing.T) {
			s := load(t, name)
			result, err := Run(s)
			require.NoError(t, err)

			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Equal(t, s.Expect.Error, result.ErrorKind)
		})
	}
}

func TestRun_ZeroMaxSteps(t *testing.T) {
	s := &Scenario{
		Name:        "zero",
		Description: "max_steps 0 takes no step",
		Source:      "|| x:5\n|| y:4\n|x, y| z",
		MaxSteps:    intPtr(0),
		Expect:      Expect{Steps: intPtr(0), Final: map[string]int{"x": 5, "y": 4}},
	}
	require.Equal(t, 0, s.StepLimit())

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_SaturatedCountsRoundTrip(t *testing.T) {
	s := &Scenario{
		Name:        "saturated",
		Description: "counts past the int range clamp the same way compiled",
		Source:      "|| a:2147483647\n|a| b:2147483647\n|b| c:2147483647\n|c| d:4",
		RoundTrip:   true,
		Expect:      Expect{Steps: intPtr(3), Final: map[string]int{"d": ir.MaxCount}},
	}
	require.Equal(t, engine.Unbounded, s.StepLimit())

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, map[string]int{"d": ir.MaxCount}, result.Compiled)
}

func TestRun_UnexpectedError(t *testing.T) {
	s := &Scenario{
		Name:        "bad",
		Description: "parse error without expect.error",
		Source:      "|| a\n|a, b",
		Expect:      Expect{Steps: intPtr(0)},
	}
	result, err := Run(s)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	assert.Equal(t, ErrorUnterminatedRule, result.ErrorKind)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "UNTERMINATED_RULE")
}

func TestRun_FailedExpectation(t *testing.T) {
	s, err := LoadScenario("testdata/broken/wrong.yaml")
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Assertion failed: final")
}

func TestRun_ImplicitConstantsOff(t *testing.T) {
	off := false
	s := &Scenario{
		Name:              "literal",
		Description:       "colon is part of the name",
		Source:            "|| a:2",
		ImplicitConstants: &off,
		Expect:            Expect{Final: map[string]int{"a:2": 1}},
	}
	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_ForceVariables(t *testing.T) {
	s := &Scenario{
		Name:        "force",
		Description: "both directions are generated",
		Source:      "|#| variables, a, b\n|| a:2, b -> a",
		Variables:   true,
		Force:       true,
		RoundTrip:   true,
		Expect:      Expect{Final: map[string]int{"a": 2}},
	}
	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_SourceFileReadError(t *testing.T) {
	s := &Scenario{
		Name:        "gone",
		Description: "source file vanished",
		SourceFile:  filepath.Join(t.TempDir(), "gone.vera"),
		Expect:      Expect{Steps: intPtr(0)},
	}
	_, err := Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read source file")
}

func TestHarness_RunIDAndLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	h := New(
		WithLogger(logger),
		WithRunIDGenerator(testutil.NewFixedRunIDGenerator("run-42")),
	)
	result, err := h.Run(load(t, "bounded"))
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "run-42", result.RunID)
	assert.Contains(t, buf.String(), "run_id=run-42")
	assert.Contains(t, buf.String(), "scenario=bounded")
	assert.Contains(t, buf.String(), "step budget exhausted")
}

func TestHarness_ScenarioRunIDWins(t *testing.T) {
	s := load(t, "priority")
	s.RunID = "fixed"

	h := New(WithRunIDGenerator(engine.NewFixedGenerator()))
	result, err := h.Run(s)
	require.NoError(t, err)
	assert.Equal(t, "fixed", result.RunID)
}

func TestRunDir(t *testing.T) {
	results, err := New().RunDir(context.Background(), "testdata/scenarios")
	require.NoError(t, err)

	var names []string
	for _, r := range results {
		require.NoError(t, r.Err, r.Path)
		assert.True(t, r.Passed(), "%s: %v", r.Path, r.Result.Errors)
		names = append(names, r.Result.Name)
	}
	assert.Equal(t, []string{
		"bounded", "capacity", "collision", "example1", "priority", "transfer", "unterminated",
	}, names)
}

func TestRunDir_Broken(t *testing.T) {
	results, err := New().RunDir(context.Background(), "testdata/broken")
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, filepath.Join("testdata", "broken", "typo.yaml"), results[0].Path)
	assert.Error(t, results[0].Err)
	assert.False(t, results[0].Passed())

	require.NoError(t, results[1].Err)
	assert.False(t, results[1].Passed())
}

func TestRunDir_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().RunDir(ctx, "testdata/scenarios")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunDir_MissingDir(t *testing.T) {
	_, err := New().RunDir(context.Background(), "testdata/nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario directory")
}

func TestRunFiles_Order(t *testing.T) {
	files := []string{
		"testdata/scenarios/transfer.yaml",
		"testdata/scenarios/example1.yaml",
	}
	results, err := New().RunFiles(context.Background(), files)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "transfer", results[0].Result.Name)
	assert.Equal(t, "example1", results[1].Result.Name)
}
