package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/vera/internal/ir"
)

// TraceSnapshot captures the complete trace for a scenario execution.
// All fields use canonical JSON serialization for deterministic comparison.
type TraceSnapshot struct {
	ScenarioName string         `json:"name"`
	Steps        int            `json:"steps"`
	Final        map[string]int `json:"final"`
	Trace        []TraceEvent   `json:"trace"`
}

// toCanonicalMap converts a TraceSnapshot to a map[string]any for canonical JSON serialization.
// The run ID is left out so snapshots do not depend on it.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	traceList := make([]any, len(s.Trace))
	for i, event := range s.Trace {
		traceList[i] = map[string]any{
			"seq":        event.Seq,
			"rule":       int64(event.Rule),
			"executions": int64(event.Executions),
		}
	}

	final := make(map[string]any, len(s.Final))
	for name, n := range s.Final {
		final[name] = int64(n)
	}

	return map[string]any{
		"name":  s.ScenarioName,
		"steps": int64(s.Steps),
		"final": final,
		"trace": traceList,
	}
}

// Marshal returns the canonical JSON form of the snapshot.
func (s *TraceSnapshot) Marshal() ([]byte, error) {
	return ir.MarshalCanonical(s.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := TraceSnapshot{
		ScenarioName: scenarioName,
		Steps:        result.Steps,
		Final:        result.Final,
		Trace:        result.Trace,
	}
	traceJSON, err := snapshot.Marshal()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)

	return nil
}
