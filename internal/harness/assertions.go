package harness

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] rule %d x%d %s\n", event.Seq, event.Rule, event.Executions, event.Clause)
		}
	}

	return buf.String()
}

// EvaluateAssertions checks a result against a scenario's expectations.
// It returns one AssertionError per failed expectation.
func EvaluateAssertions(result *Result, expect Expect) []*AssertionError {
	var errs []*AssertionError

	if expect.Error != "" {
		if result.ErrorKind != expect.Error {
			actual := result.ErrorKind
			if actual == "" {
				actual = "no error"
			}
			errs = append(errs, &AssertionError{
				Type:     "error",
				Expected: expect.Error,
				Actual:   actual,
				Trace:    result.Trace,
			})
		}
		return errs
	}

	if expect.Steps != nil && result.Steps != *expect.Steps {
		errs = append(errs, &AssertionError{
			Type:     "steps",
			Expected: fmt.Sprintf("%d steps", *expect.Steps),
			Actual:   fmt.Sprintf("%d steps", result.Steps),
			Trace:    result.Trace,
		})
	}

	if expect.Fired != nil {
		if fired := result.Fired(); !slices.Equal(fired, expect.Fired) {
			errs = append(errs, &AssertionError{
				Type:     "fired",
				Expected: fmt.Sprintf("%v", expect.Fired),
				Actual:   fmt.Sprintf("%v", fired),
				Trace:    result.Trace,
			})
		}
	}

	if expect.Final != nil {
		if err := assertBag("final", expect.Final, result.Final, result.Trace); err != nil {
			errs = append(errs, err)
		}
	}

	// The compiled program must agree with the interpreter, not only with
	// the expectation.
	if result.Compiled != nil {
		if err := assertBag("round_trip", result.Final, result.Compiled, result.Trace); err != nil {
			errs = append(errs, err)
		}
	}

	return errs
}

// assertBag compares two bags exactly. Zero entries in want match absent
// entries in got.
func assertBag(kind string, want, got map[string]int, trace []TraceEvent) *AssertionError {
	names := make(map[string]bool, len(want)+len(got))
	for name := range want {
		names[name] = true
	}
	for name := range got {
		names[name] = true
	}

	var diffs []string
	for _, name := range sortedKeys(names) {
		if want[name] != got[name] {
			diffs = append(diffs, fmt.Sprintf("%q: want %d, got %d", name, want[name], got[name]))
		}
	}
	if len(diffs) == 0 {
		return nil
	}

	return &AssertionError{
		Type:     kind,
		Expected: formatBag(want),
		Actual:   fmt.Sprintf("%s (%s)", formatBag(got), strings.Join(diffs, "; ")),
		Trace:    trace,
	}
}

// formatBag renders a bag with keys sorted, skipping zeros.
func formatBag(bag map[string]int) string {
	keys := make(map[string]bool, len(bag))
	for k, v := range bag {
		if v != 0 {
			keys[k] = true
		}
	}
	parts := make([]string, 0, len(keys))
	for _, k := range sortedKeys(keys) {
		parts = append(parts, fmt.Sprintf("%s:%d", k, bag[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
