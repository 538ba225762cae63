package harness

import (
	"errors"

	"github.com/roach88/vera/internal/compiler"
	"github.com/roach88/vera/internal/ir"
	"github.com/roach88/vera/internal/parser"
)

// Error kinds a scenario can expect.
const (
	ErrorUnexpectedToken     = string(parser.KindUnexpectedToken)
	ErrorUnterminatedRule    = string(parser.KindUnterminatedRule)
	ErrorCapacityExceeded    = string(parser.KindCapacityExceeded)
	ErrorIdentifierCollision = "IDENTIFIER_COLLISION"
	ErrorInvalidIdentifier   = "INVALID_IDENTIFIER"
	ErrorOther               = "ERROR"
)

func knownErrorKind(kind string) bool {
	switch kind {
	case ErrorUnexpectedToken, ErrorUnterminatedRule, ErrorCapacityExceeded,
		ErrorIdentifierCollision, ErrorInvalidIdentifier:
		return true
	}
	return false
}

// ErrorKind classifies an error produced while building, expanding or
// compiling a program.
func ErrorKind(err error) string {
	var pe *parser.ParseError
	switch {
	case errors.As(err, &pe):
		return string(pe.Kind)
	case compiler.IsCollision(err):
		return ErrorIdentifierCollision
	case compiler.IsIdentifierError(err):
		return ErrorInvalidIdentifier
	case ir.IsCapacityError(err):
		return ErrorCapacityExceeded
	default:
		return ErrorOther
	}
}

// TraceEvent records one firing.
type TraceEvent struct {
	Seq        int64  `json:"seq"`
	Rule       int    `json:"rule"`
	Executions int    `json:"executions"`
	Clause     string `json:"clause"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Name is the scenario name.
	Name string `json:"name"`

	// Pass indicates overall test success.
	Pass bool `json:"pass"`

	// RunID correlates this run with its log lines.
	RunID string `json:"run_id,omitempty"`

	// Steps is the number of firings.
	Steps int `json:"steps"`

	// Trace contains every firing in order.
	Trace []TraceEvent `json:"trace"`

	// Final holds the nonzero counts after evaluation.
	Final map[string]int `json:"final,omitempty"`

	// Compiled holds the nonzero values of the round-tripped program.
	Compiled map[string]int `json:"compiled,omitempty"`

	// ErrorKind is set when building or compiling the program failed.
	ErrorKind string `json:"error_kind,omitempty"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(name string) *Result {
	return &Result{
		Name:   name,
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Fired returns the rule index of every firing in order.
func (r *Result) Fired() []int {
	out := make([]int, len(r.Trace))
	for i, ev := range r.Trace {
		out[i] = ev.Rule
	}
	return out
}
