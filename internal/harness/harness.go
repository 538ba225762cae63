package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/vera/internal/compiler"
	"github.com/roach88/vera/internal/engine"
	"github.com/roach88/vera/internal/ir"
	"github.com/roach88/vera/internal/parser"
	"github.com/roach88/vera/internal/variables"
)

// Harness is the test execution engine.
// It runs scenarios against the real parser, variables pass and
// interpreter, and optionally against compiled Go code.
type Harness struct {
	logger *slog.Logger
	runIDs engine.RunIDGenerator
	limits ir.Limits
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger. Scenario runs are silent by default.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithRunIDGenerator sets the source of run IDs for scenarios that do not
// fix their own.
func WithRunIDGenerator(g engine.RunIDGenerator) Option {
	return func(h *Harness) {
		if g != nil {
			h.runIDs = g
		}
	}
}

// WithLimits sets the default capacity limits.
func WithLimits(l ir.Limits) Option {
	return func(h *Harness) { h.limits = l }
}

// New creates a harness.
func New(opts ...Option) *Harness {
	h := &Harness{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
		runIDs: engine.UUIDv7Generator{},
		limits: ir.DefaultLimits(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes a test scenario with a default harness.
func Run(scenario *Scenario) (*Result, error) {
	return New().Run(scenario)
}

// Run executes a test scenario and returns the result.
//
// Execution flow:
//  1. Parse the source with the scenario's options
//  2. Run the variables pass if requested
//  3. Populate facts and evaluate, recording every firing
//  4. Compile to Go and execute it if round_trip is set
//  5. Evaluate expectations
//
// Program errors (parse, capacity, identifier) are outcomes, not failures
// of Run: they are reported in Result.ErrorKind and checked against
// expect.error. The returned error is reserved for scenarios that cannot be
// executed at all, such as an unreadable source file.
func (h *Harness) Run(scenario *Scenario) (*Result, error) {
	src, err := scenario.source()
	if err != nil {
		return nil, err
	}

	runID := scenario.RunID
	if runID == "" {
		runID = h.runIDs.Generate()
	}
	logger := h.logger.With("scenario", scenario.Name)

	result := NewResult(scenario.Name)
	result.RunID = runID

	if err := h.execute(scenario, src, runID, logger, result); err != nil {
		result.ErrorKind = ErrorKind(err)
		logger.Info("scenario stopped", "error_kind", result.ErrorKind, "error", err)
		if scenario.Expect.Error == "" {
			result.AddError(err.Error())
			return result, nil
		}
	}

	for _, aerr := range EvaluateAssertions(result, scenario.Expect) {
		result.AddError(aerr.Error())
	}

	logger.Info("scenario completed", "pass", result.Pass, "steps", result.Steps)
	return result, nil
}

func (h *Harness) execute(s *Scenario, src []byte, runID string, logger *slog.Logger, result *Result) error {
	limits := h.limits
	if s.Limits != nil {
		limits = *s.Limits
	}

	prog, err := parser.Parse(src, parser.Options{
		ImplicitConstants: s.ImplicitConstantsEnabled(),
		Limits:            limits,
	})
	if err != nil {
		return err
	}

	if s.Variables {
		report, err := variables.Expand(prog, variables.Options{Force: s.Force})
		if err != nil {
			return fmt.Errorf("variables pass: %w", err)
		}
		logger.Debug("variables expanded",
			"variables", len(report.Variables),
			"transfers", len(report.Transfers),
			"skipped", len(report.Skipped),
		)
	}

	in := engine.New(prog,
		engine.WithLogger(logger),
		engine.WithRunID(runID),
		engine.WithObserver(func(f engine.Firing) {
			result.Trace = append(result.Trace, TraceEvent{
				Seq:        f.Seq,
				Rule:       f.Rule,
				Executions: f.Executions,
				Clause:     prog.FormatRule(f.Rule),
			})
		}),
	)
	in.PopulateFacts()
	seed := in.Accumulator().Counts()

	result.Steps = in.Eval(s.StepLimit())
	result.Final = in.Accumulator().Snapshot()

	if !s.RoundTrip {
		return nil
	}

	target, err := compiler.NewTarget(compiler.TargetGo, compiler.Options{Debug: true})
	if err != nil {
		return err
	}
	code, err := compiler.Compile(prog, seed, target)
	if err != nil {
		return err
	}
	values, err := compiler.RunGo(code, compiler.DefaultPackage)
	if err != nil {
		return fmt.Errorf("round trip: %w", err)
	}
	result.Compiled = nonzero(values)
	return nil
}

func nonzero(values map[string]int) map[string]int {
	out := make(map[string]int, len(values))
	for name, n := range values {
		if n != 0 {
			out[name] = n
		}
	}
	return out
}
