package engine

import (
	"log/slog"

	"github.com/roach88/vera/internal/ir"
)

// Firing records one successful step.
type Firing struct {
	// Seq is the 1-based position of this firing in the run.
	Seq int64 `json:"seq"`

	// Rule is the index of the fired rule in declaration order.
	Rule int `json:"rule"`

	// Executions is how many times the rule applied at once.
	Executions int `json:"executions"`

	// Saturated is set when a result count was clamped at ir.MaxCount.
	Saturated bool `json:"saturated,omitempty"`
}

// Observer is called after every firing, once the accumulator has been
// updated.
type Observer func(f Firing)

// Interpreter fires the rules of one program against its own accumulator.
//
// The program is treated as read-only. An Interpreter is not safe for
// concurrent use; independent runs use independent interpreters.
type Interpreter struct {
	prog      *ir.Program
	acc       *Accumulator
	clock     *Clock
	logger    *slog.Logger
	runID     string
	observers []Observer
	populated int
	saturated bool
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(in *Interpreter) {
		if l != nil {
			in.logger = l
		}
	}
}

// WithRunID tags every log line of this interpreter with run_id.
func WithRunID(id string) Option {
	return func(in *Interpreter) {
		in.runID = id
	}
}

// WithObserver registers fn to be called after every firing.
func WithObserver(fn Observer) Option {
	return func(in *Interpreter) {
		in.observers = append(in.observers, fn)
	}
}

// New creates an interpreter for p with an all-zero accumulator.
// PopulateFacts must be called before stepping.
func New(p *ir.Program, opts ...Option) *Interpreter {
	in := &Interpreter{
		prog:   p,
		acc:    NewAccumulator(p.Symbols),
		clock:  NewClock(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(in)
	}
	if in.runID != "" {
		in.logger = in.logger.With("run_id", in.runID)
	}
	return in
}

// RunID returns the run identifier, or "" if none was set.
func (in *Interpreter) RunID() string {
	return in.runID
}

// Program returns the program being interpreted.
func (in *Interpreter) Program() *ir.Program {
	return in.prog
}

// Accumulator returns the live accumulator.
func (in *Interpreter) Accumulator() *Accumulator {
	return in.acc
}

// Steps returns the number of firings performed so far.
func (in *Interpreter) Steps() int64 {
	return in.clock.Current()
}

// PopulateFacts adds the result of every fact into the accumulator.
//
// It is not idempotent: a second call adds every fact again.
func (in *Interpreter) PopulateFacts() {
	in.populated++
	if in.populated > 1 {
		in.logger.Warn("facts populated more than once", "times", in.populated)
	}

	facts := 0
	for i, r := range in.prog.Rules {
		if r.IsFact() {
			if in.acc.add(r.RHS, 1) {
				in.logger.Warn("fact count saturated", "rule", i, "max", ir.MaxCount)
			}
			facts++
		}
	}
	in.logger.Debug("facts populated", "facts", facts, "symbols", in.acc.Len())
}

// Step fires the first applicable rule. It returns false when no rule
// applies, which means the program has reached its fixed point.
func (in *Interpreter) Step() (Firing, bool) {
	for i, r := range in.prog.Rules {
		if !in.applicable(r) {
			continue
		}

		// executions never exceeds a condition count, so the subtraction
		// stays non-negative.
		executions := in.executions(r)
		for _, t := range r.LHS.Terms() {
			in.acc.counts[t.Symbol] -= executions
		}
		saturated := in.acc.add(r.RHS, executions)

		f := Firing{
			Seq:        in.clock.Next(),
			Rule:       i,
			Executions: executions,
			Saturated:  saturated,
		}
		if saturated && !in.saturated {
			in.saturated = true
			in.logger.Warn("count saturated", "rule", i, "seq", f.Seq, "max", ir.MaxCount)
		}
		for _, obs := range in.observers {
			obs(f)
		}
		return f, true
	}
	return Firing{}, false
}

// Eval steps until no rule applies or maxSteps firings have happened.
// A negative maxSteps (see Unbounded) means no limit; 0 takes no step.
// It returns the number of firings.
func (in *Interpreter) Eval(maxSteps int) int {
	budget := NewStepBudget(maxSteps)
	for !budget.Exhausted() {
		if _, ok := in.Step(); !ok {
			return budget.Used()
		}
		budget.Record()
	}
	in.logger.Debug("step budget exhausted", "limit", budget.Limit())
	return budget.Used()
}

// applicable reports whether every condition symbol is present. Facts are
// never applicable.
func (in *Interpreter) applicable(r ir.Rule) bool {
	if r.IsFact() {
		return false
	}
	for _, t := range r.LHS.Terms() {
		if in.acc.counts[t.Symbol] <= 0 {
			return false
		}
	}
	return true
}

// executions is the least count among the condition symbols.
func (in *Interpreter) executions(r ir.Rule) int {
	terms := r.LHS.Terms()
	least := in.acc.counts[terms[0].Symbol]
	for _, t := range terms[1:] {
		least = min(least, in.acc.counts[t.Symbol])
	}
	return least
}

// Result is the outcome of a complete run.
type Result struct {
	Steps int            `json:"steps"`
	Final map[string]int `json:"final"`
}

// Run seeds a fresh interpreter for p and evaluates it.
func Run(p *ir.Program, maxSteps int, opts ...Option) Result {
	in := New(p, opts...)
	in.PopulateFacts()
	steps := in.Eval(maxSteps)
	return Result{Steps: steps, Final: in.acc.Snapshot()}
}
