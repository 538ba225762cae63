package engine

import (
	"fmt"
	"io"
)

// Trace evaluates in and writes every intermediate bag to w.
//
// The output alternates the rendered accumulator with a "Matched rule N..."
// line; the last match line reports -1 and is followed by the final bag.
// A negative maxSteps means no limit. Trace returns the number of firings.
func Trace(w io.Writer, in *Interpreter, maxSteps int) (int, error) {
	budget := NewStepBudget(maxSteps)
	for {
		if err := in.acc.Render(w); err != nil {
			return budget.Used(), err
		}
		if budget.Exhausted() {
			in.logger.Debug("step budget exhausted", "limit", budget.Limit())
			return budget.Used(), nil
		}

		rule := -1
		f, ok := in.Step()
		if ok {
			rule = f.Rule
			budget.Record()
		}
		if _, err := fmt.Fprintf(w, "Matched rule %d...\n", rule); err != nil {
			return budget.Used(), err
		}
		if !ok {
			return budget.Used(), in.acc.Render(w)
		}
	}
}
