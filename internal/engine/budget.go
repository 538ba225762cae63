package engine

// Unbounded is the step limit that never runs out.
const Unbounded = -1

// StepBudget bounds the number of firings a single Eval may perform.
//
// Running out of budget is not an error; Eval simply returns early with the
// number of steps it completed.
type StepBudget struct {
	limit int // negative means unbounded
	used  int
}

// NewStepBudget creates a budget of limit steps. A negative limit is
// unbounded; a limit of 0 allows no steps at all.
func NewStepBudget(limit int) *StepBudget {
	if limit < 0 {
		limit = Unbounded
	}
	return &StepBudget{limit: limit}
}

// Exhausted reports whether no further steps are allowed.
func (b *StepBudget) Exhausted() bool {
	return b.limit >= 0 && b.used >= b.limit
}

// Record counts one completed step.
func (b *StepBudget) Record() {
	b.used++
}

// Used returns the number of recorded steps.
func (b *StepBudget) Used() int {
	return b.used
}

// Limit returns the configured limit, or Unbounded.
func (b *StepBudget) Limit() int {
	return b.limit
}

// Remaining returns how many steps are left, or -1 when unbounded.
func (b *StepBudget) Remaining() int {
	if b.limit < 0 {
		return -1
	}
	return b.limit - b.used
}
