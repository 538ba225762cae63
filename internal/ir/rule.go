package ir

// Rule pairs a condition multiset with a result multiset.
type Rule struct {
	LHS Multiset
	RHS Multiset
}

// IsFact reports whether the rule has an empty left-hand side.
// Facts are folded into the accumulator once, before the first step.
func (r Rule) IsFact() bool {
	return r.LHS.IsEmpty()
}

// Clone returns an independent copy.
func (r Rule) Clone() Rule {
	return Rule{LHS: r.LHS.Clone(), RHS: r.RHS.Clone()}
}
