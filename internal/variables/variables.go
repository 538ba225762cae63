// Package variables expands "variable" annotations into transfer rules.
//
// A program marks a group of symbols as variables with an annotation rule
//
//	|#| variables, a, b, c
//
// For every ordered pair (a, b) of distinct variables whose control symbol
// "a -> b" is used somewhere in the program (or for every pair, when
// forced) two rules are appended:
//
//	|a -> b, a| a -> b, b
//	|a -> b|
//
// While "a -> b" is present the first rule moves one a into b per firing;
// the second drains the control symbol so the transfer eventually stops.
package variables

import (
	"fmt"

	"github.com/roach88/vera/internal/ir"
)

// Reserved symbol names recognized by the pass.
const (
	AnnotationSymbol = "#"
	VariablesSymbol  = "variables"

	// ControlSeparator joins two variable names into a control symbol.
	ControlSeparator = " -> "
)

// Options controls expansion.
type Options struct {
	// Force generates transfer rules for every pair, interning control
	// symbols that do not exist yet.
	Force bool
}

// Transfer describes the rules generated for one ordered variable pair.
type Transfer struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Control string `json:"control"`

	// Rules holds the indices of the appended move and drain rules.
	Rules [2]int `json:"rules"`
}

// Report summarizes an expansion.
type Report struct {
	// Variables in discovery order.
	Variables []string `json:"variables"`

	// Transfers in the order their rules were appended.
	Transfers []Transfer `json:"transfers"`

	// Skipped lists control symbols that were not generated because the
	// program never mentions them.
	Skipped []string `json:"skipped,omitempty"`
}

// ControlName returns the control symbol name for moving from into to.
func ControlName(from, to string) string {
	return from + ControlSeparator + to
}

// Expand runs the variables pass over p, appending transfer rules in place.
//
// If the program lacks the "#" or "variables" symbol the pass does nothing.
// On error p is left unchanged.
func Expand(p *ir.Program, opts Options) (Report, error) {
	var report Report

	hash, ok := p.Symbols.Lookup(AnnotationSymbol)
	if !ok {
		return report, nil
	}
	vars, ok := p.Symbols.Lookup(VariablesSymbol)
	if !ok {
		return report, nil
	}

	variables := collect(p, hash, vars)
	if len(variables) == 0 {
		return report, nil
	}
	for _, v := range variables {
		report.Variables = append(report.Variables, p.Symbols.Name(v))
	}

	work := p.Clone()
	for _, a := range variables {
		for _, b := range variables {
			if a == b {
				continue
			}
			t, added, err := addTransfer(work, a, b, opts.Force)
			if err != nil {
				return Report{}, fmt.Errorf("variables: transfer %q: %w", t.Control, err)
			}
			if !added {
				report.Skipped = append(report.Skipped, t.Control)
				continue
			}
			report.Transfers = append(report.Transfers, t)
		}
	}

	*p = *work
	return report, nil
}

// collect returns the ordered, de-duplicated set of variable symbols named
// by annotation rules: rules whose condition is exactly {#} and whose
// result contains "variables".
func collect(p *ir.Program, hash, vars ir.SymbolID) []ir.SymbolID {
	var out []ir.SymbolID
	seen := make(map[ir.SymbolID]bool)
	for _, r := range p.Rules {
		if r.LHS.Len() != 1 || !r.LHS.Has(hash) || !r.RHS.Has(vars) {
			continue
		}
		for _, id := range r.RHS.Support() {
			if id == vars || seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func addTransfer(p *ir.Program, a, b ir.SymbolID, force bool) (Transfer, bool, error) {
	t := Transfer{
		From:    p.Symbols.Name(a),
		To:      p.Symbols.Name(b),
		Control: ControlName(p.Symbols.Name(a), p.Symbols.Name(b)),
	}

	ctl, ok := p.Symbols.Lookup(t.Control)
	if !ok {
		if !force {
			return t, false, nil
		}
		id, err := p.Symbols.Intern(t.Control)
		if err != nil {
			return t, false, err
		}
		ctl = id
	}

	move := ir.Rule{
		LHS: ir.MultisetOf(ir.Term{Symbol: ctl, Count: 1}, ir.Term{Symbol: a, Count: 1}),
		RHS: ir.MultisetOf(ir.Term{Symbol: ctl, Count: 1}, ir.Term{Symbol: b, Count: 1}),
	}
	drain := ir.Rule{
		LHS: ir.MultisetOf(ir.Term{Symbol: ctl, Count: 1}),
	}

	i, err := p.AddRule(move)
	if err != nil {
		return t, false, err
	}
	j, err := p.AddRule(drain)
	if err != nil {
		return t, false, err
	}
	t.Rules = [2]int{i, j}
	return t, true, nil
}
