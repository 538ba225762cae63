package compiler

import (
	"fmt"

	"github.com/roach88/vera/internal/ir"
)

// Lower builds the Unit for p. init holds the seeded count of every symbol
// in id order (see engine.Accumulator.Counts); missing entries are zero.
//
// Lower fails with a *CollisionError when two symbols share an identifier.
func Lower(p *ir.Program, init []int) (*Unit, error) {
	n := p.Symbols.Len()
	if len(init) > n {
		return nil, fmt.Errorf("lower: %d initial values for %d symbols", len(init), n)
	}

	u := &Unit{Vars: make([]Var, n)}
	owner := make(map[string]string, n)
	for i := 0; i < n; i++ {
		name := p.Symbols.Name(ir.SymbolID(i))
		ident := Sanitize(name)
		if first, ok := owner[ident]; ok {
			return nil, &CollisionError{Ident: ident, First: first, Second: name}
		}
		owner[ident] = name

		v := Var{Symbol: name, Ident: ident}
		if i < len(init) {
			v.Init = init[i]
		}
		u.Vars[i] = v
	}

	for ri, r := range p.Rules {
		if r.IsFact() {
			continue
		}
		u.Branches = append(u.Branches, lowerRule(ri, len(u.Branches), r))
	}
	return u, nil
}

func lowerRule(ruleIndex, branchIndex int, r ir.Rule) Branch {
	support := r.LHS.Support()
	b := Branch{
		Index: branchIndex,
		Rule:  ruleIndex,
		Cond:  make([]int, len(support)),
	}

	var executions Expr = Ref{Var: int(support[0])}
	for i, id := range support {
		b.Cond[i] = int(id)
		if i > 0 {
			executions = Min{X: executions, Y: Ref{Var: int(id)}}
		}
	}
	b.Body = append(b.Body, Assign{Var: ExecutionsVar, Op: OpSet, Value: executions})

	for _, id := range support {
		b.Body = append(b.Body, Assign{Var: int(id), Op: OpSub, Value: Ref{Var: ExecutionsVar}})
	}
	for _, t := range r.RHS.Terms() {
		var amount Expr = Ref{Var: ExecutionsVar}
		if t.Count != 1 {
			amount = Mul{X: amount, Y: Lit{Value: t.Count}}
		}
		b.Body = append(b.Body, Assign{Var: int(t.Symbol), Op: OpAdd, Value: amount})
	}

	b.Body = append(b.Body, Return{Value: branchIndex})
	return b
}
