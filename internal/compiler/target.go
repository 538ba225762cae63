package compiler

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"github.com/roach88/vera/internal/ir"
)

// Target renders a Unit in one language.
type Target interface {
	// Name is the target's command-line name ("c", "go").
	Name() string

	// Check rejects identifiers the target cannot declare.
	Check(u *Unit) error

	// Render writes the source text of u to w.
	Render(w io.Writer, u *Unit) error
}

// Options configures target construction.
type Options struct {
	// Package is the Go package clause. Default: DefaultPackage.
	Package string

	// Debug adds the Values accessor to Go output. C output always carries
	// its printout under #ifdef DEBUG.
	Debug bool
}

// Supported target names.
const (
	TargetC  = "c"
	TargetGo = "go"
)

// NewTarget returns the target registered under name.
func NewTarget(name string, opts Options) (Target, error) {
	switch name {
	case TargetC, "":
		return NewCTarget(), nil
	case TargetGo:
		return NewGoTarget(opts)
	default:
		return nil, fmt.Errorf("unknown target %q (want %q or %q)", name, TargetC, TargetGo)
	}
}

// Compile lowers p with the given initial values, checks identifiers
// against t and returns the rendered source.
func Compile(p *ir.Program, init []int, t Target) ([]byte, error) {
	u, err := Lower(p, init)
	if err != nil {
		return nil, err
	}
	if err := t.Check(u); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := t.Render(&buf, u); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var asciiIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// checkIdents applies valid and reserved to every variable of u.
func checkIdents(u *Unit, target string, valid func(string) bool, reserved map[string]bool) error {
	for _, v := range u.Vars {
		switch {
		case !valid(v.Ident):
			return &IdentifierError{Symbol: v.Symbol, Ident: v.Ident, Target: target, Reason: "is not a valid identifier"}
		case reserved[v.Ident]:
			return &IdentifierError{Symbol: v.Symbol, Ident: v.Ident, Target: target, Reason: "is reserved"}
		}
	}
	return nil
}

// arith names the helper functions a target emits for Min, Mul and the
// saturating add behind OpAdd.
type arith struct {
	min, add, mul string
}

// formatExpr prints e with the helpers of a.
func formatExpr(u *Unit, e Expr, a arith) string {
	switch x := e.(type) {
	case Ref:
		return u.ident(x.Var)
	case Lit:
		return strconv.Itoa(x.Value)
	case Min:
		return a.min + "(" + formatExpr(u, x.X, a) + ", " + formatExpr(u, x.Y, a) + ")"
	case Mul:
		return a.mul + "(" + formatExpr(u, x.X, a) + ", " + formatExpr(u, x.Y, a) + ")"
	default:
		panic(fmt.Sprintf("compiler: unknown expression %T", e))
	}
}

// assignment prints s. OpAdd goes through a.add so counts clamp at the
// largest value instead of wrapping.
func assignment(u *Unit, s Assign, a arith) string {
	v := u.ident(s.Var)
	val := formatExpr(u, s.Value, a)
	if s.Op == OpAdd {
		return v + " = " + a.add + "(" + v + ", " + val + ")"
	}
	return v + " " + s.Op.String() + " " + val
}

// condition joins "v > 0" over vars with &&.
func condition(u *Unit, vars []int) string {
	var b bytes.Buffer
	for i, v := range vars {
		if i > 0 {
			b.WriteString(" && ")
		}
		b.WriteString(u.ident(v))
		b.WriteString(" > 0")
	}
	return b.String()
}
