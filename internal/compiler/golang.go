package compiler

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"io"
	"strconv"
)

// DefaultPackage is the package clause of generated Go code.
const DefaultPackage = "vera"

var goReserved = setOf(
	// predeclared identifiers
	"any", "bool", "byte", "comparable", "complex64", "complex128", "error",
	"float32", "float64", "int", "int8", "int16", "int32", "int64", "rune",
	"string", "uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
	"true", "false", "iota", "nil",
	"append", "cap", "clear", "close", "complex", "copy", "delete", "imag",
	"len", "make", "max", "min", "new", "panic", "print", "println", "real",
	"recover",
	// not declarable at package level
	"_", "init",
	// imported package
	"math",
	// generated names
	"step", "eval", ExecutionsIdent, "veraMax", "veraMin", "veraAdd", "veraMul",
	"Step", "Eval", "Values",
)

var goArith = arith{min: "veraMin", add: "veraAdd", mul: "veraMul"}

const goHelpers = `const veraMax = math.MaxInt

func veraMin(a, b int) int {
if a < b {
return a
}
return b
}

func veraAdd(a, b int) int {
if a > veraMax-b {
return veraMax
}
return a + b
}

func veraMul(a, b int) int {
if b != 0 && a > veraMax/b {
return veraMax
}
return a * b
}

`

// GoTarget renders a Go file with package-level int state, Step and Eval.
// Counts saturate at the largest int. With Debug it also exports Values.
type GoTarget struct {
	pkg   string
	debug bool
}

// NewGoTarget returns the Go target. It rejects an invalid package name.
func NewGoTarget(opts Options) (*GoTarget, error) {
	pkg := opts.Package
	if pkg == "" {
		pkg = DefaultPackage
	}
	if !token.IsIdentifier(pkg) || pkg == "_" {
		return nil, fmt.Errorf("invalid Go package name %q", pkg)
	}
	return &GoTarget{pkg: pkg, debug: opts.Debug}, nil
}

// Name implements Target.
func (*GoTarget) Name() string {
	return TargetGo
}

// Package returns the package clause name.
func (g *GoTarget) Package() string {
	return g.pkg
}

// Check implements Target.
func (*GoTarget) Check(u *Unit) error {
	valid := func(s string) bool {
		return asciiIdent.MatchString(s) && !token.IsKeyword(s)
	}
	return checkIdents(u, TargetGo, valid, goReserved)
}

// Render implements Target. The output is gofmt-formatted.
func (g *GoTarget) Render(w io.Writer, u *Unit) error {
	var b bytes.Buffer

	b.WriteString("// Code generated by vera. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", g.pkg)
	b.WriteString("import \"math\"\n\n")

	if len(u.Vars) > 0 {
		b.WriteString("var (\n")
		for _, v := range u.Vars {
			fmt.Fprintf(&b, "%s = %d\n", v.Ident, v.Init)
		}
		b.WriteString(")\n\n")
	}
	fmt.Fprintf(&b, "var %s = 0\n\n", ExecutionsIdent)

	b.WriteString(goHelpers)

	b.WriteString("func step() int {\n")
	for _, br := range u.Branches {
		if br.Index > 0 {
			b.WriteString(" else ")
		}
		fmt.Fprintf(&b, "if %s {\n", condition(u, br.Cond))
		for _, st := range br.Body {
			b.WriteString(goStmt(u, st))
			b.WriteByte('\n')
		}
		b.WriteString("}")
	}
	if len(u.Branches) > 0 {
		b.WriteByte('\n')
	}
	b.WriteString("return -1\n}\n\n")

	b.WriteString("func eval() {\nout := 0\nfor out != -1 {\nout = step()\n}\n}\n\n")

	b.WriteString("// Step fires the first applicable rule and returns its branch index, or -1.\n")
	b.WriteString("func Step() int {\nreturn step()\n}\n\n")
	b.WriteString("// Eval steps until no rule applies.\n")
	b.WriteString("func Eval() {\neval()\n}\n")

	if g.debug {
		b.WriteString("\n// Values returns the current value of every symbol.\n")
		b.WriteString("func Values() map[string]int {\nreturn map[string]int{\n")
		for _, v := range u.Vars {
			fmt.Fprintf(&b, "%s: %s,\n", strconv.Quote(v.Symbol), v.Ident)
		}
		b.WriteString("}\n}\n")
	}

	src, err := format.Source(b.Bytes())
	if err != nil {
		return fmt.Errorf("format generated Go: %w", err)
	}
	_, err = w.Write(src)
	return err
}

func goStmt(u *Unit, st Stmt) string {
	switch s := st.(type) {
	case Assign:
		return assignment(u, s, goArith)
	case Return:
		return "return " + strconv.Itoa(s.Value)
	default:
		panic(fmt.Sprintf("compiler: unknown statement %T", st))
	}
}
