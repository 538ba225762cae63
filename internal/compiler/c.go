package compiler

import (
	"bufio"
	"fmt"
	"io"
)

var cReserved = setOf(
	// C keywords
	"auto", "break", "case", "char", "const", "continue", "default", "do",
	"double", "else", "enum", "extern", "float", "for", "goto", "if",
	"inline", "int", "long", "register", "restrict", "return", "short",
	"signed", "sizeof", "static", "struct", "switch", "typedef", "union",
	"unsigned", "void", "volatile", "while", "_Bool", "_Complex", "_Imaginary",
	// <limits.h>
	"LLONG_MAX", "LLONG_MIN", "INT_MAX", "INT_MIN", "CHAR_BIT",
	// <stdio.h>, included under DEBUG
	"FILE", "EOF", "NULL", "BUFSIZ", "stdin", "stdout", "stderr", "size_t",
	"fpos_t", "printf", "fprintf", "sprintf", "puts", "putchar", "getchar",
	"fopen", "fclose", "fflush", "remove", "rename",
	// generated names
	"step", "eval", ExecutionsIdent, "MIN", "vera_add", "vera_mul", "printout", "main",
)

var cArith = arith{min: "MIN", add: "vera_add", mul: "vera_mul"}

// CTarget renders C source with static long long state, int step() and
// void eval(). Counts saturate at LLONG_MAX. Defining DEBUG adds
// printout() and main().
type CTarget struct{}

// NewCTarget returns the C target.
func NewCTarget() *CTarget {
	return &CTarget{}
}

// Name implements Target.
func (*CTarget) Name() string {
	return TargetC
}

// Check implements Target.
func (*CTarget) Check(u *Unit) error {
	return checkIdents(u, TargetC, asciiIdent.MatchString, cReserved)
}

const cPrelude = `#include <limits.h>

#define MIN(x, y) (((x) < (y)) ? (x) : (y))

static long long vera_add(long long x, long long y) {
	return x > LLONG_MAX - y ? LLONG_MAX : x + y;
}

static long long vera_mul(long long x, long long y) {
	return y != 0 && x > LLONG_MAX / y ? LLONG_MAX : x * y;
}

`

// Render implements Target.
func (*CTarget) Render(w io.Writer, u *Unit) error {
	bw := bufio.NewWriter(w)

	bw.WriteString(cPrelude)
	for _, v := range u.Vars {
		fmt.Fprintf(bw, "static long long %s = %d;\n", v.Ident, v.Init)
	}
	fmt.Fprintf(bw, "\nlong long %s = 0;\n\n", ExecutionsIdent)

	fmt.Fprint(bw, "int step() {\n")
	for _, br := range u.Branches {
		bw.WriteString("\t")
		if br.Index > 0 {
			bw.WriteString("else ")
		}
		fmt.Fprintf(bw, "if (%s) {\n", condition(u, br.Cond))
		for _, st := range br.Body {
			fmt.Fprintf(bw, "\t\t%s;\n", cStmt(u, st))
		}
		bw.WriteString("\t}\n")
	}
	bw.WriteString("\treturn -1;\n}\n")

	bw.WriteString("\nvoid eval() {\n\tint out = 0;\n\twhile (out != -1) {\n\t\tout = step();\n\t}\n}")

	bw.WriteString("\n\n#ifdef DEBUG\n")
	bw.WriteString("\n#include <stdio.h>\n")
	bw.WriteString("\nvoid printout() {\n")
	for _, v := range u.Vars {
		fmt.Fprintf(bw, "\tprintf(\"%%lld,\", %s);\n", v.Ident)
	}
	bw.WriteString("\tprintf(\"\\n\");\n}\n")
	bw.WriteString("\nint main() {\n\teval();\n\tprintout();\n}\n")
	bw.WriteString("\n#endif\n")

	return bw.Flush()
}

func cStmt(u *Unit, st Stmt) string {
	switch s := st.(type) {
	case Assign:
		return assignment(u, s, cArith)
	case Return:
		return fmt.Sprintf("return %d", s.Value)
	default:
		panic(fmt.Sprintf("compiler: unknown statement %T", st))
	}
}

func setOf(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}
