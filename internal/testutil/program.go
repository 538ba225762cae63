// Package testutil holds helpers shared by tests across packages.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/vera/internal/ir"
	"github.com/roach88/vera/internal/parser"
)

// MustParse parses src with default options and fails the test on error.
func MustParse(t testing.TB, src string) *ir.Program {
	t.Helper()
	return MustParseWith(t, src, parser.DefaultOptions())
}

// MustParseWith parses src with opts and fails the test on error.
func MustParseWith(t testing.TB, src string, opts parser.Options) *ir.Program {
	t.Helper()
	p, err := parser.ParseString(src, opts)
	require.NoError(t, err, "parse %q", src)
	return p
}

// Symbol returns the id of name in p and fails the test if it is unknown.
func Symbol(t testing.TB, p *ir.Program, name string) ir.SymbolID {
	t.Helper()
	id, ok := p.Symbols.Lookup(name)
	require.True(t, ok, "symbol %q not interned", name)
	return id
}
