package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vera/internal/ir"
)

func mustParse(t *testing.T, src string) *ir.Program {
	t.Helper()
	p, err := ParseString(src, DefaultOptions())
	require.NoError(t, err)
	return p
}

func id(t *testing.T, p *ir.Program, name string) ir.SymbolID {
	t.Helper()
	got, ok := p.Symbols.Lookup(name)
	require.True(t, ok, "symbol %q not interned", name)
	return got
}

func TestParseFactsAndRule(t *testing.T) {
	p := mustParse(t, "|| x:5\n|| y:4\n|x, y| z")

	require.Len(t, p.Rules, 3)
	assert.Equal(t, byte('|'), p.Delimiter)
	assert.Equal(t, []string{"x", "y", "z"}, p.Symbols.Names())

	x, y, z := id(t, p, "x"), id(t, p, "y"), id(t, p, "z")
	assert.True(t, p.Rules[0].IsFact())
	assert.Equal(t, 5, p.Rules[0].RHS.Count(x))
	assert.Equal(t, 4, p.Rules[1].RHS.Count(y))
	assert.Equal(t, 1, p.Rules[2].LHS.Count(x))
	assert.Equal(t, 1, p.Rules[2].LHS.Count(y))
	assert.Equal(t, 1, p.Rules[2].RHS.Count(z))
}

func TestParseCustomDelimiter(t *testing.T) {
	p := mustParse(t, "$$ a\n$a$ b")

	assert.Equal(t, byte('$'), p.Delimiter)
	require.Len(t, p.Rules, 2)
	assert.Equal(t, "$a$ b", p.FormatRule(1))
}

func TestParseSymbolWhitespace(t *testing.T) {
	p := mustParse(t, "|| big   red\tapple ,  apple\n|big red apple| done")

	assert.Equal(t, []string{"big red apple", "apple", "done"}, p.Symbols.Names())
	assert.Equal(t, 1, p.Rules[1].LHS.Count(id(t, p, "big red apple")))
}

func TestParseRepeatedSymbolsSum(t *testing.T) {
	p := mustParse(t, "|| a, a, a:3")
	assert.Equal(t, 5, p.Rules[0].RHS.Count(id(t, p, "a")))
}

func TestParseEmptyRHS(t *testing.T) {
	p := mustParse(t, "|a|\n|b|")

	require.Len(t, p.Rules, 2)
	assert.True(t, p.Rules[0].RHS.IsEmpty())
	assert.True(t, p.Rules[1].RHS.IsEmpty())
	assert.Equal(t, 1, p.Rules[1].LHS.Count(id(t, p, "b")))
}

func TestParseAdjacentClauses(t *testing.T) {
	p := mustParse(t, "|a||b|c")

	require.Len(t, p.Rules, 2)
	assert.Equal(t, "|a|", p.FormatRule(0))
	assert.Equal(t, "|b| c", p.FormatRule(1))
}

func TestParseZeroCount(t *testing.T) {
	// A zero count interns the symbol but leaves the condition empty, so
	// the clause behaves as a fact.
	p := mustParse(t, "|x:0| y")

	assert.Equal(t, []string{"x", "y"}, p.Symbols.Names())
	assert.True(t, p.Rules[0].IsFact())
}

func TestParseLargestCount(t *testing.T) {
	p := mustParse(t, "|| a:2147483647")
	assert.Equal(t, ir.MaxLiteralCount, p.Rules[0].RHS.Count(id(t, p, "a")))
}

func TestParseWithoutImplicitConstants(t *testing.T) {
	opts := DefaultOptions()
	opts.ImplicitConstants = false

	p, err := ParseString("|| x:5", opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"x:5"}, p.Symbols.Names())
	assert.Equal(t, 1, p.Rules[0].RHS.Count(id(t, p, "x:5")))
}

func TestParseEmptySource(t *testing.T) {
	p, err := Parse(nil, DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, p.Rules)
	assert.Equal(t, 0, p.Symbols.Len())
}

func TestParseSymbolSpansLines(t *testing.T) {
	// Newlines are whitespace, so a symbol runs until the next separator.
	p := mustParse(t, "|| a\nb")
	assert.Equal(t, []string{"a b"}, p.Symbols.Names())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		kind   Kind
		line   int
		column int
	}{
		{"unterminated rule", "|| a\n|a, b", KindUnterminatedRule, 2, 1},
		{"empty symbol in list", "|| a,,b", KindUnexpectedToken, 1, 6},
		{"empty condition", "| | b", KindUnexpectedToken, 1, 3},
		{"trailing comma", "|| a,", KindUnexpectedToken, 1, 6},
		{"missing count", "|| a:", KindUnexpectedToken, 1, 6},
		{"negative count", "|| a:-1", KindUnexpectedToken, 1, 6},
		{"junk after count", "|| a:2b", KindUnexpectedToken, 1, 7},
		{"lone delimiter", "|   \n", KindUnexpectedToken, 2, 1},
		{"whitespace delimiter", " || a", KindUnexpectedToken, 1, 1},
		{"comma delimiter", ",, a", KindUnexpectedToken, 1, 1},
		{"colon delimiter", "::a", KindUnexpectedToken, 1, 1},
		{"count overflow", "|| a:99999999999999999999", KindUnexpectedToken, 1, 6},
		{"count past literal max", "|| a:9223372036854775807", KindUnexpectedToken, 1, 6},
		{"count one past int32", "|| a:2147483648", KindUnexpectedToken, 1, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseString(tt.src, DefaultOptions())
			require.Error(t, err)
			assert.Nil(t, p)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.kind, pe.Kind, pe.Error())
			assert.Equal(t, tt.line, pe.Line, "line")
			assert.Equal(t, tt.column, pe.Column, "column")
			assert.True(t, IsKind(err, tt.kind))
		})
	}
}

func TestParseColonDelimiterWithoutImplicitConstants(t *testing.T) {
	opts := DefaultOptions()
	opts.ImplicitConstants = false

	p, err := ParseString("::a\n:a: b", opts)
	require.NoError(t, err)
	assert.Len(t, p.Rules, 2)
}

func TestParseSymbolCapacity(t *testing.T) {
	opts := DefaultOptions()
	opts.Limits = ir.Limits{MaxSymbols: 2}

	_, err := ParseString("|| a, b\n|a| c", opts)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindCapacityExceeded))
	assert.True(t, ir.IsCapacityError(err))

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, pe.Line)
}

func TestParseRuleCapacity(t *testing.T) {
	opts := DefaultOptions()
	opts.Limits = ir.Limits{MaxRules: 2}

	src := strings.Repeat("|| a\n", 3)
	_, err := ParseString(src, opts)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindCapacityExceeded))

	var ce *ir.CapacityError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ir.ResourceRules, ce.Resource)
}

func TestParseErrorMessage(t *testing.T) {
	_, err := ParseString("|| a\n|a, b", DefaultOptions())
	require.Error(t, err)
	assert.Equal(t, `2:1: UNTERMINATED_RULE: rule condition is never closed by '|'`, err.Error())
}

func TestParseFormatRoundTrip(t *testing.T) {
	src := "|| x:5\n|| y:4\n|x, y| z\n|z:2|\n"
	p := mustParse(t, src)
	assert.Equal(t, src, p.Format())

	again := mustParse(t, p.Format())
	assert.Equal(t, p.MustFingerprint(), again.MustFingerprint())
}
