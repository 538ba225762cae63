package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildProgram(t *testing.T) *Program {
	t.Helper()
	p := NewProgram('|', DefaultLimits())
	x, err := p.Symbols.Intern("x")
	require.NoError(t, err)
	y, err := p.Symbols.Intern("y")
	require.NoError(t, err)
	z, err := p.Symbols.Intern("z")
	require.NoError(t, err)

	_, err = p.AddRule(Rule{RHS: MultisetOf(Term{Symbol: x, Count: 5})})
	require.NoError(t, err)
	_, err = p.AddRule(Rule{RHS: MultisetOf(Term{Symbol: y, Count: 4})})
	require.NoError(t, err)
	_, err = p.AddRule(Rule{
		LHS: MultisetOf(Term{Symbol: x, Count: 1}, Term{Symbol: y, Count: 1}),
		RHS: MultisetOf(Term{Symbol: z, Count: 1}),
	})
	require.NoError(t, err)
	_, err = p.AddRule(Rule{LHS: MultisetOf(Term{Symbol: z, Count: 2})})
	require.NoError(t, err)
	return p
}

func TestFormatRule(t *testing.T) {
	p := buildProgram(t)

	assert.Equal(t, "|| x:5", p.FormatRule(0))
	assert.Equal(t, "|x, y| z", p.FormatRule(2))
	assert.Equal(t, "|z:2|", p.FormatRule(3))
	assert.Equal(t, "|| x:5\n|| y:4\n|x, y| z\n|z:2|\n", p.Format())
}

func TestFormatRuleCustomDelimiter(t *testing.T) {
	p := NewProgram('$', DefaultLimits())
	a, err := p.Symbols.Intern("a")
	require.NoError(t, err)
	_, err = p.AddRule(Rule{LHS: MultisetOf(Term{Symbol: a, Count: 1}), RHS: MultisetOf(Term{Symbol: a, Count: 3})})
	require.NoError(t, err)

	assert.Equal(t, "$a$ a:3", p.FormatRule(0))
}

func TestNewProgramDefaultsDelimiter(t *testing.T) {
	p := NewProgram(0, DefaultLimits())
	assert.Equal(t, byte('|'), p.Delimiter)
}

func TestAddRuleCapacity(t *testing.T) {
	p := NewProgram('|', Limits{MaxRules: 1})

	_, err := p.AddRule(Rule{})
	require.NoError(t, err)
	_, err = p.AddRule(Rule{})
	require.Error(t, err)
	assert.True(t, IsCapacityError(err))
	assert.Len(t, p.Rules, 1)
}

func TestFactCount(t *testing.T) {
	p := buildProgram(t)
	assert.Equal(t, 2, p.FactCount())
	assert.True(t, p.Rules[0].IsFact())
	assert.False(t, p.Rules[2].IsFact())
}

func TestProgramCloneIsIndependent(t *testing.T) {
	p := buildProgram(t)
	c := p.Clone()

	w, err := c.Symbols.Intern("w")
	require.NoError(t, err)
	c.Rules[0].RHS.Add(w, 1)
	_, err = c.AddRule(Rule{})
	require.NoError(t, err)

	assert.Equal(t, 3, p.Symbols.Len())
	assert.Len(t, p.Rules, 4)
	assert.Equal(t, "|| x:5", p.FormatRule(0))
}
