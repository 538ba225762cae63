package ir

import (
	"strconv"
	"strings"
)

// DefaultDelimiter is used when a program was built without source text.
const DefaultDelimiter = '|'

// Program is a rule table together with the symbol table that owns its ids.
//
// A Program is built once (by the parser, then optionally by the variables
// pass) and is read-only afterwards. Interpreters and code generators never
// modify it.
type Program struct {
	// Delimiter is the spacer glyph: the first byte of the source.
	Delimiter byte

	// Symbols owns every id referenced by Rules.
	Symbols *SymbolTable

	// Rules in declaration order. Order is firing priority.
	Rules []Rule

	limits Limits
}

// NewProgram creates an empty program bounded by limits.
func NewProgram(delimiter byte, limits Limits) *Program {
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}
	return &Program{
		Delimiter: delimiter,
		Symbols:   NewSymbolTable(limits),
		limits:    limits,
	}
}

// Limits returns the program's capacity bounds.
func (p *Program) Limits() Limits {
	return p.limits
}

// AddRule appends r and returns its index.
func (p *Program) AddRule(r Rule) (int, error) {
	if p.limits.MaxRules > 0 && len(p.Rules) >= p.limits.MaxRules {
		return -1, &CapacityError{Resource: ResourceRules, Limit: p.limits.MaxRules}
	}
	p.Rules = append(p.Rules, r)
	return len(p.Rules) - 1, nil
}

// FactCount returns the number of fact rules.
func (p *Program) FactCount() int {
	n := 0
	for _, r := range p.Rules {
		if r.IsFact() {
			n++
		}
	}
	return n
}

// Clone returns an independent deep copy.
func (p *Program) Clone() *Program {
	c := &Program{
		Delimiter: p.Delimiter,
		Symbols:   p.Symbols.Clone(),
		Rules:     make([]Rule, len(p.Rules)),
		limits:    p.limits,
	}
	for i, r := range p.Rules {
		c.Rules[i] = r.Clone()
	}
	return c
}

// FormatRule renders rule i in Vera syntax, e.g. "|a, b:2| c" or "|| x:5".
func (p *Program) FormatRule(i int) string {
	r := p.Rules[i]
	d := string([]byte{p.Delimiter})
	var b strings.Builder
	b.WriteString(d)
	if r.IsFact() {
		b.WriteString(d)
		b.WriteByte(' ')
		b.WriteString(p.FormatMultiset(r.RHS))
		return b.String()
	}
	b.WriteString(p.FormatMultiset(r.LHS))
	b.WriteString(d)
	if !r.RHS.IsEmpty() {
		b.WriteByte(' ')
		b.WriteString(p.FormatMultiset(r.RHS))
	}
	return b.String()
}

// FormatMultiset renders m as a comma separated symbol list.
func (p *Program) FormatMultiset(m Multiset) string {
	parts := make([]string, 0, m.Len())
	for _, t := range m.Terms() {
		name := p.Symbols.Name(t.Symbol)
		if t.Count > 1 {
			name += ":" + strconv.Itoa(t.Count)
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, ", ")
}

// Format renders the whole program, one clause per line.
func (p *Program) Format() string {
	var b strings.Builder
	for i := range p.Rules {
		b.WriteString(p.FormatRule(i))
		b.WriteByte('\n')
	}
	return b.String()
}
