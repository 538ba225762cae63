package parser

import (
	"fmt"
	"strconv"

	"github.com/roach88/vera/internal/ir"
)

// Options controls parsing.
type Options struct {
	// ImplicitConstants enables the "symbol:N" multiplicity suffix. When
	// disabled, ':' is an ordinary symbol character.
	ImplicitConstants bool

	// Limits bounds the resulting symbol and rule tables.
	Limits ir.Limits
}

// DefaultOptions returns implicit constants enabled and default limits.
func DefaultOptions() Options {
	return Options{
		ImplicitConstants: true,
		Limits:            ir.DefaultLimits(),
	}
}

type parser struct {
	src   []byte
	pos   int
	delim byte
	opts  Options
	prog  *ir.Program
}

// Parse parses src into a program. On error the returned program is nil and
// the error is a *ParseError.
func Parse(src []byte, opts Options) (*ir.Program, error) {
	if len(src) == 0 {
		return ir.NewProgram(0, opts.Limits), nil
	}

	p := &parser{
		src:   src,
		delim: src[0],
		opts:  opts,
	}
	if err := p.checkDelimiter(); err != nil {
		return nil, err
	}
	p.prog = ir.NewProgram(p.delim, opts.Limits)

	for {
		p.skipSpace()
		if p.eof() {
			break
		}
		if err := p.clause(); err != nil {
			return nil, err
		}
	}
	return p.prog, nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(src string, opts Options) (*ir.Program, error) {
	return Parse([]byte(src), opts)
}

func (p *parser) checkDelimiter() error {
	switch {
	case ir.IsSpace(p.delim):
		return p.errorf(KindUnexpectedToken, 0, "delimiter must not be whitespace, found %s", describe(p.delim))
	case p.delim == ',':
		return p.errorf(KindUnexpectedToken, 0, "delimiter must not be ','")
	case p.delim == ':' && p.opts.ImplicitConstants:
		return p.errorf(KindUnexpectedToken, 0, "delimiter must not be ':' when implicit constants are enabled")
	}
	return nil
}

// clause parses one fact or rule starting at the current delimiter.
func (p *parser) clause() error {
	start := p.pos
	if p.peek() != p.delim {
		return p.errorf(KindUnexpectedToken, p.pos, "expected %s to open a clause, found %s",
			describe(p.delim), describe(p.peek()))
	}
	p.pos++

	var rule ir.Rule
	if !p.eof() && p.peek() == p.delim {
		// "||" opens a fact.
		p.pos++
		rhs, err := p.symbolList()
		if err != nil {
			return err
		}
		rule.RHS = rhs
	} else {
		lhs, err := p.symbolList()
		if err != nil {
			return err
		}
		if p.eof() || p.peek() != p.delim {
			return p.errorf(KindUnterminatedRule, start, "rule condition is never closed by %s", describe(p.delim))
		}
		p.pos++
		p.skipSpace()

		rule.LHS = lhs
		if !p.eof() && p.peek() != p.delim {
			rhs, err := p.symbolList()
			if err != nil {
				return err
			}
			rule.RHS = rhs
		}
	}

	if _, err := p.prog.AddRule(rule); err != nil {
		return p.wrap(KindCapacityExceeded, start, err)
	}
	return nil
}

// symbolList parses symbols separated by commas. It stops before the
// delimiter or at end of input.
func (p *parser) symbolList() (ir.Multiset, error) {
	var m ir.Multiset
	for {
		id, count, err := p.symbol()
		if err != nil {
			return ir.Multiset{}, err
		}
		m.Add(id, count)
		if !p.eof() && p.peek() == ',' {
			p.pos++
			continue
		}
		return m, nil
	}
}

// symbol parses a single symbol and its optional ":N" count.
func (p *parser) symbol() (ir.SymbolID, int, error) {
	p.skipSpace()
	start := p.pos
	for !p.eof() && !p.endsSymbol(p.peek()) {
		p.pos++
	}
	name := ir.NormalizeName(string(p.src[start:p.pos]))
	if name == "" {
		return ir.NoSymbol, 0, p.errorf(KindUnexpectedToken, p.pos, "expected symbol, found %s", p.describeHere())
	}

	count := 1
	if p.opts.ImplicitConstants && !p.eof() && p.peek() == ':' {
		n, err := p.count()
		if err != nil {
			return ir.NoSymbol, 0, err
		}
		count = n
	}

	id, err := p.prog.Symbols.Intern(name)
	if err != nil {
		return ir.NoSymbol, 0, p.wrap(KindCapacityExceeded, start, err)
	}
	return id, count, nil
}

// count parses ":N" and requires the symbol to end right after it.
func (p *parser) count() (int, error) {
	p.pos++ // ':'
	p.skipSpace()
	start := p.pos
	for !p.eof() && p.peek() >= '0' && p.peek() <= '9' {
		p.pos++
	}
	if p.pos == start {
		return 0, p.errorf(KindUnexpectedToken, p.pos, "expected count after ':', found %s", p.describeHere())
	}
	n, err := strconv.Atoi(string(p.src[start:p.pos]))
	if err != nil || n > ir.MaxLiteralCount {
		return 0, p.errorf(KindUnexpectedToken, start, "count %s out of range (max %d)", p.src[start:p.pos], ir.MaxLiteralCount)
	}
	p.skipSpace()
	if !p.eof() && p.peek() != ',' && p.peek() != p.delim {
		return 0, p.errorf(KindUnexpectedToken, p.pos, "expected ',' or %s after count, found %s",
			describe(p.delim), describe(p.peek()))
	}
	return n, nil
}

func (p *parser) endsSymbol(c byte) bool {
	return c == p.delim || c == ',' || (p.opts.ImplicitConstants && c == ':')
}

func (p *parser) skipSpace() {
	for !p.eof() && ir.IsSpace(p.src[p.pos]) {
		p.pos++
	}
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) peek() byte {
	return p.src[p.pos]
}

func (p *parser) describeHere() string {
	if p.eof() {
		return "end of input"
	}
	return describe(p.peek())
}

func describe(c byte) string {
	return strconv.QuoteRune(rune(c))
}

func (p *parser) errorf(kind Kind, offset int, format string, args ...any) *ParseError {
	line, col := position(p.src, offset)
	return &ParseError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Offset:  offset,
		Line:    line,
		Column:  col,
	}
}

func (p *parser) wrap(kind Kind, offset int, err error) *ParseError {
	pe := p.errorf(kind, offset, "%v", err)
	pe.Err = err
	return pe
}
