package compiler

import "strings"

// Sanitize maps a symbol name to a variable identifier.
//
// Exactly one leading rewrite applies: '<' becomes "_o_", '>' becomes
// "_i_", '-' becomes "minus_". Then, left to right, "->" becomes "to",
// '#' becomes "__", and each of space - > : newline . ' becomes '_'.
// Every other byte is copied unchanged.
func Sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 6)

	s := name
	if len(s) > 0 {
		switch s[0] {
		case '<':
			b.WriteString("_o_")
			s = s[1:]
		case '>':
			b.WriteString("_i_")
			s = s[1:]
		case '-':
			b.WriteString("minus_")
			s = s[1:]
		}
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '-' && i+1 < len(s) && s[i+1] == '>':
			b.WriteString("to")
			i++
		case c == '#':
			b.WriteString("__")
		case c == ' ', c == '-', c == '>', c == ':', c == '\n', c == '.', c == '\'':
			b.WriteByte('_')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
