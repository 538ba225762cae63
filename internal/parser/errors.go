package parser

import (
	"errors"
	"fmt"
)

// Kind categorizes parse errors.
type Kind string

const (
	// KindUnexpectedToken: a byte appeared where a clause, symbol or count
	// was expected.
	KindUnexpectedToken Kind = "UNEXPECTED_TOKEN"

	// KindUnterminatedRule: a rule's condition never reached the delimiter.
	KindUnterminatedRule Kind = "UNTERMINATED_RULE"

	// KindCapacityExceeded: the symbol or rule table is full.
	KindCapacityExceeded Kind = "CAPACITY_EXCEEDED"
)

// ParseError reports where and why a source was rejected.
type ParseError struct {
	Kind    Kind
	Message string

	// Offset is the 0-based byte offset of the offending position.
	Offset int

	// Line and Column are 1-based; Column counts bytes.
	Line   int
	Column int

	// Err is the underlying cause (e.g. *ir.CapacityError), if any.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s: %s", e.Line, e.Column, e.Kind, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsKind returns true if err is or wraps a *ParseError of the given kind.
func IsKind(err error, kind Kind) bool {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Kind == kind
	}
	return false
}

// position converts a byte offset to a 1-based line and column.
func position(src []byte, offset int) (line, col int) {
	line, col = 1, 1
	for i := 0; i < offset && i < len(src); i++ {
		if src[i] == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
