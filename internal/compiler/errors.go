package compiler

import (
	"errors"
	"fmt"
)

// CollisionError reports two distinct symbols that sanitize to the same
// identifier.
type CollisionError struct {
	Ident  string `json:"ident"`
	First  string `json:"first"`
	Second string `json:"second"`
}

// Error implements the error interface.
func (e *CollisionError) Error() string {
	return fmt.Sprintf("identifier collision: symbols %q and %q both become %q", e.First, e.Second, e.Ident)
}

// IdentifierError reports a symbol whose identifier the target cannot use.
type IdentifierError struct {
	Symbol string `json:"symbol"`
	Ident  string `json:"ident"`
	Target string `json:"target"`
	Reason string `json:"reason"`
}

// Error implements the error interface.
func (e *IdentifierError) Error() string {
	return fmt.Sprintf("symbol %q: identifier %q %s in %s", e.Symbol, e.Ident, e.Reason, e.Target)
}

// IsCollision returns true if err is or wraps a *CollisionError.
func IsCollision(err error) bool {
	var ce *CollisionError
	return errors.As(err, &ce)
}

// IsIdentifierError returns true if err is or wraps an *IdentifierError.
func IsIdentifierError(err error) bool {
	var ie *IdentifierError
	return errors.As(err, &ie)
}
