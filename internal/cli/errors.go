package cli

import (
	"errors"
	"fmt"

	"github.com/roach88/vera/internal/compiler"
	"github.com/roach88/vera/internal/ir"
	"github.com/roach88/vera/internal/parser"
)

// Error codes reported in text and JSON output.
const (
	ErrCodeGeneric       = "E001" // Generic/unknown error
	ErrCodeSourceMissing = "E005" // Source file not found or unreadable
	ErrCodeWriteFailed   = "E007" // File write error
	ErrCodeSourceEmpty   = "E008" // Source has no bytes

	ErrCodeUnexpectedToken  = "E201" // Parser found a stray character
	ErrCodeUnterminatedRule = "E202" // Condition never closed by the delimiter
	ErrCodeCapacity         = "E203" // Symbol, rule or name limit exceeded

	ErrCodeCollision         = "E301" // Two symbols share one generated identifier
	ErrCodeInvalidIdentifier = "E302" // Generated identifier is invalid or reserved
)

// SourceError is an I/O-level failure to obtain program text.
type SourceError struct {
	Code string
	Path string
	Err  error
}

func (e *SourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s: source is empty", e.Path)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// ErrorCode maps an error to its CLI error code.
func ErrorCode(err error) string {
	var (
		srcErr   *SourceError
		parseErr *parser.ParseError
	)
	switch {
	case errors.As(err, &srcErr):
		return srcErr.Code
	case errors.As(err, &parseErr):
		switch parseErr.Kind {
		case parser.KindUnexpectedToken:
			return ErrCodeUnexpectedToken
		case parser.KindUnterminatedRule:
			return ErrCodeUnterminatedRule
		case parser.KindCapacityExceeded:
			return ErrCodeCapacity
		}
	case ir.IsCapacityError(err):
		return ErrCodeCapacity
	case compiler.IsCollision(err):
		return ErrCodeCollision
	case compiler.IsIdentifierError(err):
		return ErrCodeInvalidIdentifier
	}
	return ErrCodeGeneric
}

// reportError writes err in the configured format and returns the
// ExitError the command should fail with. Parse errors carry their
// position: "name:line:col" in text mode, details in JSON mode.
func reportError(f *OutputFormatter, name string, err error) error {
	code := ErrorCode(err)

	var srcErr *SourceError
	exit := ExitFailure
	if errors.As(err, &srcErr) || code == ErrCodeWriteFailed || code == ErrCodeGeneric {
		exit = ExitCommandError
	}

	var parseErr *parser.ParseError
	isParse := errors.As(err, &parseErr)

	if f.Format == "json" {
		var details any
		if isParse {
			details = map[string]any{
				"file":   name,
				"kind":   parseErr.Kind,
				"line":   parseErr.Line,
				"column": parseErr.Column,
				"offset": parseErr.Offset,
			}
		}
		message := err.Error()
		if isParse {
			message = parseErr.Message
		}
		_ = f.Error(code, message, details)
		return WrapExitError(exit, code, err).reported()
	}

	if isParse {
		fmt.Fprintf(f.Writer, "%s:%d:%d\n", name, parseErr.Line, parseErr.Column)
		fmt.Fprintf(f.Writer, "  %s: %s\n", code, parseErr.Message)
	} else {
		fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, err.Error())
	}
	return WrapExitError(exit, code, err).reported()
}
