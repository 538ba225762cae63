package ir

import (
	"errors"
	"fmt"
)

// Default capacities. Exceeding one is an error, never a silent truncation.
const (
	DefaultMaxSymbols   = 256
	DefaultMaxRules     = 128
	DefaultMaxNameBytes = 32768
)

// Limits bounds the size of a program. A zero field means unlimited.
type Limits struct {
	MaxSymbols   int `json:"max_symbols" yaml:"max_symbols" mapstructure:"max_symbols"`
	MaxRules     int `json:"max_rules" yaml:"max_rules" mapstructure:"max_rules"`
	MaxNameBytes int `json:"max_name_bytes" yaml:"max_name_bytes" mapstructure:"max_name_bytes"`
}

// DefaultLimits returns the default capacities.
func DefaultLimits() Limits {
	return Limits{
		MaxSymbols:   DefaultMaxSymbols,
		MaxRules:     DefaultMaxRules,
		MaxNameBytes: DefaultMaxNameBytes,
	}
}

// Unlimited returns Limits with every bound disabled.
func Unlimited() Limits {
	return Limits{}
}

// Resource names a bounded table.
type Resource string

const (
	ResourceSymbols   Resource = "symbols"
	ResourceRules     Resource = "rules"
	ResourceNameBytes Resource = "name_bytes"
)

// CapacityError is returned when adding a symbol or rule would exceed the
// configured Limits.
type CapacityError struct {
	Resource Resource
	Limit    int
}

// Error implements the error interface.
func (e *CapacityError) Error() string {
	return fmt.Sprintf("capacity exceeded: more than %d %s", e.Limit, e.Resource)
}

// IsCapacityError returns true if err is or wraps a *CapacityError.
func IsCapacityError(err error) bool {
	var ce *CapacityError
	return errors.As(err, &ce)
}
