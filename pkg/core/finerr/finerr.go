// Package finerr defines the two error classes used across the deal model:
// validation failures at configuration time and computation failures during
// derivation. Sources-vs-uses imbalance is deliberately NOT an error; it is
// reported as a (balanced, difference) pair by the deal package.
package finerr

import (
	"errors"
	"fmt"
)

// ValidationError reports a malformed configuration detected while
// constructing an input object. It always surfaces immediately to the caller;
// no partially constructed object is returned alongside it.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validationf builds a ValidationError with a formatted reason.
func Validationf(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ComputationError reports a failure that arises while deriving results from
// otherwise valid inputs, e.g. an EPS that is undefined because the share
// count is zero. It aborts the scenario being evaluated, nothing else.
type ComputationError struct {
	Op     string
	Reason string
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// Computationf builds a ComputationError with a formatted reason.
func Computationf(op, format string, args ...interface{}) error {
	return &ComputationError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsComputation reports whether err is (or wraps) a ComputationError.
func IsComputation(err error) bool {
	var ce *ComputationError
	return errors.As(err, &ce)
}
