package quantum

import (
	"errors"
	"fmt"
)

// Error represents a contract violation detected by the engine.
//
// Engine errors include:
//   - Dimension mismatch: amplitudes, labels, and matrices disagree in size
//   - Label mismatch: an operator's domain is not a permutation of the state basis
//   - Non-unitary matrix: a gate that would not conserve probability
//   - Zero state: a state vector with no amplitude anywhere
//   - Degenerate state: a measurement over all-zero probabilities
//
// These are programmer/configuration errors raised synchronously at the
// point of violation. There is no retry or partial recovery.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Details contains additional context (offending label, dimensions, ...).
	Details map[string]string
}

// ErrorCode categorizes engine errors.
type ErrorCode string

const (
	// ErrCodeDimensionMismatch indicates disagreeing vector/matrix/label sizes.
	ErrCodeDimensionMismatch ErrorCode = "DIMENSION_MISMATCH"

	// ErrCodeLabelMismatch indicates an operator domain that is not a
	// permutation of the target state's basis labels.
	ErrCodeLabelMismatch ErrorCode = "LABEL_MISMATCH"

	// ErrCodeNonUnitary indicates a gate matrix that fails the unitarity check.
	ErrCodeNonUnitary ErrorCode = "NON_UNITARY_MATRIX"

	// ErrCodeZeroState indicates an exact-zero amplitude vector, which cannot
	// be normalized.
	ErrCodeZeroState ErrorCode = "ZERO_STATE"

	// ErrCodeDegenerateState indicates a measurement over a state whose
	// probabilities all vanish.
	ErrCodeDegenerateState ErrorCode = "DEGENERATE_STATE"
)

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// HasCode reports whether err is (or wraps) an engine Error with the given code.
func HasCode(err error, code ErrorCode) bool {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Code == code
	}
	return false
}

// IsNonUnitary reports whether err is a unitarity violation.
func IsNonUnitary(err error) bool { return HasCode(err, ErrCodeNonUnitary) }

// IsLabelMismatch reports whether err is a label mismatch.
func IsLabelMismatch(err error) bool { return HasCode(err, ErrCodeLabelMismatch) }

// IsZeroState reports whether err is a zero-state rejection.
func IsZeroState(err error) bool { return HasCode(err, ErrCodeZeroState) }

func newError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) withDetail(key, value string) *Error {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}
