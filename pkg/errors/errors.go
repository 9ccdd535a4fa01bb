// Package errors provides structured error types for jyotish.
//
// Every failure leaving the computation core is an *Error carrying a
// machine-readable [Code]. Callers branch on the code, never on message text:
//   - INVALID_*: input validation failures
//   - MISSING_*: data the ephemeris provider could not resolve
//   - UNSUPPORTED_*: requests outside a registered table
//   - INTERNAL_* and *_INCONSISTENCY: defects, never user guidance
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnsupportedDivision, "division D%d is not registered", n)
//	if errors.Is(err, errors.ErrCodeUnsupportedDivision) {
//	    // pick another division
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "fetch %s", body)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidInstant Code = "INVALID_INSTANT"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"

	// Ephemeris errors
	ErrCodeMissingEphemerisData Code = "MISSING_EPHEMERIS_DATA"
	ErrCodeNetwork              Code = "NETWORK_ERROR"
	ErrCodeTimeout              Code = "TIMEOUT"

	// Chart conditions
	ErrCodeDegradedAscendant   Code = "DEGRADED_ASCENDANT_ACCURACY"
	ErrCodeUnsupportedDivision Code = "UNSUPPORTED_DIVISION"
	ErrCodeUnknownAyanamsha    Code = "UNKNOWN_AYANAMSHA"

	// Storage errors
	ErrCodeNotFound Code = "NOT_FOUND"
	ErrCodeStorage  Code = "STORAGE_ERROR"

	// Internal errors
	ErrCodeDashaTreeInconsistency Code = "DASHA_TREE_INCONSISTENCY"
	ErrCodeInternal               Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// Internal invariant violations are reported generically since they
// describe a defect rather than something the caller can act on.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if IsInternal(e.Code) {
			return "internal error while computing chart"
		}
		return e.Message
	}
	return err.Error()
}

// IsInternal reports whether code marks a defect rather than a caller error.
func IsInternal(code Code) bool {
	return code == ErrCodeInternal || code == ErrCodeDashaTreeInconsistency
}

// IsFatal reports whether err must abort a chart computation.
// Missing ephemeris data and degraded ascendants are recoverable conditions.
func IsFatal(err error) bool {
	switch GetCode(err) {
	case ErrCodeMissingEphemerisData, ErrCodeDegradedAscendant, ErrCodeUnsupportedDivision:
		return false
	}
	return err != nil
}

// As finds the first error in err's chain that matches target.
// It is the standard library errors.As, re-exported so callers need a
// single errors import.
func As(err error, target any) bool {
	return errors.As(err, target)
}
