// Package domainerrors provides the domain error type shared by all services.
//
// Errors carry a stable machine-readable code plus a human-readable message.
// Services construct errors with New/Wrap at the point of failure; handlers
// translate codes to HTTP statuses with ToHTTPStatus. Callers branch on codes
// via HasCode rather than string matching.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a class of domain error.
type Code string

const (
	// CodeBadRequest marks requests that are malformed at the transport level
	// (missing body, undecodable payload).
	CodeBadRequest Code = "bad_request"

	// CodeInvalidInput marks single values that fail parsing at a trust
	// boundary (IDs, enums, typed attributes).
	CodeInvalidInput Code = "invalid_input"

	// CodeValidation marks requests that decoded fine but violate a domain
	// validation rule. The message names the offending field.
	CodeValidation Code = "validation_failed"

	// CodeUnauthorized marks requests with missing, invalid or expired
	// credentials.
	CodeUnauthorized Code = "unauthorized"

	// CodeNotFound marks lookups for records that do not exist.
	CodeNotFound Code = "not_found"

	// CodeConflict marks writes that lost to a uniqueness or concurrency rule.
	CodeConflict Code = "conflict"

	// CodeInvariantViolation marks illegal state transitions on domain objects.
	CodeInvariantViolation Code = "invariant_violation"

	// CodeUnavailable marks failures of a required collaborator (catalog
	// backend, binder); the operation may succeed when retried.
	CodeUnavailable Code = "unavailable"

	// CodeInternal marks unexpected failures that should page someone.
	CodeInternal Code = "internal_error"
)

// Error is the concrete domain error. It implements error and unwraps to the
// underlying cause when constructed with Wrap.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New constructs a domain error with a code and message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf constructs a domain error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap annotates an underlying error with a domain code and message. The
// cause remains reachable through errors.Is/errors.As.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf returns the code carried by err, or CodeInternal when err is not a
// domain error. Returns the empty code for nil.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf returns the human-readable message for err. Non-domain errors
// fall back to the error string so callers always have something to surface.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}

// ToHTTPStatus maps a domain code to the HTTP status handlers should write.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeInvalidInput, CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeInvariantViolation:
		return http.StatusConflict
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
