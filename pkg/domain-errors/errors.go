// Package domainerrors defines the coded error taxonomy shared by services and
// transport. Stores return sentinel errors; services translate them into coded
// errors here so handlers can map codes to HTTP statuses without inspecting
// infrastructure details.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies an error class. Codes are wire-visible: the HTTP layer
// serializes them verbatim, so messages stay minimal and codes stay stable.
type Code string

const (
	CodeTokenInvalid     Code = "token_invalid"
	CodeTokenExpired     Code = "token_expired"
	CodeTokenAlreadyUsed Code = "token_already_used"
	CodeElectionNotOpen  Code = "election_not_open"
	// CodeMfaMismatch deliberately covers both "unknown token" and "wrong date
	// of birth" so callers cannot probe token validity through the MFA step.
	CodeMfaMismatch         Code = "mfa_mismatch"
	CodeConcurrencyConflict Code = "concurrency_conflict"
	CodeImmutableRecord     Code = "immutable_record"
	CodeChainVerification   Code = "chain_verification_failed"

	CodeBadRequest   Code = "bad_request"
	CodeNotFound     Code = "not_found"
	CodeUnauthorized Code = "unauthorized"
	CodeTimeout      Code = "timeout"
	CodeInternal     Code = "internal"
)

// Error carries a code plus an operator-facing message. The message is never
// required to be safe for end users; handlers only emit the code.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a coded error with no underlying cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// HasCode is an alias kept for call-site readability in conditionals.
func HasCode(err error, code Code) bool { return Is(err, code) }

// CodeOf extracts the code from err, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps codes to HTTP statuses for the JSON error envelope.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeTokenInvalid:
		return http.StatusBadRequest
	case CodeUnauthorized, CodeMfaMismatch:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeTokenAlreadyUsed, CodeConcurrencyConflict:
		return http.StatusConflict
	case CodeTokenExpired, CodeElectionNotOpen:
		return http.StatusForbidden
	case CodeTimeout:
		return http.StatusGatewayTimeout
	case CodeImmutableRecord, CodeChainVerification, CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
