// Package apperror holds the error kinds shared by the token manager, the
// template store and the freee gateway.
package apperror

import (
	"errors"
	"fmt"
)

var (
	// ErrNoToken means no valid access token can be obtained and the user
	// has to run the authorization-code flow again.
	ErrNoToken = errors.New("no valid access token, re-authorization required")

	ErrInvalidState         = errors.New("oauth state mismatch")
	ErrTemplateNotFound     = errors.New("template not found")
	ErrTemplateNameRequired = errors.New("template name is required")
	ErrTemplateNameTaken    = errors.New("template name already exists")
)

// TransportError is a network level failure, timeouts included.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport error: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// HTTPError is a non-2xx response. Body keeps the raw payload for diagnostics.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error: status=%d, body=%s", e.Status, e.Body)
}

// DecodeError is a response body that is not the expected JSON.
type DecodeError struct {
	Body string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// AuthError means the caller must re-authorize. Err is the underlying cause,
// ErrNoToken when nothing more specific is known.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authorization required: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// NewAuthError wraps cause so that errors.Is(err, ErrNoToken) still holds.
func NewAuthError(cause error) *AuthError {
	if cause == nil || errors.Is(cause, ErrNoToken) {
		return &AuthError{Err: ErrNoToken}
	}
	return &AuthError{Err: fmt.Errorf("%w: %w", ErrNoToken, cause)}
}

// ValidationError is a rejected input.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Invalid builds a ValidationError from a message.
func Invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Err: fmt.Errorf(format, args...)}
}

// IOError is a local file read, write or delete failure.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// AsHTTP returns the HTTPError in err's chain, if any.
func AsHTTP(err error) (*HTTPError, bool) {
	var he *HTTPError
	if errors.As(err, &he) {
		return he, true
	}
	return nil, false
}
