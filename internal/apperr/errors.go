// Package apperr is the error taxonomy shared by the API server and its
// client.  Each sentinel has a stable wire code so that a failure raised by
// a service on the server is still matched by errors.Is after it has
// crossed HTTP.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTransient          = errors.New("request failed, please try again")

	ErrAlreadyApplied    = fmt.Errorf("%w: you have already applied to this sprint", ErrConflict)
	ErrAlreadyRegistered = fmt.Errorf("%w: you are already registered for this event", ErrConflict)
	ErrEmailTaken        = fmt.Errorf("%w: email already registered", ErrConflict)
)

// Wire codes.
const (
	CodeValidation         = "validation_failed"
	CodeUnauthenticated    = "unauthenticated"
	CodeForbidden          = "forbidden"
	CodeConflict           = "conflict"
	CodeAlreadyApplied     = "already_applied"
	CodeAlreadyRegistered  = "already_registered"
	CodeEmailTaken         = "email_taken"
	CodeNotFound           = "not_found"
	CodeInvalidCredentials = "invalid_credentials"
	CodeInternal           = "internal"
)

// most specific first
var codes = []struct {
	err    error
	code   string
	status int
}{
	{ErrAlreadyApplied, CodeAlreadyApplied, http.StatusConflict},
	{ErrAlreadyRegistered, CodeAlreadyRegistered, http.StatusConflict},
	{ErrEmailTaken, CodeEmailTaken, http.StatusConflict},
	{ErrConflict, CodeConflict, http.StatusConflict},
	{ErrValidation, CodeValidation, http.StatusBadRequest},
	{ErrUnauthenticated, CodeUnauthenticated, http.StatusUnauthorized},
	{ErrInvalidCredentials, CodeInvalidCredentials, http.StatusUnauthorized},
	{ErrForbidden, CodeForbidden, http.StatusForbidden},
	{ErrNotFound, CodeNotFound, http.StatusNotFound},
}

// Code returns the wire code for err, CodeInternal when it is not part of
// the taxonomy.
func Code(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeInternal
}

// HTTPStatus returns the response status for err.
func HTTPStatus(err error) int {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.status
		}
	}
	return http.StatusInternalServerError
}

// FromCode rebuilds an error from a wire code and message.  Unknown codes
// become ErrTransient so callers show a retry hint.
func FromCode(code, message string) error {
	for _, c := range codes {
		if c.code == code {
			if message == "" || message == c.err.Error() {
				return c.err
			}
			return &wireError{base: c.err, msg: message}
		}
	}
	if message == "" {
		return ErrTransient
	}
	return &wireError{base: ErrTransient, msg: message}
}

type wireError struct {
	base error
	msg  string
}

func (e *wireError) Error() string { return e.msg }
func (e *wireError) Unwrap() error { return e.base }

// ValidationError lists the offending fields of a rejected input.
type ValidationError struct {
	Fields map[string]string
}

// Invalid builds a ValidationError from field/message pairs.
func Invalid(field, msg string, more ...string) *ValidationError {
	v := &ValidationError{Fields: map[string]string{field: msg}}
	for i := 0; i+1 < len(more); i += 2 {
		v.Fields[more[i]] = more[i+1]
	}
	return v
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid input: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// IsConflict reports whether err is a uniqueness conflict, the one failure
// class callers treat as an expected outcome.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }
