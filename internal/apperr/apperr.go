// Package apperr defines the request-visible failure kinds of the API and
// the single mapping from kind to HTTP status code. Repositories and
// builders fail with these kinds; the HTTP boundary renders them. Anything
// that is not one of these kinds is treated as an internal server fault.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// ─────────────────────────────────────────────────────────────────────────────
// Kinds
// ─────────────────────────────────────────────────────────────────────────────

var (
	// ErrInvalidInput marks malformed or semantically inconsistent request
	// content detected by the core itself (empty update payload, inverted
	// min/max bounds).
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks a get/update/remove whose target key does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists marks an identifying-key collision on create.
	ErrAlreadyExists = errors.New("already exists")

	// ErrUnauthenticated marks a missing or invalid credential.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden marks an authenticated caller with insufficient
	// privilege or ownership.
	ErrForbidden = errors.New("forbidden")
)

// ─────────────────────────────────────────────────────────────────────────────
// Error — kind plus caller-visible message
// ─────────────────────────────────────────────────────────────────────────────

// Error carries one of the package kinds together with a message that is
// surfaced verbatim to the caller.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *Error) Is(target error) bool { return errors.Is(e.Kind, target) }
func (e *Error) Unwrap() error        { return e.Kind }

// ─────────────────────────────────────────────────────────────────────────────
// Constructors
// ─────────────────────────────────────────────────────────────────────────────

func InvalidInput(format string, args ...any) error {
	return &Error{Kind: ErrInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func AlreadyExists(format string, args ...any) error {
	return &Error{Kind: ErrAlreadyExists, Message: fmt.Sprintf(format, args...)}
}

func Unauthenticated(format string, args ...any) error {
	return &Error{Kind: ErrUnauthenticated, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) error {
	return &Error{Kind: ErrForbidden, Message: fmt.Sprintf(format, args...)}
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers — use errors.Is() for type-safe checks
// ─────────────────────────────────────────────────────────────────────────────

func IsInvalidInput(err error) bool    { return errors.Is(err, ErrInvalidInput) }
func IsNotFound(err error) bool        { return errors.Is(err, ErrNotFound) }
func IsAlreadyExists(err error) bool   { return errors.Is(err, ErrAlreadyExists) }
func IsUnauthenticated(err error) bool { return errors.Is(err, ErrUnauthenticated) }
func IsForbidden(err error) bool       { return errors.Is(err, ErrForbidden) }

// ─────────────────────────────────────────────────────────────────────────────
// Status mapping — single source of truth for the boundary layer
// ─────────────────────────────────────────────────────────────────────────────

var statusByKind = []struct {
	kind   error
	status int
}{
	{ErrInvalidInput, http.StatusBadRequest},
	{ErrUnauthenticated, http.StatusUnauthorized},
	{ErrForbidden, http.StatusForbidden},
	{ErrNotFound, http.StatusNotFound},
	{ErrAlreadyExists, http.StatusConflict},
}

// StatusCode returns the HTTP status for a taxonomy error. Unclassified
// errors map to 500; they are server faults and their messages are not
// meant for the caller.
func StatusCode(err error) int {
	for _, e := range statusByKind {
		if errors.Is(err, e.kind) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}
