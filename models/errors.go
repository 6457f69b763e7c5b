package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for the domain failure modes. The HTTP boundary maps
// each of these to a fixed status code; services never write responses.
var (
	// ErrNotFound: the requested resource id does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden: the actor is authenticated but not permitted to
	// mutate the resource (not the project's owner / task's creator).
	ErrForbidden = errors.New("forbidden")

	// ErrUnauthenticated: missing, invalid, or revoked bearer token.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrDuplicateEmail: registration with an email that already exists.
	ErrDuplicateEmail = errors.New("email already taken")

	// ErrInvalidCredentials: login failure. Deliberately shared between
	// the unknown-email and wrong-password cases so responses do not
	// allow user enumeration; logs keep the distinction.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidReference: a supplied id does not reference an existing
	// resource (project for task creation, assignee user ids).
	ErrInvalidReference = errors.New("invalid reference")

	// ErrTokenNotFound: revoking a token that is unknown or already
	// revoked. Revocation is not an idempotent no-op here.
	ErrTokenNotFound = errors.New("token not found")
)

// ValidationError carries field-level messages for malformed input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

// InvalidReferenceError is an ErrInvalidReference with a client-facing
// message naming the offending reference.
type InvalidReferenceError struct {
	Message string
}

func (e *InvalidReferenceError) Error() string { return e.Message }

func (e *InvalidReferenceError) Unwrap() error { return ErrInvalidReference }
