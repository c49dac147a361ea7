package domain

import (
	"fmt"
	"strings"
)

// ValidationError signals malformed input: bad email/username/password format,
// a missing required field, or a query that is too short.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}

// ConflictError signals a uniqueness violation. Fields lists every violated
// field (e.g. both "email" and "username" when registering with two taken
// identifiers).
type ConflictError struct {
	Message string
	Fields  []string
}

func (e *ConflictError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Fields, ", "))
}

func (e *ConflictError) Is(target error) bool {
	_, ok := target.(*ConflictError)
	return ok
}

// UnauthorizedError signals a failed or missing credential. Messages stay
// generic where the lookup starts from unauthenticated input, so the response
// does not reveal whether an account exists.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string { return e.Message }

func (e *UnauthorizedError) Is(target error) bool {
	_, ok := target.(*UnauthorizedError)
	return ok
}

// ForbiddenError signals an authenticated request with insufficient privilege.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

func (e *ForbiddenError) Is(target error) bool {
	_, ok := target.(*ForbiddenError)
	return ok
}

// NotFoundError signals a missing resource.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}

// ErrValidation et al. are zero-value instances intended for errors.Is checks;
// matching is by type, not by message.
var (
	ErrValidation   = &ValidationError{}
	ErrConflict     = &ConflictError{}
	ErrUnauthorized = &UnauthorizedError{}
	ErrForbidden    = &ForbiddenError{}
	ErrNotFound     = &NotFoundError{}
)
