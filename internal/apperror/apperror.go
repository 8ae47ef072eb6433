// Package apperror defines the domain error taxonomy shared by the service
// and HTTP layers.
//
// Services return *AppError values wrapping one of the sentinel errors
// below; the HTTP layer maps each sentinel to a status code in one place
// (handler.writeError). Callers test the class with errors.Is and never
// match on message text.
package apperror

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both "no such row" and "row owned by someone
	// else" — the two cases must be indistinguishable to the caller so
	// that resource existence never leaks across accounts.
	ErrNotFound = errors.New("not found")

	// ErrValidation is malformed input: blank required fields, length
	// bounds, weak passwords.
	ErrValidation = errors.New("validation error")

	// ErrConflict is a uniqueness violation (username or email taken,
	// duplicate category name).
	ErrConflict = errors.New("conflict")

	// ErrUnauthorized is an authentication failure: bad credentials,
	// wrong current password, missing or invalid token.
	ErrUnauthorized = errors.New("unauthorized")
)

type AppError struct {
	Err     error  // sentinel classifying the error
	Message string // human-readable, safe to return to clients
	Field   string // optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports a missing (or not owned) resource by id.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

// NotFoundMessage reports a missing resource where an id-based message
// doesn't fit, e.g. "no flashcards found".
func NotFoundMessage(message string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: message,
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict reports a uniqueness violation on the given field.
func Conflict(field, message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
		Field:   field,
	}
}

// Unauthorized reports an authentication failure. The message is
// intentionally generic for credential errors — "invalid credentials" for
// both unknown user and wrong password.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}
