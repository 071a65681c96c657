// Package common defines sentinel errors shared by the client and server
// layers of clientbook. Callers match them with errors.Is.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// ErrorForbidden means the caller is authenticated but does not own
	// the record it tries to mutate.
	ErrorForbidden = errors.New("forbidden")

	// ErrorAlreadyExists is returned on registration with a taken email.
	ErrorAlreadyExists = errors.New("already exists")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
