package api

import "errors"

// Sentinel errors returned by Client implementations. They are the whole
// failure taxonomy the core works with; match with errors.Is.
var (
	// ErrUnavailable: transport unreachable or the request timed out.
	ErrUnavailable = errors.New("server unavailable")

	// ErrServer: the service answered with a non-success status,
	// including validation failures.
	ErrServer = errors.New("server error")

	// ErrAuth: credentials rejected on login/register.
	ErrAuth = errors.New("invalid credentials")

	// ErrUnauthenticated: no valid session. A legitimate state, not a failure.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden: the session is valid but the record belongs to someone else.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound: the record does not exist (anymore).
	ErrNotFound = errors.New("record not found")
)
