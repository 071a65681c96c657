// Package api contains the transport layer of the clientbook client:
// a transport-agnostic contract (Client) to talk to the records service,
// and a concrete HTTP/JSON implementation (HTTPClient) that manages the
// session token and maps response statuses to sentinel errors.
//
// Callers match failures with errors.Is against the sentinels in errors.go;
// no transport detail leaks past this package.
package api

import (
	"context"

	"github.com/avramovs/clientbook/internal/models"
)

// AuthResult is a successful login/register reply: the identity plus the
// session token to persist for future probes.
type AuthResult struct {
	Identity models.Identity `json:"identity"`
	Token    string          `json:"token"`
}

// Client is the abstract operation surface the core state machine consumes.
// Every call is a plain request/response exchange; ordering and staleness
// concerns are the caller's job.
type Client interface {
	// ListRecords returns the records matching query; empty query means
	// no filter.
	ListRecords(ctx context.Context, query string) ([]models.Record, error)

	// GetRecord fetches the authoritative copy of a single record.
	GetRecord(ctx context.Context, id string) (*models.Record, error)

	// UpdateRecord applies a partial update and returns the updated record.
	UpdateRecord(ctx context.Context, id string, fields models.RecordFields) (*models.Record, error)

	// DeleteRecord removes a record.
	DeleteRecord(ctx context.Context, id string) error

	// Login exchanges credentials for an identity and session token.
	Login(ctx context.Context, creds models.Credentials) (*AuthResult, error)

	// Register creates an account and logs it in.
	Register(ctx context.Context, profile models.Profile) (*AuthResult, error)

	// CurrentIdentity resolves the session token held by the client into
	// an identity. ErrUnauthenticated means "logged out", not a failure.
	CurrentIdentity(ctx context.Context) (*models.Identity, error)

	// Logout invalidates the given session token server-side (best
	// effort). The token is passed explicitly so a deferred logout never
	// races the installed token of a newer session.
	Logout(ctx context.Context, token string) error

	// SetSessionToken installs the token attached to subsequent requests.
	// An empty string clears it.
	SetSessionToken(token string)

	Close() error
}
