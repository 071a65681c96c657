// Package metadata stores small client-side key/value state, most notably
// the persisted session token, in the local SQLite database.
package metadata

import "context"

// Repository is a durable key/value store.
type Repository interface {
	// Get returns the stored value or common.ErrorNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set inserts or replaces a value.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes one key; deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Clear removes everything.
	Clear(ctx context.Context) error
}
