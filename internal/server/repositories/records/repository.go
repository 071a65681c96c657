// Package records stores the shared dataset served to clients. The rows
// use the wire model directly; there is nothing server-only in a record.
package records

import (
	"context"

	"github.com/avramovs/clientbook/internal/models"
)

type Repository interface {
	// List returns records whose fields contain query, case-insensitively;
	// an empty query returns everything. Ordered by creation time.
	List(ctx context.Context, query string) ([]models.Record, error)

	// Get returns one record or common.ErrorNotFound.
	Get(ctx context.Context, id string) (*models.Record, error)

	// Create inserts a record owned by ownerID and returns it.
	Create(ctx context.Context, ownerID string, fields models.RecordFields) (*models.Record, error)

	// Update overwrites the editable fields of a record, or
	// common.ErrorNotFound.
	Update(ctx context.Context, id string, fields models.RecordFields) (*models.Record, error)

	// Delete removes a record, or common.ErrorNotFound.
	Delete(ctx context.Context, id string) error
}
