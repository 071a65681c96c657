package access

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avramovs/clientbook/internal/models"
)

func TestPermittedActions_OwnerGetsBoth(t *testing.T) {
	ident := &models.Identity{ID: "u1"}
	r1 := &models.Record{ID: "r1", OwnerID: "u1", RecordFields: models.RecordFields{FullName: "Ann"}}
	r2 := &models.Record{ID: "r2", OwnerID: "u2", RecordFields: models.RecordFields{FullName: "Bo"}}

	require.Equal(t, Actions{CanEdit: true, CanDelete: true}, PermittedActions(r1, ident))
	require.Equal(t, Actions{}, PermittedActions(r2, ident))
}

func TestPermittedActions_AbsentIdentityDeniesEverything(t *testing.T) {
	records := []*models.Record{
		{ID: "r1", OwnerID: "u1"},
		{ID: "r2", OwnerID: ""},
		nil,
	}
	for _, r := range records {
		require.Equal(t, Actions{}, PermittedActions(r, nil))
	}
}

func TestPermittedActions_EmptyIdentityIDDenied(t *testing.T) {
	r := &models.Record{ID: "r1", OwnerID: ""}
	// Neither side may be matched on an empty id.
	require.Equal(t, Actions{}, PermittedActions(r, &models.Identity{ID: ""}))
}
