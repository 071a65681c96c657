// Package access holds the ownership rule deciding which mutations a user
// may perform on a record.
package access

import "github.com/avramovs/clientbook/internal/models"

// Actions is the set of mutations permitted on one record.
type Actions struct {
	CanEdit   bool
	CanDelete bool
}

// PermittedActions reports what ident may do to record. Both actions are
// granted iff an identity is present and it owns the record; there is no
// other permission tier. The function is pure and total: nil inputs yield
// a deny-all result.
func PermittedActions(record *models.Record, ident *models.Identity) Actions {
	if record == nil || ident == nil || ident.ID == "" {
		return Actions{}
	}
	if record.OwnerID != ident.ID {
		return Actions{}
	}
	return Actions{CanEdit: true, CanDelete: true}
}
