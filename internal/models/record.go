// Package models holds the wire-level data model shared by the client
// and the records service.
package models

import "time"

// RecordFields are the user-editable fields of a record. A patch request
// carries exactly this shape.
type RecordFields struct {
	IBAN     string `json:"iban"`
	FullName string `json:"fullName"`
	City     string `json:"city"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Secret   string `json:"secret"`
}

// Record is one row of the shared dataset. ID is immutable and unique
// within a list snapshot. OwnerID is assigned by the service at creation
// time and never changes afterwards.
type Record struct {
	ID string `json:"id"`
	RecordFields
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
