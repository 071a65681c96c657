// Package models holds the server-side database models. The wire shapes
// live in internal/models; these structs carry what must never leave the
// server, such as password hashes.
package models

import "time"

type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash []byte
	CreatedAt    time.Time
}
