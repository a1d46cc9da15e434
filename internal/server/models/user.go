// Package models holds the database-backed record types used by the server.
package models

import "time"

// User is one registered account. Email is unique across all accounts and
// acts as the login key. PasswordHash is a bcrypt digest, replaced wholesale
// on password change and never serialized outward.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
}
