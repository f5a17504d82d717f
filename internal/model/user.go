// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other
// languages, but without inheritance. Go favours composition over inheritance.
package model

import "time"

// User represents a registered account.
//
// Identity is email + password: the email is the login name and must be
// unique (enforced by a UNIQUE constraint in the users table). We only ever
// store the bcrypt hash of the password, never the plaintext.
//
// WHY `json:"-"` ON PasswordHash?
// The hash must never leave the server. The "-" tag tells encoding/json to
// skip the field entirely, so even if a handler accidentally serializes a
// User, the hash can't leak into a response body.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Email        string    `json:"email"     db:"email"` // case-sensitive as stored
	PasswordHash string    `json:"-"         db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
