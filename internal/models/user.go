package models

import "time"

// User represents a registered user account.
type User struct {
	// ID is the surrogate key assigned by the store on insert.
	ID int64

	// Email is the user's login address, trimmed and lowercased before storage.
	// Unique across all users.
	Email string

	// PasswordHash is the bcrypt hash of the user's password.
	// The plain password is never stored.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}

// NewUser creates a new User with the given email and password hash.
// The ID is left at zero and assigned by the store.
func NewUser(email, passwordHash string) *User {
	return &User{
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}
