package domain

import "time"

// User is the account record owned by the user-management module. The session
// subsystem reads it only to check credentials; it never mutates users.
type User struct {
	ID           string
	Login        string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
