package librarystore

import "time"

// User is an identity with credentials. PasswordHash is a bcrypt hash.
type User struct {
	ID           UserIDInt64
	Name         string
	Email        string
	PasswordHash string
	Phone        string
	Photo        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
