package domain

import "time"

// User represents a registered account holder. The persistence layer owns the
// canonical record; instances here are transient views loaded per operation.
type User struct {
	UserID       string    `json:"userID"` // Primary Key (UUID)
	Username     string    `json:"username"`
	PasswordHash string    `json:"passwordHash"` // bcrypt hash (salt embedded)
	CreatedAt    time.Time `json:"createdAt"`
}
