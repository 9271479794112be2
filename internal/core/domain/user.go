package domain

import "time"

// User is the account record persisted by the user directory. PasswordHash is
// never serialized and never leaves the process in any outward payload.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Position     Role      `json:"position"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
