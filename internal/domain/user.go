package domain

import "time"

// User status values. Accounts are soft-disabled, never deleted.
const (
	UserStatusDisabled = 0
	UserStatusActive   = 1
)

// DefaultAvatarPath is assigned to newly registered accounts.
const DefaultAvatarPath = "static/avatars/default.png"

// User is the domain model for administrative accounts.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	DepartmentID *int64
	AvatarURL    string
	Status       int
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Active reports whether the account may authenticate.
func (u *User) Active() bool {
	return u.Status == UserStatusActive
}
