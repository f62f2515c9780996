package domain

import "time"

// Role status values.
const (
	RoleStatusDisabled = 0
	RoleStatusEnabled  = 1
)

// Role is a named grant bundle assigned to users.
type Role struct {
	ID          int64
	Name        string
	Description string
	Status      int
	CreatedAt   time.Time
}

// Permission is a single action grant, optionally tied to a menu entry.
type Permission struct {
	ID        int64
	MenuID    *int64
	Name      string
	Action    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
