package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserUpdated         EventType = "user_updated"
	EventUserRolesChanged    EventType = "user_roles_changed"
	EventUserPasswordChanged EventType = "user_password_changed"
	EventUserLoggedOut       EventType = "user_logged_out"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    int64       `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// UserRolesChangedPayload payload.
type UserRolesChangedPayload struct {
	RoleIDs []int64 `json:"role_ids"`
}

// UserUpdatedPayload payload.
type UserUpdatedPayload struct {
	Fields []string `json:"fields"`
}
