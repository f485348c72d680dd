package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSnapshotRefreshed      EventType = "snapshot_refreshed"
	EventRoleSelected           EventType = "role_selected"
	EventAuthorizationGenerated EventType = "authorization_generated"
)

// Event represents something an operator did during a session.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SessionID string      `json:"session_id"`
	Username  string      `json:"username"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// RoleSelectedPayload payload.
type RoleSelectedPayload struct {
	Role string `json:"role"`
}

// AuthorizationGeneratedPayload payload.
type AuthorizationGeneratedPayload struct {
	Role      string `json:"role"`
	Employees int    `json:"employees"`
	Exams     int    `json:"exams"`
}
