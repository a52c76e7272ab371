package events

import (
	"time"
)

// EventType enumerates session lifecycle events.
type EventType string

const (
	EventSessionRestored    EventType = "session_restored"
	EventSessionLoggedIn    EventType = "session_logged_in"
	EventSessionLoggedOut   EventType = "session_logged_out"
	EventSessionCleared     EventType = "session_cleared"
	EventSessionExpired     EventType = "session_expired"
	EventSessionUserUpdated EventType = "session_user_updated"
)

// Event is published on every session transition. Payload is a snapshot of the new state.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Reason    string      `json:"reason,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}
