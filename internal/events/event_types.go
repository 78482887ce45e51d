package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLoginSucceeded      EventType = "login_succeeded"
	EventLoginFailed         EventType = "login_failed"
	EventStaffLockedOut      EventType = "staff_locked_out"
	EventLoginRejectedLocked EventType = "login_rejected_locked"
	EventPasswordBootstrap   EventType = "password_bootstrapped"
)

// Event represents a login outcome emitted by the authenticator.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	StaffID   string      `json:"staff_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NewEvent stamps an event with a fresh id.
func NewEvent(eventType EventType, staffID string, at time.Time, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		StaffID:   staffID,
		Timestamp: at,
		Payload:   payload,
	}
}

// LoginSucceededPayload payload.
type LoginSucceededPayload struct {
	Department string `json:"department"`
	Bootstrap  bool   `json:"bootstrap"`
}

// LoginFailedPayload payload. Reason is internal and never sent to clients.
type LoginFailedPayload struct {
	Reason   string `json:"reason"`
	Attempts int    `json:"attempts"`
}

// LockoutPayload payload for lockouts and rejected-while-locked logins.
type LockoutPayload struct {
	Reason       string    `json:"reason,omitempty"`
	Attempts     int       `json:"attempts"`
	LockoutUntil time.Time `json:"lockout_until"`
}
