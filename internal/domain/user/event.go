package user

import "time"

type EventType string

const (
	EventRegistered             EventType = "user_registered"
	EventLoggedIn               EventType = "user_logged_in"
	EventPasswordResetRequested EventType = "password_reset_requested"
	EventResetEmailFailed       EventType = "password_reset_email_failed"
	EventPasswordResetCompleted EventType = "password_reset_completed"
	EventPasswordChanged        EventType = "password_changed"
)

// Event is an account lifecycle notification. It carries ids only, never
// credentials or contact details.
type Event struct {
	Type       EventType `json:"type"`
	UserID     uint      `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
