package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType names a domain event published after a state change.
type EventType string

const (
	EventPaymentFailedRecorded EventType = "payment_failed.recorded"
	EventMembershipCancelled   EventType = "membership.cancelled"
	EventPaymentsUpdated       EventType = "payments.updated"
	EventEmailSent             EventType = "email.sent"
)

// Event is the envelope published on the message bus.
type Event struct {
	ID         uuid.UUID `json:"id"`
	Type       EventType `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

// NewEvent stamps a new event with an id and the current time.
func NewEvent(t EventType, data any) Event {
	return Event{
		ID:         uuid.New(),
		Type:       t,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}
