package events

import "time"

// Event is the contract for integration events pushed onto the NATS bus
// for downstream consumers (analytics, CRM sync).
type Event interface {
	// EventType returns the unique code for this event
	// (e.g., "SUBSCRIPTION_CREATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the plain implementation the engine publishes; dedicated
// event types are only worth it once consumers need schema guarantees.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
