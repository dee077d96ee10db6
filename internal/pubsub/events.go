// Package pubsub provides a generic publish/subscribe event system and the
// glue that turns subscriptions into Bubble Tea commands. Observers that fire
// on background goroutines publish here; screens consume the events on the
// UI loop.
package pubsub

import "time"

// EventType represents the type of event being published.
type EventType string

const (
	CreatedEvent EventType = "created"
	UpdatedEvent EventType = "updated"

	// CompletedEvent carries the result of an asynchronous operation
	// (registration outcome, sign-out completion).
	CompletedEvent EventType = "completed"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}
