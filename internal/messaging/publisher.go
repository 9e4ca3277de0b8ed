// Package messaging defines the events the point of sale emits and the publishers that carry them.
package messaging

import (
	"context"
)

// SalesCompletedSubject is the default subject of SaleCompleted events.
const SalesCompletedSubject = "pos.sales.completed"

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher drops every event. Used when events are disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
