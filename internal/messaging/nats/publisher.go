package nats

import (
	"context"
	"fmt"

	"github.com/abgdnv/butcherpos/internal/messaging"
	"github.com/nats-io/nats.go/jetstream"
)

// JetStreamPublisher is the subset of jetstream.JetStream used to publish.
type JetStreamPublisher interface {
	Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

type Publisher struct {
	js      JetStreamPublisher
	subject string
}

// NewPublisher publishes every event to subject, or to the event's own subject when subject is empty.
func NewPublisher(js JetStreamPublisher, subject string) *Publisher {
	return &Publisher{js: js, subject: subject}
}

func (p *Publisher) Publish(ctx context.Context, event messaging.Event) error {
	data, err := event.Payload()
	if err != nil {
		return fmt.Errorf("failed to get event payload: %w", err)
	}
	subject := p.subject
	if subject == "" {
		subject = event.Subject()
	}
	if _, err := p.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}
	return nil
}
