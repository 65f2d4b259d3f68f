package rabbitmq

import (
	"context"
	"fmt"
	"time"

	"github.com/oksasatya/go-user-registration/internal/domain/event"
)

// JSONPublisher is the part of helpers.RabbitPublisher the event publisher
// needs.
type JSONPublisher interface {
	PublishJSON(ctx context.Context, msgType, msgID string, body any) error
}

// UserEventPublisher puts user lifecycle events on a RabbitMQ queue.
type UserEventPublisher struct {
	pub     JSONPublisher
	timeout time.Duration
}

func NewUserEventPublisher(pub JSONPublisher, timeout time.Duration) *UserEventPublisher {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &UserEventPublisher{pub: pub, timeout: timeout}
}

// Publish sends evt. The request context may already be close to its deadline,
// so publishing gets its own bounded context that keeps the request's values.
func (p *UserEventPublisher) Publish(ctx context.Context, evt event.UserEvent) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()
	if err := p.pub.PublishJSON(ctx, string(evt.Type), evt.ID, evt); err != nil {
		return fmt.Errorf("publish %s for user %d: %w", evt.Type, evt.UserID, err)
	}
	return nil
}

// NopPublisher drops every event. It is used when EVENTS_ENABLED is false.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, event.UserEvent) error { return nil }
