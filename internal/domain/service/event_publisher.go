package service

import (
	"context"

	"pricing/internal/domain/entity"
)

// SessionEventHandler reacts to a published session event.
type SessionEventHandler func(ctx context.Context, event *entity.SessionEvent)

// EventPublisher defines the interface for broadcasting session events inside the process
type EventPublisher interface {
	// PublishSessionEvent delivers the event to every current subscriber
	PublishSessionEvent(ctx context.Context, event *entity.SessionEvent) error
}

// EventSubscriber registers handlers for session events
type EventSubscriber interface {
	// SubscribeSessionEvents registers handler and returns a function that removes it
	SubscribeSessionEvents(handler SessionEventHandler) (unsubscribe func())
}
