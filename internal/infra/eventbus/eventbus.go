// Package eventbus provides the in-process session event bus.
package eventbus

import (
	"context"
	"log/slog"
	"sync"

	"pricing/internal/domain/entity"
	"pricing/internal/domain/service"

	"go.uber.org/fx"
)

// Bus delivers session events to subscribers synchronously, in subscription order.
// Synchronous delivery lets a publisher rely on every handler having run when Publish returns.
type Bus struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[uint64]service.SessionEventHandler
	order    []uint64
	logger   *slog.Logger
}

// New creates an empty Bus.
func New(logger *slog.Logger) *Bus {
	return &Bus{
		handlers: make(map[uint64]service.SessionEventHandler),
		logger:   logger,
	}
}

// SubscribeSessionEvents implements service.EventSubscriber.
func (b *Bus) SubscribeSessionEvents(handler service.SessionEventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[id] = handler
	b.order = append(b.order, id)

	var once sync.Once

	return func() {
		once.Do(func() { b.unsubscribe(id) })
	}
}

func (b *Bus) unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.handlers, id)
	for i, existing := range b.order {
		if existing == id {
			b.order = append(b.order[:i], b.order[i+1:]...)

			break
		}
	}
}

// PublishSessionEvent implements service.EventPublisher. A panicking handler is logged
// and does not prevent delivery to the others.
func (b *Bus) PublishSessionEvent(ctx context.Context, event *entity.SessionEvent) error {
	b.mu.RLock()
	handlers := make([]service.SessionEventHandler, 0, len(b.order))
	for _, id := range b.order {
		handlers = append(handlers, b.handlers[id])
	}
	b.mu.RUnlock()

	b.logger.DebugContext(ctx, "Publishing session event",
		slog.String("type", string(event.Type)),
		slog.String("reason", event.Reason),
		slog.Int("subscribers", len(handlers)),
	)

	for _, handler := range handlers {
		b.deliver(ctx, handler, event)
	}

	return nil
}

func (b *Bus) deliver(ctx context.Context, handler service.SessionEventHandler, event *entity.SessionEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.ErrorContext(ctx, "Session event handler panicked",
				slog.String("type", string(event.Type)),
				slog.Any("panic", r),
			)
		}
	}()

	handler(ctx, event)
}

// Module provides the Bus under both session event interfaces
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(
		New,
		func(b *Bus) service.EventPublisher { return b },
		func(b *Bus) service.EventSubscriber { return b },
	),
)
