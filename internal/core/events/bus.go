package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Event is a domain event raised inside one company.
type Event interface {
	EventType() string
	EventID() string
	OccurredAt() time.Time
	Company() string
}

// Handler reacts to an event. It runs on a context that keeps the publisher's
// values but not its deadline or cancellation.
type Handler func(ctx context.Context, event Event) error

type EventBus struct {
	handlers map[string][]Handler
	logger   *slog.Logger
	mu       sync.RWMutex
	inflight sync.WaitGroup
}

func NewEventBus(logger *slog.Logger) *EventBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventBus{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

func (eb *EventBus) Subscribe(eventType string, handler Handler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.handlers[eventType] = append(eb.handlers[eventType], handler)
	eb.logger.Debug("event handler registered",
		"event_type", eventType,
		"total_handlers", len(eb.handlers[eventType]))
}

// Publish hands event to every subscriber on its own goroutine and returns
// immediately. A budget mutation has already committed by the time it
// publishes, so handlers are detached from the request that triggered them.
func (eb *EventBus) Publish(ctx context.Context, event Event) error {
	handlers, lg := eb.route(event)
	if len(handlers) == 0 {
		return nil
	}

	ctx = context.WithoutCancel(ctx)
	lg.Debug("publishing event", "handlers_count", len(handlers))

	for _, handler := range handlers {
		eb.inflight.Add(1)
		go func(h Handler) {
			defer eb.inflight.Done()
			if err := invoke(ctx, h, event); err != nil {
				lg.Error("event handler failed", "error", err)
			}
		}(handler)
	}

	return nil
}

// PublishSync runs the subscribers in order and stops at the first failure.
func (eb *EventBus) PublishSync(ctx context.Context, event Event) error {
	handlers, lg := eb.route(event)
	if len(handlers) == 0 {
		return nil
	}

	ctx = context.WithoutCancel(ctx)
	lg.Debug("publishing event synchronously", "handlers_count", len(handlers))

	for _, handler := range handlers {
		if err := invoke(ctx, handler, event); err != nil {
			lg.Error("event handler failed", "error", err)
			return fmt.Errorf("handler failed for event %s: %w", event.EventType(), err)
		}
	}

	return nil
}

// Wait blocks until every handler started by Publish has returned. The
// server calls it on shutdown so audit entries are not lost.
func (eb *EventBus) Wait() {
	eb.inflight.Wait()
}

func (eb *EventBus) route(event Event) ([]Handler, *slog.Logger) {
	eb.mu.RLock()
	handlers := eb.handlers[event.EventType()]
	eb.mu.RUnlock()

	lg := eb.logger.With(
		"event_type", event.EventType(),
		"event_id", event.EventID(),
		"company_id", event.Company())
	if len(handlers) == 0 {
		lg.Debug("no handlers for event type")
	}
	return handlers, lg
}

// invoke turns a handler panic into an error so one bad subscriber cannot
// take the process down from a background goroutine.
func invoke(ctx context.Context, h Handler, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return h(ctx, event)
}
