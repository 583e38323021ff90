package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/logger"
	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/stream"
)

// envelope carries the publisher's context along with the event.
type envelope struct {
	ctx   context.Context
	event Event
}

// Bus is an in-process event channel. Every event is delivered synchronously,
// in publish order, to each subscription; a subscription dispatches it once to
// the handlers registered for the event's name.
//
// A Bus is an explicit value, created and closed by its owner. There is no
// package-level instance.
type Bus struct {
	subject    *stream.Subject[envelope]
	middleware []Middleware
	logger     *slog.Logger
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithBusLogger configures structured logging for the bus.
func WithBusLogger(l *slog.Logger) BusOption {
	return func(b *Bus) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithMiddleware wraps every handler subscribed to the bus.
func WithMiddleware(mw ...Middleware) BusOption {
	return func(b *Bus) {
		b.middleware = append(b.middleware, mw...)
	}
}

// NewBus creates an open bus.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{logger: logger.Discard()}
	for _, opt := range opts {
		opt(b)
	}
	b.subject = stream.NewSubject[envelope](
		stream.WithName("event_bus"),
		stream.WithLogger(b.logger),
	)
	return b
}

// Publish wraps payload in a new Event and publishes it.
func (b *Bus) Publish(ctx context.Context, payload any) error {
	return b.PublishEvent(ctx, NewEvent(payload))
}

// PublishEvent delivers evt to every subscription before returning.
// Handler failures are returned joined; they never stop delivery to other
// handlers or subscriptions.
func (b *Bus) PublishEvent(ctx context.Context, evt Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if evt.Name == "" {
		return ErrUnnamedEvent
	}

	err := b.subject.Next(envelope{ctx: ctx, event: evt})
	if errors.Is(err, stream.ErrCompleted) {
		return ErrBusClosed
	}
	return err
}

// Events returns every published event as a stream.
func (b *Bus) Events() stream.Observable[Event] {
	return stream.Map(b.subject.AsObservable(), func(env envelope) Event {
		return env.event
	})
}

// Subscribe registers handlers as one subscription. Each event is passed to the
// handlers whose Name matches the event name, with the event metadata attached
// to the context. Events without a matching handler are ignored.
//
// Example:
//
//	sub := bus.Subscribe(
//	    event.NewHandlerFunc(func(ctx context.Context, evt LessonArrived) error {
//	        return lessons.AddLesson(evt.Lesson)
//	    }),
//	)
//	defer sub.Unsubscribe()
func (b *Bus) Subscribe(handlers ...Handler) stream.Subscription {
	byName := make(map[string][]Handler, len(handlers))
	for _, h := range handlers {
		h = chainMiddleware(h, b.middleware)
		byName[h.Name()] = append(byName[h.Name()], h)
	}

	return b.subject.Subscribe(stream.ObserverFuncs[envelope]{
		OnNext: func(env envelope) error {
			return dispatch(env, byName[env.event.Name])
		},
	})
}

// Close completes the bus. Later publishes return ErrBusClosed.
func (b *Bus) Close() {
	b.subject.Complete()
}

func dispatch(env envelope, handlers []Handler) error {
	if len(handlers) == 0 {
		return nil
	}

	ctx := WithEventMeta(env.ctx, env.event)

	var errs []error
	for _, h := range handlers {
		if err := safeHandle(h, ctx, env.event.Payload); err != nil {
			errs = append(errs, fmt.Errorf("handler %s failed: %w", h.Name(), err))
		}
	}
	return errors.Join(errs...)
}
