package event

import (
	"context"
	"log/slog"
	"time"

	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/logger"
)

// Middleware wraps a Handler to add additional functionality.
type Middleware func(Handler) Handler

type middlewareHandler struct {
	name string
	fn   func(ctx context.Context, payload any) error
}

func (h *middlewareHandler) Name() string {
	return h.name
}

func (h *middlewareHandler) Handle(ctx context.Context, payload any) error {
	return h.fn(ctx, payload)
}

// chainMiddleware applies middleware left-to-right: the first one wraps innermost.
func chainMiddleware(handler Handler, middleware []Middleware) Handler {
	for _, mw := range middleware {
		handler = mw(handler)
	}
	return handler
}

// LoggingMiddleware logs handler execution with timing.
//
// Example:
//
//	bus := event.NewBus(event.WithMiddleware(event.LoggingMiddleware(log)))
func LoggingMiddleware(log *slog.Logger) Middleware {
	return func(next Handler) Handler {
		return &middlewareHandler{
			name: next.Name(),
			fn: func(ctx context.Context, payload any) error {
				start := time.Now()
				log.DebugContext(ctx, "event started",
					logger.Event(next.Name()),
					logger.ID("event_id", EventID(ctx)))

				err := next.Handle(ctx, payload)

				if err != nil {
					log.ErrorContext(ctx, "event failed",
						logger.Event(next.Name()),
						logger.ID("event_id", EventID(ctx)),
						logger.Elapsed(start),
						logger.Error(err))
				} else {
					log.DebugContext(ctx, "event completed",
						logger.Event(next.Name()),
						logger.ID("event_id", EventID(ctx)),
						logger.Elapsed(start))
				}

				return err
			},
		}
	}
}
