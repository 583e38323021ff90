package stream

import (
	"errors"
	"log/slog"

	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/logger"
)

// Option configures a Subject or BehaviorSubject.
type Option func(*options)

type options struct {
	name      string
	logger    *slog.Logger
	onFailure func(error)
}

func newOptions(opts []Option) options {
	o := options{
		name:   "subject",
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.onFailure == nil {
		o.onFailure = logFailure(o.logger, o.name)
	}
	return o
}

// WithName sets the name used in log records. Default is "subject".
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithLogger configures structured logging for the subject.
// If not set, slog.Default() is used.
// Use slog.New(slog.NewTextHandler(io.Discard, nil)) to disable logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithFailureHandler receives every observer failure (an *ObserverError) once the
// failing observer has been isolated. It replaces the default handler, which logs
// the failure at error level.
//
// Example:
//
//	subject := stream.NewSubject[int](stream.WithFailureHandler(func(err error) {
//	    failures.Add(1)
//	}))
func WithFailureHandler(fn func(error)) Option {
	return func(o *options) {
		if fn != nil {
			o.onFailure = fn
		}
	}
}

func logFailure(l *slog.Logger, name string) func(error) {
	return func(err error) {
		attrs := []any{logger.Component(name), logger.Error(err)}
		var oe *ObserverError
		if errors.As(err, &oe) {
			attrs = append(attrs,
				logger.SubscriptionID(oe.SubscriptionID),
				logger.Event(string(oe.Signal)))
		}
		l.Error("observer failed", attrs...)
	}
}

// reportUnhandled logs failures that have no caller left to return them to,
// such as a downstream error raised while an asynchronous producer delivers.
func reportUnhandled(err error) {
	if err == nil {
		return
	}
	slog.Default().Error("unhandled observer failure",
		logger.Component("stream"),
		logger.Error(err))
}
