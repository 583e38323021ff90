package draft

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/logger"
	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/stream"
)

// Reporter receives save failures for display. *messages.Store implements it.
type Reporter interface {
	Report(err error)
}

// Saved describes one stored draft.
type Saved[T any] struct {
	Key     string
	Value   T
	SavedAt time.Time
}

// Autosaver stores the latest valid value of a form as a draft.
type Autosaver[T any] struct {
	repo     Repository[T]
	key      string
	valid    func(T) bool
	equal    func(a, b T) bool
	reporter Reporter
	logger   *slog.Logger
	now      func() time.Time

	saved *stream.Subject[Saved[T]]

	mu  sync.Mutex
	sub stream.Subscription
}

// Option configures an Autosaver.
type Option[T any] func(*Autosaver[T])

// WithValidator skips values for which valid returns false.
func WithValidator[T any](valid func(T) bool) Option[T] {
	return func(a *Autosaver[T]) {
		a.valid = valid
	}
}

// WithEqual sets how consecutive values are compared. Default is reflect.DeepEqual.
func WithEqual[T any](equal func(a, b T) bool) Option[T] {
	return func(a *Autosaver[T]) {
		a.equal = equal
	}
}

// WithReporter routes save failures to r.
func WithReporter[T any](r Reporter) Option[T] {
	return func(a *Autosaver[T]) {
		a.reporter = r
	}
}

// WithLogger configures structured logging.
func WithLogger[T any](l *slog.Logger) Option[T] {
	return func(a *Autosaver[T]) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithClock overrides the time source for Saved.SavedAt.
func WithClock[T any](now func() time.Time) Option[T] {
	return func(a *Autosaver[T]) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAutosaver returns an autosaver storing drafts under key in repo.
func NewAutosaver[T any](repo Repository[T], key string, opts ...Option[T]) *Autosaver[T] {
	a := &Autosaver[T]{
		repo:   repo,
		key:    key,
		valid:  func(T) bool { return true },
		logger: logger.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.saved = stream.NewSubject[Saved[T]](stream.WithName("draft.saved"), stream.WithLogger(a.logger))
	return a
}

// Start saves every valid value of values that differs from the previous one.
// A new value cancels the save still in flight for the previous one.
func (a *Autosaver[T]) Start(ctx context.Context, values stream.Observable[T]) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.sub != nil {
		return ErrAlreadyStarted
	}

	changes := stream.DistinctUntilChangedFunc(stream.Filter(values, a.valid), a.equal)
	a.sub = stream.SwitchMap(changes, func(v T) stream.Observable[Saved[T]] {
		return stream.Catch(a.save(ctx, v), a.fail)
	}).Subscribe(stream.ObserverFuncs[Saved[T]]{OnNext: a.saved.Next})

	return nil
}

func (a *Autosaver[T]) save(ctx context.Context, v T) stream.Observable[Saved[T]] {
	return stream.FromFunc(ctx, func(ctx context.Context) (Saved[T], error) {
		if err := a.repo.Save(ctx, a.key, v); err != nil {
			return Saved[T]{}, err
		}
		return Saved[T]{Key: a.key, Value: v, SavedAt: a.now()}, nil
	})
}

func (a *Autosaver[T]) fail(err error) stream.Observable[Saved[T]] {
	if !errors.Is(err, context.Canceled) {
		a.logger.Warn("draft save failed",
			logger.Component("draft"),
			logger.Key("key", a.key),
			logger.Error(err))
		if a.reporter != nil {
			a.reporter.Report(err)
		}
	}
	return stream.Empty[Saved[T]]()
}

// Saved streams the drafts as they are stored.
func (a *Autosaver[T]) Saved() stream.Observable[Saved[T]] {
	return a.saved.AsObservable()
}

// Stop stops watching values and cancels a save in flight. Start may be called again.
func (a *Autosaver[T]) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.sub != nil {
		a.sub.Unsubscribe()
		a.sub = nil
	}
}

// Close stops the autosaver and completes Saved.
func (a *Autosaver[T]) Close() {
	a.Stop()
	a.saved.Complete()
}

// Restore loads the stored draft. It returns ErrDraftNotFound when there is none.
func (a *Autosaver[T]) Restore(ctx context.Context) (T, error) {
	return a.repo.Load(ctx, a.key)
}

// Discard deletes the stored draft.
func (a *Autosaver[T]) Discard(ctx context.Context) error {
	return a.repo.Delete(ctx, a.key)
}
