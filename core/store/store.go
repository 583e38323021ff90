package store

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/logger"
	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/stream"
)

// Store owns one piece of shared state and broadcasts every transition as an
// immutable snapshot.
//
// The state never leaves the store by reference: mutators work on a private
// copy, Snapshot returns a copy and every subscriber receives its own copy of
// each snapshot.
type Store[T any] struct {
	subject *stream.BehaviorSubject[T]
	clone   CloneFunc[T]
	logger  *slog.Logger
	name    string
}

// Option configures a Store.
type Option[T any] func(*Store[T])

// WithClone sets the function used to copy state. Default is JSONClone.
func WithClone[T any](fn CloneFunc[T]) Option[T] {
	return func(s *Store[T]) {
		if fn != nil {
			s.clone = fn
		}
	}
}

// WithLogger configures structured logging for the store.
func WithLogger[T any](l *slog.Logger) Option[T] {
	return func(s *Store[T]) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithName sets the store name used in log records.
func WithName[T any](name string) Option[T] {
	return func(s *Store[T]) {
		if name != "" {
			s.name = name
		}
	}
}

// New creates a store holding a copy of initial.
//
// Example:
//
//	lessons, err := store.New([]Lesson{},
//	    store.WithName[[]Lesson]("lessons"),
//	    store.WithClone(store.CloneSlice[[]Lesson]),
//	)
func New[T any](initial T, opts ...Option[T]) (*Store[T], error) {
	s := &Store[T]{
		clone:  JSONClone[T],
		logger: logger.Discard(),
		name:   "store",
	}
	for _, opt := range opts {
		opt(s)
	}

	state, err := s.clone(initial)
	if err != nil {
		return nil, err
	}

	s.subject = stream.NewBehaviorSubject(state,
		stream.WithName(s.name),
		stream.WithLogger(s.logger),
	)
	return s, nil
}

// Initialize replaces the state wholesale with a copy of state and broadcasts it.
func (s *Store[T]) Initialize(state T) error {
	return s.Mutate(func(T) (T, error) {
		return state, nil
	})
}

// Mutate builds the next state from a private copy of the current one and
// broadcasts it. The updater may modify its argument freely.
//
// When the next state cannot be built (the updater fails or panics, or the copy
// fails) nothing is broadcast and an error wrapping ErrMutationFailed is
// returned. Observer failures are returned from the call that ran the
// notification pass, which may be a concurrent Mutate on another goroutine.
// The new state has been applied either way; use errors.As with
// *stream.ObserverError to tell them apart.
func (s *Store[T]) Mutate(updater func(draft T) (T, error)) error {
	err := s.subject.Update(func(current T) (T, error) {
		draft, err := s.clone(current)
		if err != nil {
			return current, fmt.Errorf("%w: %w", ErrMutationFailed, err)
		}

		next, err := apply(updater, draft)
		if err != nil {
			return current, fmt.Errorf("%w: %w", ErrMutationFailed, err)
		}

		// The updater may return a value that aliases memory it still holds.
		out, err := s.clone(next)
		if err != nil {
			return current, fmt.Errorf("%w: %w", ErrMutationFailed, err)
		}
		return out, nil
	})
	if err == nil {
		return nil
	}

	var oe *stream.ObserverError
	switch {
	case errors.As(err, &oe):
		return err
	case errors.Is(err, stream.ErrCompleted):
		return ErrStoreClosed
	default:
		s.logger.Debug("mutation rejected",
			logger.Component(s.name),
			logger.Error(err))
		return err
	}
}

func apply[T any](updater func(T) (T, error), draft T) (next T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("updater panicked: %v", r)
		}
	}()
	return updater(draft)
}

// Snapshot returns a copy of the current state without subscribing.
func (s *Store[T]) Snapshot() (T, error) {
	return s.clone(s.subject.Value())
}

// Observable returns the read-only stream of snapshots. A new subscriber
// receives the current snapshot immediately. Every subscriber gets its own copy.
func (s *Store[T]) Observable() stream.Observable[T] {
	return stream.TryMap(s.subject.AsObservable(), s.clone)
}

// Close completes the stream of snapshots. Later mutations return ErrStoreClosed.
func (s *Store[T]) Close() {
	s.subject.Complete()
}
