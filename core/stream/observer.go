package stream

import "fmt"

// Observer is the sink side of a stream.
//
// Next returns an error when the observer could not handle the value; the error is
// isolated to this observer and reported by the producer. Error and Complete are
// terminal: no further signals follow either of them.
type Observer[T any] interface {
	Next(value T) error
	Error(err error)
	Complete()
}

// ObserverFuncs adapts plain functions to the Observer interface.
// Nil fields are treated as no-ops.
type ObserverFuncs[T any] struct {
	OnNext     func(T) error
	OnError    func(error)
	OnComplete func()
}

func (o ObserverFuncs[T]) Next(value T) error {
	if o.OnNext == nil {
		return nil
	}
	return o.OnNext(value)
}

func (o ObserverFuncs[T]) Error(err error) {
	if o.OnError != nil {
		o.OnError(err)
	}
}

func (o ObserverFuncs[T]) Complete() {
	if o.OnComplete != nil {
		o.OnComplete()
	}
}

// NextFunc returns an observer that only cares about values.
//
// Example:
//
//	sub := lessons.Subscribe(stream.NextFunc(func(l []Lesson) {
//	    render(l)
//	}))
//	defer sub.Unsubscribe()
func NextFunc[T any](fn func(T)) Observer[T] {
	return ObserverFuncs[T]{
		OnNext: func(v T) error {
			fn(v)
			return nil
		},
	}
}

// callNext invokes observer.Next converting a panic into an error.
func callNext[T any](o Observer[T], value T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrObserverPanic, r)
		}
	}()
	return o.Next(value)
}

// callTerminal invokes Error (when cause is non-nil) or Complete, converting a panic into an error.
func callTerminal[T any](o Observer[T], cause error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrObserverPanic, r)
		}
	}()
	if cause != nil {
		o.Error(cause)
	} else {
		o.Complete()
	}
	return nil
}
