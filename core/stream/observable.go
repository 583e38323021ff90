package stream

import (
	"context"
	"fmt"
	"sync/atomic"
)

// Observable is the read-only side of a stream. Consumers subscribe through it
// and end their registration with the returned Subscription; nothing reachable
// from an Observable can emit.
type Observable[T any] interface {
	Subscribe(observer Observer[T]) Subscription
}

type observableFunc[T any] func(Observer[T]) Subscription

func (f observableFunc[T]) Subscribe(observer Observer[T]) Subscription {
	if observer == nil {
		observer = ObserverFuncs[T]{}
	}
	return f(observer)
}

// Create builds a cold Observable. onSubscribe runs once per subscription with
// an observer that is safe to call from any goroutine: signals are delivered one
// at a time, nothing is delivered after a terminal signal or after Unsubscribe,
// and a terminal signal releases the subscription. The returned teardown (may be
// nil) runs exactly once when the subscription ends.
//
// Example:
//
//	ticks := stream.Create(func(o stream.Observer[time.Time]) func() {
//	    t := time.NewTicker(time.Second)
//	    go func() {
//	        for now := range t.C {
//	            _ = o.Next(now)
//	        }
//	    }()
//	    return t.Stop
//	})
func Create[T any](onSubscribe func(Observer[T]) func()) Observable[T] {
	return observableFunc[T](func(down Observer[T]) Subscription {
		sub := newSubscription(nil)
		safe := &safeObserver[T]{down: down, sub: sub}

		teardown, err := produce(onSubscribe, safe)
		if err != nil {
			safe.Error(err)
		}
		sub.add(teardown)

		return sub
	})
}

func produce[T any](onSubscribe func(Observer[T]) func(), o Observer[T]) (teardown func(), err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrProducerPanic, r)
		}
	}()
	return onSubscribe(o), nil
}

// safeObserver guards one subscription of a Create observable.
type safeObserver[T any] struct {
	down    Observer[T]
	sub     *subscription
	stopped atomic.Bool
	tramp   trampoline
}

func (s *safeObserver[T]) Next(value T) error {
	if s.stopped.Load() || s.sub.Closed() {
		return nil
	}
	s.tramp.push(func() error {
		if s.sub.Closed() {
			return nil
		}
		return callNext(s.down, value)
	})
	return s.tramp.run()
}

func (s *safeObserver[T]) Error(err error) {
	s.terminate(err)
}

func (s *safeObserver[T]) Complete() {
	s.terminate(nil)
}

func (s *safeObserver[T]) terminate(cause error) {
	if !s.stopped.CompareAndSwap(false, true) {
		return
	}
	s.tramp.push(func() error {
		if s.sub.Closed() {
			return nil
		}
		err := callTerminal(s.down, cause)
		s.sub.Unsubscribe()
		return err
	})
	reportUnhandled(s.tramp.run())
}

// Of returns an Observable that emits values in order, then completes.
func Of[T any](values ...T) Observable[T] {
	return Create(func(o Observer[T]) func() {
		for _, v := range values {
			reportUnhandled(o.Next(v))
		}
		o.Complete()
		return nil
	})
}

// Empty returns an Observable that completes without emitting.
func Empty[T any]() Observable[T] {
	return Of[T]()
}

// Throw returns an Observable that fails with err without emitting.
func Throw[T any](err error) Observable[T] {
	return Create(func(o Observer[T]) func() {
		o.Error(err)
		return nil
	})
}

// FromFunc returns an Observable that runs fn on its own goroutine for each
// subscription, emits the result at most once and then completes, or fails with
// the error fn returns. Unsubscribing cancels the context passed to fn.
//
// This is the shape of an upstream data source: a request that produces one
// response, composed with SwitchMap instead of blocking the caller.
//
// Example:
//
//	page := stream.FromFunc(ctx, func(ctx context.Context) ([]Lesson, error) {
//	    return repo.List(ctx, offset, limit)
//	})
func FromFunc[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) Observable[T] {
	return Create(func(o Observer[T]) func() {
		ctx, cancel := context.WithCancel(ctx)

		go func() {
			defer cancel()
			defer func() {
				if r := recover(); r != nil {
					o.Error(fmt.Errorf("%w: %v", ErrProducerPanic, r))
				}
			}()

			if err := ctx.Err(); err != nil {
				o.Error(err)
				return
			}

			value, err := fn(ctx)
			if err != nil {
				o.Error(err)
				return
			}
			reportUnhandled(o.Next(value))
			o.Complete()
		}()

		return cancel
	})
}
