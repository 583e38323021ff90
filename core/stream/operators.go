package stream

import (
	"reflect"
	"sync"
)

// lift subscribes to source once per downstream subscription, feeding it the
// observer built for that subscription. Unsubscribing downstream unsubscribes
// from source.
func lift[T, R any](source Observable[T], build func(down Observer[R]) Observer[T]) Observable[R] {
	return Create(func(down Observer[R]) func() {
		return source.Subscribe(build(down)).Unsubscribe
	})
}

// Map forwards fn(value) for every value of source.
func Map[T, R any](source Observable[T], fn func(T) R) Observable[R] {
	return lift(source, func(down Observer[R]) Observer[T] {
		return ObserverFuncs[T]{
			OnNext: func(v T) error {
				return down.Next(fn(v))
			},
			OnError:    down.Error,
			OnComplete: down.Complete,
		}
	})
}

// TryMap is Map for fallible projections. A projection error is reported to
// the producer as a failure of this subscription; the value is dropped and the
// stream keeps flowing.
func TryMap[T, R any](source Observable[T], fn func(T) (R, error)) Observable[R] {
	return lift(source, func(down Observer[R]) Observer[T] {
		return ObserverFuncs[T]{
			OnNext: func(v T) error {
				r, err := fn(v)
				if err != nil {
					return err
				}
				return down.Next(r)
			},
			OnError:    down.Error,
			OnComplete: down.Complete,
		}
	})
}

// Filter forwards only the values for which predicate holds. Other values are dropped.
func Filter[T any](source Observable[T], predicate func(T) bool) Observable[T] {
	return lift(source, func(down Observer[T]) Observer[T] {
		return ObserverFuncs[T]{
			OnNext: func(v T) error {
				if !predicate(v) {
					return nil
				}
				return down.Next(v)
			},
			OnError:    down.Error,
			OnComplete: down.Complete,
		}
	})
}

// DistinctUntilChanged drops values equal to the previously forwarded one.
func DistinctUntilChanged[T comparable](source Observable[T]) Observable[T] {
	return DistinctUntilChangedFunc(source, func(a, b T) bool { return a == b })
}

// DistinctUntilChangedFunc is DistinctUntilChanged with a custom equality.
// A nil equal falls back to reflect.DeepEqual.
func DistinctUntilChangedFunc[T any](source Observable[T], equal func(a, b T) bool) Observable[T] {
	if equal == nil {
		equal = func(a, b T) bool { return reflect.DeepEqual(a, b) }
	}
	return lift(source, func(down Observer[T]) Observer[T] {
		var (
			mu   sync.Mutex
			last T
			seen bool
		)
		return ObserverFuncs[T]{
			OnNext: func(v T) error {
				mu.Lock()
				if seen && equal(last, v) {
					mu.Unlock()
					return nil
				}
				last, seen = v, true
				mu.Unlock()
				return down.Next(v)
			},
			OnError:    down.Error,
			OnComplete: down.Complete,
		}
	})
}

// Take forwards the first n values of source, then completes and unsubscribes.
func Take[T any](source Observable[T], n int) Observable[T] {
	if n <= 0 {
		return Empty[T]()
	}
	return lift(source, func(down Observer[T]) Observer[T] {
		var (
			mu    sync.Mutex
			count int
		)
		return ObserverFuncs[T]{
			OnNext: func(v T) error {
				mu.Lock()
				if count >= n {
					mu.Unlock()
					return nil
				}
				count++
				last := count == n
				mu.Unlock()

				err := down.Next(v)
				if last {
					down.Complete()
				}
				return err
			},
			OnError:    down.Error,
			OnComplete: down.Complete,
		}
	})
}

// Catch forwards source until it fails, then hands the failure to handler and
// continues with the Observable it returns. A nil fallback completes the stream.
//
// Use Catch to route an upstream failure into a separate channel, such as a
// message store, and keep the data stream alive:
//
//	page := stream.Catch(source.FetchPage(ctx, n, size), func(err error) stream.Observable[Page] {
//	    messages.Report(err)
//	    return stream.Empty[Page]()
//	})
func Catch[T any](source Observable[T], handler func(error) Observable[T]) Observable[T] {
	return Create(func(down Observer[T]) func() {
		var (
			mu       sync.Mutex
			fallback Subscription
			closed   bool
		)

		upstream := source.Subscribe(ObserverFuncs[T]{
			OnNext: down.Next,
			OnError: func(err error) {
				next := handler(err)
				if next == nil {
					down.Complete()
					return
				}
				sub := next.Subscribe(down)

				mu.Lock()
				if closed {
					mu.Unlock()
					sub.Unsubscribe()
					return
				}
				fallback = sub
				mu.Unlock()
			},
			OnComplete: down.Complete,
		})

		return func() {
			upstream.Unsubscribe()

			mu.Lock()
			closed = true
			sub := fallback
			mu.Unlock()

			if sub != nil {
				sub.Unsubscribe()
			}
		}
	})
}
