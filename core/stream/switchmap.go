package stream

import "fmt"

// SwitchMap maps every value of source to an inner Observable and forwards the
// values of the latest inner only. When a new outer value arrives, the previous
// inner subscription is torn down before the next one is made, so an inner that
// was switched away from can never deliver, even if it emits later.
//
// The result completes once source has completed and the current inner (if any)
// has completed. A failure of source or of the current inner fails the result.
// Unsubscribing tears down both the outer and the inner subscription.
//
// Example:
//
//	results := stream.SwitchMap(queries, func(q string) stream.Observable[[]Hit] {
//	    return stream.FromFunc(ctx, func(ctx context.Context) ([]Hit, error) {
//	        return index.Search(ctx, q)
//	    })
//	})
func SwitchMap[T, R any](source Observable[T], fn func(T) Observable[R]) Observable[R] {
	return Create(func(down Observer[R]) func() {
		sw := &switcher[T, R]{down: down, project: fn}

		outer := source.Subscribe(ObserverFuncs[T]{
			OnNext:     sw.outerNext,
			OnError:    sw.outerError,
			OnComplete: sw.outerComplete,
		})

		return func() {
			outer.Unsubscribe()
			sw.dispose()
		}
	})
}

// switcher holds the state of one SwitchMap subscription. Every field below
// tramp is only touched from jobs run by tramp, which never run concurrently.
type switcher[T, R any] struct {
	down    Observer[R]
	project func(T) Observable[R]
	tramp   trampoline

	gen         uint64
	inner       Subscription
	innerActive bool
	outerDone   bool
	disposed    bool
}

func (s *switcher[T, R]) do(job func() error) error {
	s.tramp.push(job)
	return s.tramp.run()
}

func (s *switcher[T, R]) outerNext(value T) error {
	return s.do(func() error {
		if s.disposed {
			return nil
		}

		s.gen++
		gen := s.gen
		if s.inner != nil {
			s.inner.Unsubscribe()
			s.inner = nil
		}
		s.innerActive = true

		next, err := s.projectValue(value)
		if err != nil {
			s.fail(err)
			return nil
		}

		// Signals of a synchronous inner are queued behind this job, so the
		// handle is stored before any of them is seen.
		s.inner = next.Subscribe(ObserverFuncs[R]{
			OnNext: func(r R) error {
				return s.innerNext(gen, r)
			},
			OnError: func(err error) {
				reportUnhandled(s.innerError(gen, err))
			},
			OnComplete: func() {
				reportUnhandled(s.innerComplete(gen))
			},
		})
		return nil
	})
}

func (s *switcher[T, R]) projectValue(value T) (obs Observable[R], err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrProducerPanic, r)
		}
	}()
	obs = s.project(value)
	if obs == nil {
		obs = Empty[R]()
	}
	return obs, nil
}

func (s *switcher[T, R]) outerError(err error) {
	reportUnhandled(s.do(func() error {
		if !s.disposed {
			s.fail(err)
		}
		return nil
	}))
}

func (s *switcher[T, R]) outerComplete() {
	reportUnhandled(s.do(func() error {
		if s.disposed {
			return nil
		}
		s.outerDone = true
		if !s.innerActive {
			s.disposed = true
			s.down.Complete()
		}
		return nil
	}))
}

func (s *switcher[T, R]) innerNext(gen uint64, value R) error {
	return s.do(func() error {
		if s.disposed || gen != s.gen {
			return nil
		}
		return s.down.Next(value)
	})
}

func (s *switcher[T, R]) innerError(gen uint64, err error) error {
	return s.do(func() error {
		if s.disposed || gen != s.gen {
			return nil
		}
		s.fail(err)
		return nil
	})
}

func (s *switcher[T, R]) innerComplete(gen uint64) error {
	return s.do(func() error {
		if s.disposed || gen != s.gen {
			return nil
		}
		s.inner = nil
		s.innerActive = false
		if s.outerDone {
			s.disposed = true
			s.down.Complete()
		}
		return nil
	})
}

func (s *switcher[T, R]) fail(err error) {
	s.disposed = true
	if s.inner != nil {
		s.inner.Unsubscribe()
		s.inner = nil
	}
	s.down.Error(err)
}

func (s *switcher[T, R]) dispose() {
	reportUnhandled(s.do(func() error {
		s.disposed = true
		if s.inner != nil {
			s.inner.Unsubscribe()
			s.inner = nil
		}
		return nil
	}))
}
