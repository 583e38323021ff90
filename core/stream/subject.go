package stream

import (
	"errors"
	"slices"
	"sync"

	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/logger"
)

// Subject is the private write side of a multicast stream.
//
// Observers are notified synchronously in subscription order. Deliveries never
// interleave: an emit issued from inside an observer callback, or concurrently
// from another goroutine, is queued and delivered after the current pass.
//
// Only the owner of a Subject should hold it; consumers get the read-only view
// returned by AsObservable.
type Subject[T any] struct {
	mu         sync.Mutex
	observers  []*registration[T]
	value      T
	replay     bool
	done       bool // Complete or Error has been requested
	terminated bool // the terminal signal has been delivered
	cause      error
	seq        uint64 // number of values staged so far

	tramp trampoline
	opts  options
}

// registration is one observer. Its deliveries go through its own queue, so
// a replay and later broadcasts reach the observer one at a time and in order.
type registration[T any] struct {
	sub      *subscription
	observer Observer[T]
	since    uint64 // values staged up to this number are covered by the replay
	tramp    trampoline
}

// NewSubject creates a Subject without replay: observers only receive values
// emitted after they subscribe.
//
// Example:
//
//	clicks := stream.NewSubject[int](stream.WithName("clicks"))
//	sub := clicks.AsObservable().Subscribe(stream.NextFunc(func(n int) {
//	    fmt.Println("clicked", n)
//	}))
//	defer sub.Unsubscribe()
//
//	_ = clicks.Next(1)
func NewSubject[T any](opts ...Option) *Subject[T] {
	return &Subject[T]{opts: newOptions(opts)}
}

// Subscribe registers observer and returns its handle. It never fails.
//
// When the subject replays, the current value is delivered on the calling
// goroutine before Subscribe returns, even from inside another observer's
// callback or while another goroutine is running a notification pass.
// Subscribing to a terminated subject immediately delivers the terminal signal.
func (s *Subject[T]) Subscribe(observer Observer[T]) Subscription {
	if observer == nil {
		observer = ObserverFuncs[T]{}
	}

	reg := &registration[T]{
		sub:      newSubscription(s),
		observer: observer,
	}
	reg.sub.add(func() { s.remove(reg) })

	s.mu.Lock()
	if s.terminated {
		cause := s.cause
		reg.tramp.push(func() error {
			return s.end(reg, cause)
		})
	} else {
		reg.since = s.seq
		s.observers = append(s.observers, reg)
		if s.replay {
			value := s.value
			reg.tramp.push(func() error {
				return s.deliverNext(reg, value)
			})
		}
	}
	// No broadcast can reach reg before s.mu is released.
	reg.tramp.claim()
	s.mu.Unlock()

	_ = reg.tramp.drain()

	return reg.sub
}

// Unsubscribe removes the registration identified by sub. Handles that were
// already removed, or that belong to another stream, are ignored.
func (s *Subject[T]) Unsubscribe(sub Subscription) {
	own, ok := sub.(*subscription)
	if !ok || own == nil || own.owner != s {
		s.opts.logger.Debug("unsubscribe ignored: unknown subscription",
			logger.Component(s.opts.name))
		return
	}
	if own.Closed() {
		s.opts.logger.Debug("unsubscribe ignored: subscription already removed",
			logger.Component(s.opts.name),
			logger.SubscriptionID(own.ID()))
		return
	}
	own.Unsubscribe()
}

// Next emits value to every registered observer.
//
// Observer failures (returned errors or recovered panics) are isolated: every
// remaining observer is still notified. Each failure is passed to the failure
// handler. The failures are also returned joined from the call that ran the
// notification pass, which is not this call when another goroutine is already
// draining. Calling Next after Complete or Error returns ErrCompleted.
func (s *Subject[T]) Next(value T) error {
	if err := s.stage(value); err != nil {
		return err
	}
	return s.tramp.run()
}

// Error terminates the subject, delivering err to every observer's Error sink.
func (s *Subject[T]) Error(err error) {
	if err == nil {
		s.Complete()
		return
	}
	s.terminate(err)
}

// Complete terminates the subject, delivering Complete to every observer and
// clearing the registry.
func (s *Subject[T]) Complete() {
	s.terminate(nil)
}

// AsObservable returns a read-only view of the subject. The view exposes only
// Subscribe; the emit side cannot be recovered from it.
func (s *Subject[T]) AsObservable() Observable[T] {
	return observableFunc[T](s.Subscribe)
}

// Len returns the number of live registrations.
func (s *Subject[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.observers)
}

// Closed reports whether Complete or Error has been called.
func (s *Subject[T]) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// stage records value as the latest one and queues its broadcast without delivering it.
func (s *Subject[T]) stage(value T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		s.opts.logger.Error("emit after completion",
			logger.Component(s.opts.name),
			logger.Error(ErrCompleted))
		return ErrCompleted
	}

	s.value = value
	s.seq++
	seq := s.seq
	s.tramp.push(func() error {
		return s.broadcast(value, seq)
	})
	return nil
}

func (s *Subject[T]) terminate(cause error) {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		s.opts.logger.Debug("terminal signal ignored: subject already completed",
			logger.Component(s.opts.name))
		return
	}
	s.done = true
	s.tramp.push(func() error {
		return s.finish(cause)
	})
	s.mu.Unlock()

	_ = s.tramp.run()
}

func (s *Subject[T]) broadcast(value T, seq uint64) error {
	s.mu.Lock()
	regs := slices.Clone(s.observers)
	s.mu.Unlock()

	var errs []error
	for _, reg := range regs {
		// Subscribed after value was staged; the replay carried it or a newer one.
		if reg.since >= seq {
			continue
		}
		reg.tramp.push(func() error {
			return s.deliverNext(reg, value)
		})
		if err := reg.tramp.run(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Subject[T]) finish(cause error) error {
	s.mu.Lock()
	regs := s.observers
	s.observers = nil
	s.terminated = true
	s.cause = cause
	s.mu.Unlock()

	var errs []error
	for _, reg := range regs {
		reg.tramp.push(func() error {
			return s.end(reg, cause)
		})
		if err := reg.tramp.run(); err != nil {
			errs = append(errs, err)
		}
	}

	s.opts.logger.Debug("subject terminated",
		logger.Component(s.opts.name),
		logger.Count("observers", len(regs)),
		logger.Error(cause))
	return errors.Join(errs...)
}

// end delivers the terminal signal to reg and releases it.
func (s *Subject[T]) end(reg *registration[T], cause error) error {
	if reg.sub.Closed() {
		return nil
	}
	err := s.deliverTerminal(reg, cause)
	reg.sub.Unsubscribe()
	return err
}

func (s *Subject[T]) deliverNext(reg *registration[T], value T) error {
	// Removed while the delivery was queued, possibly by an earlier observer.
	if reg.sub.Closed() {
		return nil
	}
	if err := callNext(reg.observer, value); err != nil {
		return s.fail(reg, SignalNext, err)
	}
	return nil
}

func (s *Subject[T]) deliverTerminal(reg *registration[T], cause error) error {
	signal := SignalComplete
	if cause != nil {
		signal = SignalError
	}
	if err := callTerminal(reg.observer, cause); err != nil {
		return s.fail(reg, signal, err)
	}
	return nil
}

func (s *Subject[T]) fail(reg *registration[T], signal Signal, err error) error {
	oe := &ObserverError{
		SubscriptionID: reg.sub.ID(),
		Signal:         signal,
		Err:            err,
	}
	s.opts.onFailure(oe)
	return oe
}

func (s *Subject[T]) remove(reg *registration[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := slices.Index(s.observers, reg); i >= 0 {
		s.observers = slices.Delete(s.observers, i, i+1)
	}
}
