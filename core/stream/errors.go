package stream

import (
	"errors"
	"fmt"
)

var (
	// ErrCompleted is returned when a value is pushed into a subject that has already
	// been completed or errored. It signals a programmer error on the producer side.
	ErrCompleted = errors.New("stream: subject already completed")

	// ErrObserverPanic wraps a recovered panic raised by an observer callback.
	ErrObserverPanic = errors.New("stream: observer panicked")

	// ErrProducerPanic wraps a recovered panic raised by a producer function passed to FromFunc.
	ErrProducerPanic = errors.New("stream: producer panicked")
)

// Signal identifies which observer sink a notification was delivered to.
type Signal string

const (
	SignalNext     Signal = "next"
	SignalError    Signal = "error"
	SignalComplete Signal = "complete"
)

// ObserverError reports a failure raised by a single observer while a subject was
// notifying its registry. The failure never stops delivery to the other observers.
type ObserverError struct {
	SubscriptionID string
	Signal         Signal
	Err            error
}

func (e *ObserverError) Error() string {
	return fmt.Sprintf("stream: observer %s failed on %s: %v", e.SubscriptionID, e.Signal, e.Err)
}

func (e *ObserverError) Unwrap() error {
	return e.Err
}
