package event

import "errors"

var (
	// ErrBusClosed is returned when publishing to a closed bus.
	ErrBusClosed = errors.New("event bus is closed")

	// ErrInvalidPayload is returned when a payload cannot be converted to the handler's type.
	ErrInvalidPayload = errors.New("invalid event payload")

	// ErrHandlerPanic wraps a panic recovered from a handler.
	ErrHandlerPanic = errors.New("event handler panicked")

	// ErrUnnamedEvent is returned when an event has no name to dispatch on.
	ErrUnnamedEvent = errors.New("event has no name")
)
