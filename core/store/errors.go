package store

import "errors"

var (
	// ErrMutationFailed is returned when the next state could not be built.
	// Nothing is broadcast in that case.
	ErrMutationFailed = errors.New("store: mutation failed")

	// ErrCloneFailed is returned when a state copy could not be made.
	ErrCloneFailed = errors.New("store: failed to copy state")

	// ErrStoreClosed is returned by mutators after Close.
	ErrStoreClosed = errors.New("store: closed")
)
