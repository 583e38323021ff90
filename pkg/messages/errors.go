package messages

import "errors"

var (
	ErrEmptyMessage       = errors.New("messages: empty message text")
	ErrMessageNotFound    = errors.New("messages: message not found")
	ErrClosed             = errors.New("messages: store is closed")
	ErrNotInitialized     = errors.New("messages: default store is not initialized")
	ErrAlreadyInitialized = errors.New("messages: default store is already initialized")
)
