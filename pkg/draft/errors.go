package draft

import "errors"

var (
	ErrDraftNotFound  = errors.New("draft: not found")
	ErrAlreadyStarted = errors.New("draft: autosave already started")
	ErrEmptyKey       = errors.New("draft: empty key")
)
