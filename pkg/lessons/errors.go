package lessons

import "errors"

var (
	ErrLessonNotFound   = errors.New("lessons: lesson not found")
	ErrDuplicateLesson  = errors.New("lessons: lesson id already exists")
	ErrEmptyDescription = errors.New("lessons: empty lesson description")
	ErrClosed           = errors.New("lessons: store is closed")
	ErrFirstPage        = errors.New("lessons: already on the first page")
	ErrPageOutOfRange   = errors.New("lessons: page number out of range")
	ErrInvalidPageSize  = errors.New("lessons: page size must be positive")
)
