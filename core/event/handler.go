package event

import "context"

// HandlerFunc is a type-safe function signature for processing events of type T.
type HandlerFunc[T any] func(context.Context, T) error

// Handler processes events of one name.
type Handler interface {
	// Name returns the event name this handler processes.
	Name() string

	// Handle executes the handler with the given event payload.
	Handle(ctx context.Context, payload any) error
}

// NewHandler creates a handler for an explicitly named event.
//
// Example:
//
//	handler := event.NewHandler("lesson.added", func(ctx context.Context, evt LessonAdded) error {
//	    return lessons.AddLesson(evt.Lesson)
//	})
func NewHandler[T any](eventName string, fn HandlerFunc[T]) Handler {
	return &handlerFuncWrapper[T]{
		name: eventName,
		fn:   fn,
	}
}

// NewHandlerFunc creates a handler whose event name is derived from T.
//
// Example:
//
//	handler := event.NewHandlerFunc(func(ctx context.Context, evt LessonAdded) error {
//	    return lessons.AddLesson(evt.Lesson)
//	})
func NewHandlerFunc[T any](fn HandlerFunc[T]) Handler {
	var zero T
	return &handlerFuncWrapper[T]{
		name: getEventName(zero),
		fn:   fn,
	}
}

type handlerFuncWrapper[T any] struct {
	name string
	fn   HandlerFunc[T]
}

func (h *handlerFuncWrapper[T]) Name() string {
	return h.name
}

func (h *handlerFuncWrapper[T]) Handle(ctx context.Context, payload any) error {
	typed, err := unmarshalPayload[T](payload)
	if err != nil {
		return err
	}
	return h.fn(ctx, typed)
}
