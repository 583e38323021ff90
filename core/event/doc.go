// Package event provides a typed, in-process event bus built on a stream subject.
//
// # Core Components
//
// Event represents a notification with metadata (ID, Name, Payload, CreatedAt).
// NewEvent assigns a UUID and timestamp and derives Name from the payload type.
// Name is the discriminator used for dispatch.
//
// Handler processes events of one name. NewHandlerFunc infers the name from the
// payload type; NewHandler takes it explicitly. Typed handlers accept the
// payload as a value, a pointer, raw JSON bytes, or the map produced when an
// Event is decoded from JSON.
//
// Bus carries events from publishers to subscriptions. Publish delivers an
// event synchronously, in publish order, to every subscription, and each
// subscription calls the handlers registered for the event's name. A Bus is an
// explicit value owned by whoever creates it; there is no global instance.
//
// Decorator and Middleware wrap handlers for cross-cutting concerns such as
// logging, retries and timeouts.
//
// # Basic Usage
//
//	type LessonArrived struct {
//		ID          int
//		Description string
//	}
//
//	bus := event.NewBus(event.WithBusLogger(log))
//	defer bus.Close()
//
//	sub := bus.Subscribe(
//		event.NewHandlerFunc(func(ctx context.Context, evt LessonArrived) error {
//			return lessons.AddLesson(lessons.Lesson{ID: evt.ID, Description: evt.Description})
//		}),
//	)
//	defer sub.Unsubscribe()
//
//	if err := bus.Publish(ctx, LessonArrived{ID: 7, Description: "Operators"}); err != nil {
//		log.Error("publish failed", logger.Error(err))
//	}
//
// # Error Handling
//
// A failing or panicking handler does not stop delivery to other handlers or
// subscriptions. Publish returns every failure joined; panics are reported as
// ErrHandlerPanic. Publishing to a closed bus returns ErrBusClosed.
//
// # Event Streams
//
// Events exposes every published event as a stream.Observable, so bus traffic
// composes with the stream operators:
//
//	arrivals := stream.Filter(bus.Events(), func(e event.Event) bool {
//		return e.Name == "LessonArrived"
//	})
//
// # Context Metadata
//
// Handlers receive the publisher's context with the event metadata attached:
//
//	func handle(ctx context.Context, evt LessonArrived) error {
//		log.InfoContext(ctx, "lesson arrived",
//			logger.ID("event_id", event.EventID(ctx)),
//			logger.Event(event.EventName(ctx)),
//		)
//		return nil
//	}
//
// # Decorators
//
//	handler := event.Decorate(
//		event.NewHandlerFunc(saveDraftHandler),
//		event.Retry(3),
//		event.Timeout(5*time.Second),
//	)
package event
