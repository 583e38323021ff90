package event

import (
	"context"
	"time"
)

type metaCtx struct{}

// WithEventMeta attaches the envelope of event (ID, Name, CreatedAt) to ctx.
// The bus does this before calling a handler; the payload is not stored.
func WithEventMeta(ctx context.Context, event Event) context.Context {
	event.Payload = nil
	return context.WithValue(ctx, metaCtx{}, event)
}

// MetaFromContext returns the envelope attached by WithEventMeta.
func MetaFromContext(ctx context.Context) (Event, bool) {
	event, ok := ctx.Value(metaCtx{}).(Event)
	return event, ok
}

// EventID returns the ID of the event being handled, or "".
func EventID(ctx context.Context) string {
	event, _ := MetaFromContext(ctx)
	return event.ID
}

// EventName returns the name of the event being handled, or "".
func EventName(ctx context.Context) string {
	event, _ := MetaFromContext(ctx)
	return event.Name
}

// EventTime returns the creation time of the event being handled, or the zero time.
func EventTime(ctx context.Context) time.Time {
	event, _ := MetaFromContext(ctx)
	return event.CreatedAt
}
