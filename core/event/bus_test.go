package event_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/event"
	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/stream"
)

func TestBus_DispatchesByEventName(t *testing.T) {
	t.Parallel()

	bus := event.NewBus()
	defer bus.Close()

	var added []int
	var deleted []int
	sub := bus.Subscribe(
		event.NewHandlerFunc(func(_ context.Context, evt LessonAdded) error {
			added = append(added, evt.ID)
			return nil
		}),
		event.NewHandlerFunc(func(_ context.Context, evt LessonDeleted) error {
			deleted = append(deleted, evt.ID)
			return nil
		}),
	)
	defer sub.Unsubscribe()

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, LessonAdded{ID: 1}))
	require.NoError(t, bus.Publish(ctx, LessonDeleted{ID: 1}))
	require.NoError(t, bus.Publish(ctx, LessonAdded{ID: 2}))
	require.NoError(t, bus.Publish(ctx, struct{ Unhandled bool }{}), "events without handlers are ignored")

	assert.Equal(t, []int{1, 2}, added)
	assert.Equal(t, []int{1}, deleted)
}

func TestBus_HandlerReceivesEventMeta(t *testing.T) {
	t.Parallel()

	bus := event.NewBus()
	defer bus.Close()

	type key struct{}
	var gotID, gotName string
	var gotValue any
	bus.Subscribe(event.NewHandlerFunc(func(ctx context.Context, _ LessonAdded) error {
		gotID = event.EventID(ctx)
		gotName = event.EventName(ctx)
		gotValue = ctx.Value(key{})
		return nil
	}))

	evt := event.NewEvent(LessonAdded{ID: 1})
	ctx := context.WithValue(context.Background(), key{}, "publisher value")
	require.NoError(t, bus.PublishEvent(ctx, evt))

	assert.Equal(t, evt.ID, gotID)
	assert.Equal(t, "LessonAdded", gotName)
	assert.Equal(t, "publisher value", gotValue, "the publisher context is propagated")
}

func TestBus_HandlerFailuresAreIsolated(t *testing.T) {
	t.Parallel()

	bus := event.NewBus()
	defer bus.Close()

	errFirst := errors.New("first failed")
	calls := 0
	bus.Subscribe(
		event.NewHandlerFunc(func(context.Context, LessonAdded) error { return errFirst }),
		event.NewHandlerFunc(func(context.Context, LessonAdded) error { panic("second exploded") }),
		event.NewHandlerFunc(func(context.Context, LessonAdded) error {
			calls++
			return nil
		}),
	)
	other := 0
	bus.Subscribe(event.NewHandlerFunc(func(context.Context, LessonAdded) error {
		other++
		return nil
	}))

	err := bus.Publish(context.Background(), LessonAdded{ID: 1})

	require.Error(t, err)
	assert.ErrorIs(t, err, errFirst)
	assert.ErrorIs(t, err, event.ErrHandlerPanic)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, other)

	var oe *stream.ObserverError
	assert.ErrorAs(t, err, &oe)
}

func TestBus_Events(t *testing.T) {
	t.Parallel()

	bus := event.NewBus()
	defer bus.Close()

	var names []string
	sub := bus.Events().Subscribe(stream.NextFunc(func(evt event.Event) {
		names = append(names, evt.Name)
	}))

	require.NoError(t, bus.Publish(context.Background(), LessonAdded{}))
	require.NoError(t, bus.Publish(context.Background(), LessonDeleted{}))
	sub.Unsubscribe()
	require.NoError(t, bus.Publish(context.Background(), LessonAdded{}))

	assert.Equal(t, []string{"LessonAdded", "LessonDeleted"}, names)
}

func TestBus_PublishErrors(t *testing.T) {
	t.Parallel()

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()

		bus := event.NewBus()
		defer bus.Close()

		called := false
		bus.Subscribe(event.NewHandlerFunc(func(context.Context, LessonAdded) error {
			called = true
			return nil
		}))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.ErrorIs(t, bus.Publish(ctx, LessonAdded{}), context.Canceled)
		assert.False(t, called)
	})

	t.Run("unnamed event", func(t *testing.T) {
		t.Parallel()

		bus := event.NewBus()
		defer bus.Close()

		assert.ErrorIs(t, bus.PublishEvent(context.Background(), event.Event{}), event.ErrUnnamedEvent)
	})

	t.Run("closed bus", func(t *testing.T) {
		t.Parallel()

		bus := event.NewBus()
		bus.Close()

		assert.ErrorIs(t, bus.Publish(context.Background(), LessonAdded{}), event.ErrBusClosed)
	})
}

func TestBus_ConcurrentPublish(t *testing.T) {
	t.Parallel()

	bus := event.NewBus()
	defer bus.Close()

	var (
		mu  sync.Mutex
		ids []int
	)
	bus.Subscribe(event.NewHandlerFunc(func(_ context.Context, evt LessonAdded) error {
		mu.Lock()
		defer mu.Unlock()
		ids = append(ids, evt.ID)
		return nil
	}))

	const n = 50
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = bus.Publish(context.Background(), LessonAdded{ID: i})
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, ids, n)
}

func TestBus_Middleware(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var order []string
	tag := func(name string) event.Middleware {
		return func(next event.Handler) event.Handler {
			return event.NewHandler(next.Name(), func(ctx context.Context, evt LessonAdded) error {
				order = append(order, name)
				return next.Handle(ctx, evt)
			})
		}
	}

	bus := event.NewBus(
		event.WithBusLogger(log),
		event.WithMiddleware(tag("inner"), tag("outer"), event.LoggingMiddleware(log)),
	)
	defer bus.Close()

	bus.Subscribe(event.NewHandlerFunc(func(context.Context, LessonAdded) error {
		order = append(order, "handler")
		return nil
	}))

	require.NoError(t, bus.Publish(context.Background(), LessonAdded{ID: 1}))

	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
	assert.Contains(t, buf.String(), "event started")
	assert.Contains(t, buf.String(), "event completed")
	assert.Contains(t, buf.String(), "event=LessonAdded")
}
