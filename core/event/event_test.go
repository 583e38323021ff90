package event_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/event"
)

type LessonAdded struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

type LessonDeleted struct {
	ID int `json:"id"`
}

func TestNewEvent(t *testing.T) {
	t.Parallel()

	before := time.Now()
	evt := event.NewEvent(LessonAdded{ID: 1, Description: "Intro"})

	assert.Equal(t, "LessonAdded", evt.Name)
	assert.NotEmpty(t, evt.ID)
	assert.Equal(t, LessonAdded{ID: 1, Description: "Intro"}, evt.Payload)
	assert.False(t, evt.CreatedAt.Before(before))

	ptr := event.NewEvent(&LessonDeleted{ID: 2})
	assert.Equal(t, "LessonDeleted", ptr.Name, "pointer payloads use the element type name")

	assert.NotEqual(t, evt.ID, ptr.ID)
}

func TestEventContextMeta(t *testing.T) {
	t.Parallel()

	t.Run("empty context", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		assert.Empty(t, event.EventID(ctx))
		assert.Empty(t, event.EventName(ctx))
		assert.True(t, event.EventTime(ctx).IsZero())
	})

	t.Run("store all metadata at once", func(t *testing.T) {
		t.Parallel()

		evt := event.Event{
			ID:        "evt_meta_123",
			Name:      "LessonAdded",
			CreatedAt: time.Date(2026, 10, 2, 14, 30, 0, 0, time.UTC),
		}

		ctx := event.WithEventMeta(context.Background(), evt)

		assert.Equal(t, evt.ID, event.EventID(ctx))
		assert.Equal(t, evt.Name, event.EventName(ctx))
		assert.Equal(t, evt.CreatedAt, event.EventTime(ctx))
	})

	t.Run("envelope without payload", func(t *testing.T) {
		t.Parallel()

		_, ok := event.MetaFromContext(context.Background())
		assert.False(t, ok)

		evt := event.NewEvent(LessonAdded{ID: 7})
		meta, ok := event.MetaFromContext(event.WithEventMeta(context.Background(), evt))
		require.True(t, ok)
		assert.Equal(t, evt.ID, meta.ID)
		assert.Equal(t, "LessonAdded", meta.Name)
		assert.Nil(t, meta.Payload)
		assert.NotNil(t, evt.Payload, "the caller's event is not modified")
	})
}

func TestNewHandlerFunc(t *testing.T) {
	t.Parallel()

	var got LessonAdded
	h := event.NewHandlerFunc(func(_ context.Context, evt LessonAdded) error {
		got = evt
		return nil
	})

	assert.Equal(t, "LessonAdded", h.Name())

	t.Run("typed payload", func(t *testing.T) {
		require.NoError(t, h.Handle(context.Background(), LessonAdded{ID: 1}))
		assert.Equal(t, 1, got.ID)
	})

	t.Run("pointer payload", func(t *testing.T) {
		require.NoError(t, h.Handle(context.Background(), &LessonAdded{ID: 2}))
		assert.Equal(t, 2, got.ID)
	})

	t.Run("json payload", func(t *testing.T) {
		require.NoError(t, h.Handle(context.Background(), []byte(`{"id":3,"description":"json"}`)))
		assert.Equal(t, LessonAdded{ID: 3, Description: "json"}, got)
	})

	t.Run("decoded event payload", func(t *testing.T) {
		data, err := json.Marshal(event.NewEvent(LessonAdded{ID: 4, Description: "round trip"}))
		require.NoError(t, err)

		var decoded event.Event
		require.NoError(t, json.Unmarshal(data, &decoded))

		require.NoError(t, h.Handle(context.Background(), decoded.Payload))
		assert.Equal(t, LessonAdded{ID: 4, Description: "round trip"}, got)
	})

	t.Run("type mismatch", func(t *testing.T) {
		err := h.Handle(context.Background(), LessonDeleted{ID: 5})
		assert.ErrorIs(t, err, event.ErrInvalidPayload)
	})

	t.Run("invalid json", func(t *testing.T) {
		err := h.Handle(context.Background(), []byte(`{`))
		assert.ErrorIs(t, err, event.ErrInvalidPayload)
	})
}

func TestNewHandler_ExplicitName(t *testing.T) {
	t.Parallel()

	errHandler := errors.New("handler failed")
	h := event.NewHandler("lesson.added", func(context.Context, LessonAdded) error {
		return errHandler
	})

	assert.Equal(t, "lesson.added", h.Name())
	assert.ErrorIs(t, h.Handle(context.Background(), LessonAdded{}), errHandler)
}
