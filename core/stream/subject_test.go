package stream_test

import (
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/stream"
)

// recorder is a thread-safe observer that keeps every signal it receives.
type recorder[T any] struct {
	mu        sync.Mutex
	values    []T
	errs      []error
	completed int
}

func (r *recorder[T]) Next(v T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, v)
	return nil
}

func (r *recorder[T]) Error(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recorder[T]) Complete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed++
}

func (r *recorder[T]) Values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.values)
}

func (r *recorder[T]) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.errs)
}

func (r *recorder[T]) Completed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.completed
}

func quietLogger() stream.Option {
	return stream.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSubject_NotifiesInSubscriptionOrder(t *testing.T) {
	t.Parallel()

	subject := stream.NewSubject[int](quietLogger())

	var order []string
	subject.Subscribe(stream.NextFunc(func(v int) { order = append(order, "first") }))
	subject.Subscribe(stream.NextFunc(func(v int) { order = append(order, "second") }))
	subject.Subscribe(stream.NextFunc(func(v int) { order = append(order, "third") }))

	require.NoError(t, subject.Next(1))
	assert.Equal(t, []string{"first", "second", "third"}, order)
	assert.Equal(t, 3, subject.Len())
}

func TestSubject_LateSubscriberOnlySeesLaterValues(t *testing.T) {
	t.Parallel()

	subject := stream.NewSubject[int](quietLogger())
	early := &recorder[int]{}
	subject.Subscribe(early)

	require.NoError(t, subject.Next(1))

	late := &recorder[int]{}
	subject.Subscribe(late)

	require.NoError(t, subject.Next(2))

	assert.Equal(t, []int{1, 2}, early.Values())
	assert.Equal(t, []int{2}, late.Values())
}

func TestSubject_NilObserver(t *testing.T) {
	t.Parallel()

	subject := stream.NewSubject[int](quietLogger())
	sub := subject.Subscribe(nil)

	require.NoError(t, subject.Next(1))
	assert.Equal(t, 1, subject.Len())

	sub.Unsubscribe()
	assert.Equal(t, 0, subject.Len())
}

func TestSubject_ObserverFailuresAreIsolated(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")
	var failures []error
	subject := stream.NewSubject[int](quietLogger(), stream.WithFailureHandler(func(err error) {
		failures = append(failures, err)
	}))

	failing := subject.Subscribe(stream.ObserverFuncs[int]{
		OnNext: func(int) error { return errBoom },
	})
	panicking := subject.Subscribe(stream.ObserverFuncs[int]{
		OnNext: func(int) error { panic("observer exploded") },
	})
	healthy := &recorder[int]{}
	subject.Subscribe(healthy)

	err := subject.Next(42)
	require.Error(t, err)

	assert.Equal(t, []int{42}, healthy.Values(), "later observers must still be notified")
	assert.ErrorIs(t, err, errBoom)
	assert.ErrorIs(t, err, stream.ErrObserverPanic)
	require.Len(t, failures, 2)

	var oe *stream.ObserverError
	require.ErrorAs(t, failures[0], &oe)
	assert.Equal(t, failing.ID(), oe.SubscriptionID)
	assert.Equal(t, stream.SignalNext, oe.Signal)

	require.ErrorAs(t, failures[1], &oe)
	assert.Equal(t, panicking.ID(), oe.SubscriptionID)

	// Failing observers stay registered.
	require.Error(t, subject.Next(43))
	assert.Equal(t, []int{42, 43}, healthy.Values())
}

func TestSubject_Complete(t *testing.T) {
	t.Parallel()

	subject := stream.NewSubject[int](quietLogger())
	a := &recorder[int]{}
	b := &recorder[int]{}
	subA := subject.Subscribe(a)
	subject.Subscribe(b)

	require.NoError(t, subject.Next(1))
	subject.Complete()

	assert.True(t, subject.Closed())
	assert.Equal(t, 0, subject.Len())
	assert.Equal(t, 1, a.Completed())
	assert.Equal(t, 1, b.Completed())
	assert.True(t, subA.Closed())

	t.Run("next after complete is rejected", func(t *testing.T) {
		err := subject.Next(2)
		require.ErrorIs(t, err, stream.ErrCompleted)
		assert.Equal(t, []int{1}, a.Values())
	})

	t.Run("second complete is a no-op", func(t *testing.T) {
		subject.Complete()
		subject.Error(errors.New("late"))
		assert.Equal(t, 1, a.Completed())
		assert.Empty(t, a.Errors())
	})

	t.Run("late subscriber receives completion", func(t *testing.T) {
		late := &recorder[int]{}
		sub := subject.Subscribe(late)
		assert.Equal(t, 1, late.Completed())
		assert.Empty(t, late.Values())
		assert.True(t, sub.Closed())
		assert.Equal(t, 0, subject.Len())
	})
}

func TestSubject_Error(t *testing.T) {
	t.Parallel()

	errUpstream := errors.New("upstream failed")
	subject := stream.NewSubject[string](quietLogger())
	rec := &recorder[string]{}
	subject.Subscribe(rec)

	subject.Error(errUpstream)

	require.Len(t, rec.Errors(), 1)
	assert.ErrorIs(t, rec.Errors()[0], errUpstream)
	assert.Equal(t, 0, rec.Completed())
	assert.ErrorIs(t, subject.Next("x"), stream.ErrCompleted)

	late := &recorder[string]{}
	subject.Subscribe(late)
	require.Len(t, late.Errors(), 1)
	assert.ErrorIs(t, late.Errors()[0], errUpstream)
}

func TestSubject_ErrorWithNilCompletes(t *testing.T) {
	t.Parallel()

	subject := stream.NewSubject[int](quietLogger())
	rec := &recorder[int]{}
	subject.Subscribe(rec)

	subject.Error(nil)

	assert.Equal(t, 1, rec.Completed())
	assert.Empty(t, rec.Errors())
}

func TestSubject_SelfUnsubscribeDuringNotification(t *testing.T) {
	t.Parallel()

	subject := stream.NewSubject[int](quietLogger())

	var got []int
	var sub stream.Subscription
	sub = subject.Subscribe(stream.NextFunc(func(v int) {
		got = append(got, v)
		if v == 2 {
			sub.Unsubscribe()
		}
	}))
	other := &recorder[int]{}
	subject.Subscribe(other)

	for i := 1; i <= 4; i++ {
		require.NoError(t, subject.Next(i))
	}

	assert.Equal(t, []int{1, 2}, got, "the value being delivered is kept, later ones are not")
	assert.Equal(t, []int{1, 2, 3, 4}, other.Values())
	assert.Equal(t, 1, subject.Len())
}

func TestSubject_ReentrantNextKeepsOrder(t *testing.T) {
	t.Parallel()

	subject := stream.NewSubject[int](quietLogger())

	first := &recorder[int]{}
	subject.Subscribe(stream.ObserverFuncs[int]{
		OnNext: func(v int) error {
			_ = first.Next(v)
			if v == 1 {
				return subject.Next(2)
			}
			return nil
		},
	})
	second := &recorder[int]{}
	subject.Subscribe(second)

	require.NoError(t, subject.Next(1))

	assert.Equal(t, []int{1, 2}, first.Values())
	assert.Equal(t, []int{1, 2}, second.Values(), "value 2 must not overtake value 1")
}

func TestSubject_Unsubscribe(t *testing.T) {
	t.Parallel()

	subject := stream.NewSubject[int](quietLogger())
	rec := &recorder[int]{}
	sub := subject.Subscribe(rec)

	subject.Unsubscribe(sub)
	subject.Unsubscribe(sub)
	sub.Unsubscribe()

	other := stream.NewSubject[int](quietLogger())
	foreign := other.Subscribe(&recorder[int]{})
	subject.Unsubscribe(foreign)

	require.NoError(t, subject.Next(1))
	assert.Empty(t, rec.Values())
	assert.Equal(t, 0, subject.Len())
	assert.False(t, foreign.Closed(), "handles of another subject are ignored")
	assert.Equal(t, 1, other.Len())
}

func TestSubject_SubscriptionIDsAreUnique(t *testing.T) {
	t.Parallel()

	subject := stream.NewSubject[int](quietLogger())
	a := subject.Subscribe(nil)
	b := subject.Subscribe(nil)

	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestSubject_AsObservableHidesEmit(t *testing.T) {
	t.Parallel()

	subject := stream.NewSubject[int](quietLogger())
	obs := subject.AsObservable()

	_, canEmit := obs.(interface{ Next(int) error })
	assert.False(t, canEmit)

	rec := &recorder[int]{}
	sub := obs.Subscribe(rec)
	require.NoError(t, subject.Next(5))
	sub.Unsubscribe()
	require.NoError(t, subject.Next(6))

	assert.Equal(t, []int{5}, rec.Values())
}

func TestSubject_ConcurrentNext(t *testing.T) {
	t.Parallel()

	subject := stream.NewSubject[int](quietLogger())

	var (
		inFlight atomic.Int32
		overlap  atomic.Bool
	)
	a := &recorder[int]{}
	b := &recorder[int]{}
	subject.Subscribe(stream.ObserverFuncs[int]{
		OnNext: func(v int) error {
			if inFlight.Add(1) > 1 {
				overlap.Store(true)
			}
			defer inFlight.Add(-1)
			return a.Next(v)
		},
	})
	subject.Subscribe(b)

	const n = 100
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = subject.Next(i)
		}()
	}
	wg.Wait()

	assert.False(t, overlap.Load(), "notification passes must not interleave")
	assert.Len(t, a.Values(), n)
	assert.Equal(t, a.Values(), b.Values(), "every observer sees the same order")
}
