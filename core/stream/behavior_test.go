package stream_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/stream"
)

type lesson struct {
	ID          int
	Description string
}

func TestBehaviorSubject_ReplaysCurrentValueOnSubscribe(t *testing.T) {
	t.Parallel()

	subject := stream.NewBehaviorSubject(0, quietLogger())

	rec := &recorder[int]{}
	subject.Subscribe(rec)
	assert.Equal(t, []int{0}, rec.Values(), "initial value is delivered before Subscribe returns")

	require.NoError(t, subject.Next(1))
	assert.Equal(t, []int{0, 1}, rec.Values())
}

func TestBehaviorSubject_SubscriberSeesSuffixFromLastValue(t *testing.T) {
	t.Parallel()

	values := []int{10, 20, 30, 40, 50}

	for k := range values {
		subject := stream.NewBehaviorSubject(0, quietLogger())
		early := &recorder[int]{}
		subject.Subscribe(early)

		late := &recorder[int]{}
		for i, v := range values {
			require.NoError(t, subject.Next(v))
			if i == k {
				subject.Subscribe(late)
			}
		}

		assert.Equal(t, append([]int{0}, values...), early.Values())
		assert.Equal(t, values[k:], late.Values(), "subscribed after value %d", values[k])
	}
}

func TestBehaviorSubject_Value(t *testing.T) {
	t.Parallel()

	subject := stream.NewBehaviorSubject("initial", quietLogger())
	assert.Equal(t, "initial", subject.Value())

	require.NoError(t, subject.Next("next"))
	assert.Equal(t, "next", subject.Value())
	assert.Equal(t, "next", subject.Value(), "reading does not change the value")
	assert.Equal(t, 0, subject.Len(), "reading does not subscribe")
}

func TestBehaviorSubject_LateSubscriberScenario(t *testing.T) {
	t.Parallel()

	subject := stream.NewBehaviorSubject([]lesson{}, quietLogger())
	require.NoError(t, subject.Next([]lesson{{ID: 1, Description: "x"}}))

	rec := &recorder[[]lesson]{}
	subject.Subscribe(rec)
	require.Equal(t, [][]lesson{{{ID: 1, Description: "x"}}}, rec.Values())

	require.NoError(t, subject.Next([]lesson{{ID: 1, Description: "x"}, {ID: 2, Description: "y"}}))

	assert.Equal(t, [][]lesson{
		{{ID: 1, Description: "x"}},
		{{ID: 1, Description: "x"}, {ID: 2, Description: "y"}},
	}, rec.Values())
}

func TestBehaviorSubject_SubscribeFromCallback(t *testing.T) {
	t.Parallel()

	subject := stream.NewBehaviorSubject(0, quietLogger())
	nested := &recorder[int]{}

	var once sync.Once
	subject.Subscribe(stream.NextFunc(func(v int) {
		if v == 1 {
			once.Do(func() { subject.Subscribe(nested) })
		}
	}))

	require.NoError(t, subject.Next(1))
	require.NoError(t, subject.Next(2))

	assert.Equal(t, []int{1, 2}, nested.Values(), "no missed or duplicated value")
}

func TestBehaviorSubject_ReplayBeforeSubscribeReturns(t *testing.T) {
	t.Parallel()

	t.Run("from inside a callback", func(t *testing.T) {
		t.Parallel()

		subject := stream.NewBehaviorSubject(0, quietLogger())
		nested := &recorder[int]{}

		var seen []int
		subject.Subscribe(stream.NextFunc(func(v int) {
			if v == 1 {
				subject.Subscribe(nested)
				seen = nested.Values()
			}
		}))

		require.NoError(t, subject.Next(1))
		assert.Equal(t, []int{1}, seen)

		require.NoError(t, subject.Next(2))
		assert.Equal(t, []int{1, 2}, nested.Values())
	})

	t.Run("while another goroutine is notifying", func(t *testing.T) {
		t.Parallel()

		subject := stream.NewBehaviorSubject(0, quietLogger())

		entered := make(chan struct{})
		release := make(chan struct{})
		subject.Subscribe(stream.NextFunc(func(v int) {
			if v == 1 {
				close(entered)
				<-release
			}
		}))

		done := make(chan error, 1)
		go func() { done <- subject.Next(1) }()
		<-entered

		late := &recorder[int]{}
		subject.Subscribe(late)
		assert.Equal(t, []int{1}, late.Values())

		close(release)
		require.NoError(t, <-done)

		require.NoError(t, subject.Next(2))
		assert.Equal(t, []int{1, 2}, late.Values(), "no missed or duplicated value")
	})
}

func TestBehaviorSubject_Update(t *testing.T) {
	t.Parallel()

	t.Run("applies the function to the current value", func(t *testing.T) {
		t.Parallel()

		subject := stream.NewBehaviorSubject(1, quietLogger())
		rec := &recorder[int]{}
		subject.Subscribe(rec)

		require.NoError(t, subject.Update(func(n int) (int, error) { return n * 10, nil }))

		assert.Equal(t, 10, subject.Value())
		assert.Equal(t, []int{1, 10}, rec.Values())
	})

	t.Run("error leaves the value untouched", func(t *testing.T) {
		t.Parallel()

		errInvalid := errors.New("invalid")
		subject := stream.NewBehaviorSubject(1, quietLogger())
		rec := &recorder[int]{}
		subject.Subscribe(rec)

		err := subject.Update(func(int) (int, error) { return 0, errInvalid })

		require.ErrorIs(t, err, errInvalid)
		assert.Equal(t, 1, subject.Value())
		assert.Equal(t, []int{1}, rec.Values())
	})

	t.Run("concurrent updates are not lost", func(t *testing.T) {
		t.Parallel()

		subject := stream.NewBehaviorSubject(0, quietLogger())
		rec := &recorder[int]{}
		subject.Subscribe(rec)

		const n = 50
		var wg sync.WaitGroup
		for range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = subject.Update(func(v int) (int, error) { return v + 1, nil })
			}()
		}
		wg.Wait()

		assert.Equal(t, n, subject.Value())
		values := rec.Values()
		require.Len(t, values, n+1)
		for i, v := range values {
			assert.Equal(t, i, v, "values arrive in the order they were produced")
		}
	})

	t.Run("after complete", func(t *testing.T) {
		t.Parallel()

		subject := stream.NewBehaviorSubject(0, quietLogger())
		subject.Complete()

		called := false
		err := subject.Update(func(v int) (int, error) {
			called = true
			return v, nil
		})

		require.ErrorIs(t, err, stream.ErrCompleted)
		assert.False(t, called)
		require.ErrorIs(t, subject.Next(1), stream.ErrCompleted)
	})
}
