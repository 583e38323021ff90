package stream

import "sync"

// BehaviorSubject is a Subject that holds a current value and replays it to
// every new subscriber before any later emission.
type BehaviorSubject[T any] struct {
	*Subject[T]

	// updateMu serializes read-modify-write cycles so that two Update calls
	// never compute from the same current value.
	updateMu sync.Mutex
}

// NewBehaviorSubject creates a BehaviorSubject whose current value is initial.
//
// Example:
//
//	count := stream.NewBehaviorSubject(0)
//	count.AsObservable().Subscribe(stream.NextFunc(func(n int) {
//	    fmt.Println(n) // prints 0 immediately, then 1
//	}))
//	_ = count.Next(1)
func NewBehaviorSubject[T any](initial T, opts ...Option) *BehaviorSubject[T] {
	s := NewSubject[T](opts...)
	s.value = initial
	s.replay = true
	return &BehaviorSubject[T]{Subject: s}
}

// Value returns the current value without subscribing.
func (b *BehaviorSubject[T]) Value() T {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.value
}

// Next sets the current value and emits it to every observer.
func (b *BehaviorSubject[T]) Next(value T) error {
	b.updateMu.Lock()
	err := b.stage(value)
	b.updateMu.Unlock()
	if err != nil {
		return err
	}
	return b.tramp.run()
}

// Update atomically derives the next value from the current one and emits it.
// When fn returns an error nothing is emitted and the error is returned as is.
//
// Example:
//
//	err := total.Update(func(n int) (int, error) {
//	    return n + 1, nil
//	})
func (b *BehaviorSubject[T]) Update(fn func(current T) (T, error)) error {
	if err := b.update(fn); err != nil {
		return err
	}
	return b.tramp.run()
}

func (b *BehaviorSubject[T]) update(fn func(T) (T, error)) error {
	b.updateMu.Lock()
	defer b.updateMu.Unlock()

	if b.Closed() {
		return ErrCompleted
	}

	next, err := fn(b.Value())
	if err != nil {
		return err
	}
	return b.stage(next)
}
