package stream

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Subscription identifies one registration of an observer.
// Unsubscribe is idempotent and safe to call from any goroutine,
// including from inside the observer's own callbacks.
type Subscription interface {
	ID() string
	Unsubscribe()
	Closed() bool
}

type subscription struct {
	id     string
	owner  any
	closed atomic.Bool

	mu       sync.Mutex
	teardown []func()
}

func newSubscription(owner any) *subscription {
	return &subscription{
		id:    uuid.NewString(),
		owner: owner,
	}
}

func (s *subscription) ID() string {
	return s.id
}

func (s *subscription) Closed() bool {
	return s.closed.Load()
}

// Unsubscribe marks the subscription closed before running teardown hooks in
// reverse registration order, so no delivery can start once it returns.
func (s *subscription) Unsubscribe() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}

	s.mu.Lock()
	hooks := s.teardown
	s.teardown = nil
	s.mu.Unlock()

	for i := len(hooks) - 1; i >= 0; i-- {
		hooks[i]()
	}
}

// add registers a teardown hook. A hook added after Unsubscribe runs immediately.
func (s *subscription) add(fn func()) {
	if fn == nil {
		return
	}

	s.mu.Lock()
	if !s.closed.Load() {
		s.teardown = append(s.teardown, fn)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	fn()
}
