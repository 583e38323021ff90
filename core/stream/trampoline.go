package stream

import (
	"errors"
	"fmt"
	"sync"
)

// trampoline serializes delivery jobs for one channel.
//
// Jobs are queued in push order. Whichever goroutine finds the trampoline idle
// becomes the drainer and runs every queued job, including jobs pushed while it
// is draining. A job pushed from inside a running job (a re-entrant emit) is
// therefore run after the current job instead of interleaving with it.
type trampoline struct {
	mu    sync.Mutex
	queue []func() error

	draining sync.Mutex
}

func (t *trampoline) push(job func() error) {
	t.mu.Lock()
	t.queue = append(t.queue, job)
	t.mu.Unlock()
}

func (t *trampoline) pop() func() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.queue) == 0 {
		return nil
	}
	job := t.queue[0]
	t.queue[0] = nil
	t.queue = t.queue[1:]
	return job
}

func (t *trampoline) pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.queue) > 0
}

// run drains the queue if no other drainer is active and returns the joined
// errors of the jobs it executed. When another drainer is active, run returns
// immediately; that drainer picks up everything queued.
func (t *trampoline) run() error {
	if !t.draining.TryLock() {
		return nil
	}
	return t.drain()
}

// claim makes the caller the drainer. It is only used on a queue nobody else
// can reach yet.
func (t *trampoline) claim() {
	t.draining.Lock()
}

// drain runs queued jobs until the queue is empty. The caller must hold the
// drain lock; drain releases it.
func (t *trampoline) drain() error {
	var errs []error

	for {
		for job := t.pop(); job != nil; job = t.pop() {
			if err := runJob(job); err != nil {
				errs = append(errs, err)
			}
		}

		t.draining.Unlock()

		// A job pushed between the last pop and Unlock found the drain lock held
		// and returned; pick it up here.
		if !t.pending() || !t.draining.TryLock() {
			return errors.Join(errs...)
		}
	}
}

func runJob(job func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrObserverPanic, r)
		}
	}()
	return job()
}
