package health

import (
	"context"
	"time"

	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/stream"
)

// Status is the outcome of one readiness probe.
type Status struct {
	Ready bool
	Error string
}

func probe(ctx context.Context, check Check) Status {
	if err := check(ctx); err != nil {
		return Status{Error: err.Error()}
	}
	return Status{Ready: true}
}

// Monitor runs check right away and then every interval, emitting each Status.
// The stream completes when ctx is done and fails with the observer's error
// if the observer rejects a status. Unsubscribing stops the probes.
// Wrap it in stream.DistinctUntilChanged to see transitions only.
func Monitor(ctx context.Context, interval time.Duration, check Check) stream.Observable[Status] {
	return stream.Create(func(o stream.Observer[Status]) func() {
		ctx, cancel := context.WithCancel(ctx)

		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				if err := o.Next(probe(ctx, check)); err != nil {
					o.Error(err)
					return
				}
				select {
				case <-ctx.Done():
					o.Complete()
					return
				case <-ticker.C:
				}
			}
		}()

		return cancel
	})
}
