package health

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/logger"
)

// ErrNotReady is returned when at least one dependency check fails.
var ErrNotReady = errors.New("health: service is not ready")

// Check reports whether one dependency is available.
type Check func(context.Context) error

// Readiness combines dependency checks into one. Every check runs; failures
// are logged and joined under ErrNotReady.
//
// Example:
//
//	ready := health.Readiness(log,
//		pg.Healthcheck(pool),
//		redis.Healthcheck(client),
//	)
func Readiness(log *slog.Logger, checks ...Check) Check {
	if log == nil {
		log = logger.Discard()
	}

	return func(ctx context.Context) error {
		var errs []error
		for i, check := range checks {
			if err := check(ctx); err != nil {
				log.ErrorContext(ctx, "readiness check failed",
					logger.Count("check", i),
					logger.Error(err))
				errs = append(errs, err)
			}
		}
		if len(errs) > 0 {
			return fmt.Errorf("%w: %w", ErrNotReady, errors.Join(errs...))
		}
		return nil
	}
}
