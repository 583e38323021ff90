// Package health checks that the service dependencies are available.
//
// Readiness combines checks with the func(context.Context) error signature
// returned by pg.Healthcheck and redis.Healthcheck. Monitor probes
// periodically and publishes the results as a stream:
//
//	ready := health.Readiness(log, pg.Healthcheck(pool), redis.Healthcheck(client))
//
//	status := stream.DistinctUntilChanged(health.Monitor(ctx, 30*time.Second, ready))
//	status.Subscribe(stream.NextFunc(func(s health.Status) {
//		log.Info("readiness changed", slog.Bool("ready", s.Ready))
//	}))
package health
