// Package redis connects to Redis with retry and provides a health check.
//
// Connect parses a redis:// or rediss:// URL, then pings with exponential
// backoff until the server answers or the attempts run out:
//
//	var cfg redis.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	repo := draft.NewRedisRepository(client, draft.WithTTL(24*time.Hour))
//
// Configuration is read from the environment:
//
//	REDIS_URL              required
//	REDIS_RETRY_ATTEMPTS   default 3
//	REDIS_RETRY_INTERVAL   default 5s
//	REDIS_CONNECT_TIMEOUT  default 30s
//
// Healthcheck returns a func(context.Context) error suitable for health.Readiness.
// Failures wrap the sentinel errors in this package and can be checked with errors.Is.
package redis
