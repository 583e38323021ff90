// Package pg connects to PostgreSQL through a pgx pool and applies goose migrations.
//
// Connect parses the connection string, sizes the pool and pings it with
// exponential backoff before returning:
//
//	var cfg pg.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, lessons.Migrations, log); err != nil {
//		return err
//	}
//
// # Migrations
//
// Migrate runs goose against an fs.FS, usually an embed.FS owned by the
// package that defines the schema. cfg.MigrationsPath names the directory
// inside that filesystem and cfg.MigrationsTable the goose version table.
//
// # Transactions
//
// WithTx attaches a pgx.Tx to a context and TxFromContext retrieves it, so a
// repository can join the caller's transaction:
//
//	tx, err := pool.Begin(ctx)
//	if err != nil {
//		return err
//	}
//	defer tx.Rollback(ctx) // Safe even after commit
//
//	ctx = pg.WithTx(ctx, tx)
//	if _, err := source.Insert(ctx, lesson); err != nil {
//		return err
//	}
//	return tx.Commit(ctx)
//
// # Health Checking
//
// Healthcheck returns a func(context.Context) error that pings the pool,
// suitable for health.Readiness.
package pg
