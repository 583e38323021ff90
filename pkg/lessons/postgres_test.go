package lessons_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/logger"
	"github.com/pinakinmistry/reactive-patterns-using-rxjs/integration/database/pg"
	"github.com/pinakinmistry/reactive-patterns-using-rxjs/pkg/lessons"
)

func TestPostgresSource(t *testing.T) {
	url := os.Getenv("PG_CONN_URL")
	if url == "" {
		t.Skip("PG_CONN_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := pg.Config{
		ConnectionString: url,
		RetryAttempts:    1,
		MigrationsPath:   "migrations",
		MigrationsTable:  "lessons_test_migrations",
	}
	pool, err := pg.Connect(ctx, cfg)
	require.NoError(t, err)
	defer pool.Close()

	require.NoError(t, pg.Migrate(ctx, pool, cfg, lessons.Migrations, logger.Discard()))

	tx, err := pool.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback(ctx) }()
	ctx = pg.WithTx(ctx, tx)

	_, err = tx.Exec(ctx, "DELETE FROM lessons")
	require.NoError(t, err)

	src := lessons.NewPostgresSource(pool)
	for _, d := range []string{"one", "two", "three"} {
		_, err := src.Insert(ctx, lessons.Lesson{Description: d})
		require.NoError(t, err)
	}

	all, err := src.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	ch, _ := pages(t, src.FetchPage(ctx, 2, 2))
	p := receive(t, ch)
	assert.Equal(t, 3, p.Total)
	require.Len(t, p.Lessons, 1)
	assert.Equal(t, "three", p.Lessons[0].Description)
}
