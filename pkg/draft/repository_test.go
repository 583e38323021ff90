package draft_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinakinmistry/reactive-patterns-using-rxjs/integration/database/redis"
	"github.com/pinakinmistry/reactive-patterns-using-rxjs/pkg/draft"
)

func exerciseRepository(t *testing.T, repo draft.Repository[form]) {
	t.Helper()
	ctx := context.Background()
	key := uuid.NewString()

	_, err := repo.Load(ctx, key)
	assert.ErrorIs(t, err, draft.ErrDraftNotFound)

	require.NoError(t, repo.Save(ctx, key, form{Description: "first"}))
	require.NoError(t, repo.Save(ctx, key, form{Description: "second"}))

	got, err := repo.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, form{Description: "second"}, got)

	require.NoError(t, repo.Delete(ctx, key))
	_, err = repo.Load(ctx, key)
	assert.ErrorIs(t, err, draft.ErrDraftNotFound)

	assert.ErrorIs(t, repo.Save(ctx, "", form{}), draft.ErrEmptyKey)
}

func TestMemoryRepository(t *testing.T) {
	t.Parallel()
	exerciseRepository(t, draft.NewMemoryRepository[form]())
}

func TestRedisRepository(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL is not set")
	}

	client, err := redis.Connect(context.Background(), redis.Config{ConnectionURL: url, RetryAttempts: 1})
	require.NoError(t, err)
	defer client.Close()

	exerciseRepository(t, draft.NewRedisRepository[form](client,
		draft.WithPrefix("draft-test:"),
		draft.WithTTL(time.Minute),
	))
}
