package record

import (
	"context"
	"os"
	"testing"
	"time"

	"journalapi/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisStore(t *testing.T) *RedisStore {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	store := NewRedisStore(NewRedisClient(addr, "", 0), time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		t.Skipf("Skipping test: cannot reach redis at %s: %v", addr, err)
	}
	t.Cleanup(func() { _ = store.client.Close() })
	return store
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store := setupRedisStore(t)
	repo := NewBlobRepo(store)
	ctx := context.Background()
	key := NewKey(uuid.NewString(), entity.DomainFilm)
	t.Cleanup(func() { store.client.Del(context.Background(), redisKeyPrefix+key.String()) })

	require.NoError(t, repo.Append(ctx, key, rec(1, "a")))
	require.NoError(t, repo.Append(ctx, key, rec(2, "b")))

	recs, err := repo.ListAll(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids(recs))

	ttl, err := store.client.TTL(ctx, redisKeyPrefix+key.String()).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestRedisStore_MissingKey(t *testing.T) {
	store := setupRedisStore(t)
	b, err := store.Get(context.Background(), "no-such-"+uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, b)
}
