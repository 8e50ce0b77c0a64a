package previews

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exercise(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrNoPreview)

	require.NoError(t, s.Put(ctx, 1, Preview{Prompt: "a", ImageBase64: "AA=="}))
	require.NoError(t, s.Put(ctx, 1, Preview{Prompt: "b", ImageBase64: "BB=="}))
	p, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "b", p.Prompt)

	_, err = s.Get(ctx, 2)
	assert.ErrorIs(t, err, ErrNoPreview)

	require.NoError(t, s.Delete(ctx, 1))
	_, err = s.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrNoPreview)
}

func TestMemoryStore(t *testing.T) {
	exercise(t, NewMemory(time.Minute))
}

func TestMemoryExpiry(t *testing.T) {
	s := NewMemory(time.Minute)
	now := time.Now()
	s.now = func() time.Time { return now }
	require.NoError(t, s.Put(context.Background(), 7, Preview{Prompt: "x"}))

	s.now = func() time.Time { return now.Add(59 * time.Second) }
	_, err := s.Get(context.Background(), 7)
	require.NoError(t, err)

	s.now = func() time.Time { return now.Add(time.Minute) }
	_, err = s.Get(context.Background(), 7)
	assert.ErrorIs(t, err, ErrNoPreview)
}

// Runs only when TEST_REDIS_ADDR points at a scratch redis.
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()
	require.NoError(t, rdb.FlushDB(context.Background()).Err())

	exercise(t, NewRedis(rdb, time.Minute))

	require.NoError(t, NewRedis(rdb, time.Minute).Put(context.Background(), 3, Preview{Prompt: "ttl"}))
	ttl, err := rdb.TTL(context.Background(), "studio:preview:3").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
