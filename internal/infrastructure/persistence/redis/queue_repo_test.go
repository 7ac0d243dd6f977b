package redis

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manuscript-gen/internal/domain/entity"
	apperrors "manuscript-gen/pkg/errors"
)

// testClient 需要 REDIS_ADDR 指向可用实例，否则跳过
func testClient(t *testing.T) *Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr, DB: 15})
	require.NoError(t, rdb.Ping(context.Background()).Err())
	t.Cleanup(func() {
		rdb.FlushDB(context.Background())
		_ = rdb.Close()
	})
	return NewFromRedis(rdb)
}

func TestQueueRepository_RoundTrip(t *testing.T) {
	client := testClient(t)
	repo := NewQueueRepository(client, "test:queue")
	ctx := context.Background()

	_, err := repo.Load(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrQueuePersistence))

	q := &entity.WorkQueue{Items: []*entity.WorkItem{
		{ID: "a", Title: "A", ChapterCount: 3, Status: entity.WorkStatusIdea},
	}}
	require.NoError(t, repo.Save(ctx, q))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 3, got.Items[0].ChapterCount)
}

func TestRateLimiter_Allow(t *testing.T) {
	client := testClient(t)
	limiter := NewRateLimiter(client)
	ctx := context.Background()
	key := BuildRateLimitKey("127.0.0.1", "/v1/prompt")

	for i := 0; i < 2; i++ {
		ok, err := limiter.Allow(ctx, key, 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := limiter.Allow(ctx, key, 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}
