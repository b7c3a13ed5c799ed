//go:build integration

package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	redisadapter "linkbio/internal/adapters/redis"
	platformredis "linkbio/internal/platform/redis"
)

func TestResolveCache(t *testing.T) {
	ctx := context.Background()

	redisC, err := tcredis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = redisC.Terminate(ctx) })

	url, err := redisC.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := platformredis.Open(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	cache := redisadapter.NewResolveCache(client, time.Minute)

	_, ok, err := cache.Get(ctx, "abcd1234")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, cache.Set(ctx, "abcd1234", "https://example.com"))

	dest, ok, err := cache.Get(ctx, "abcd1234")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "https://example.com", dest)

	ttl, err := client.TTL(ctx, "linkbio:resolve:abcd1234").Result()
	require.NoError(t, err)
	require.Greater(t, ttl, time.Duration(0))
	require.LessOrEqual(t, ttl, time.Minute)

	require.NoError(t, cache.Delete(ctx, "abcd1234"))
	require.NoError(t, cache.Delete(ctx, "abcd1234"))

	_, ok, err = cache.Get(ctx, "abcd1234")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestOpen_BadURL(t *testing.T) {
	_, err := platformredis.Open(context.Background(), "not-a-url")
	require.Error(t, err)
}
