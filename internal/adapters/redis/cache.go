package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"linkbio/internal/app/links"
)

const keyPrefix = "linkbio:resolve:"

// ResolveCache keeps short code -> destination entries with a fixed TTL.
type ResolveCache struct {
	client goredis.UniversalClient
	ttl    time.Duration
}

func NewResolveCache(client goredis.UniversalClient, ttl time.Duration) *ResolveCache {
	return &ResolveCache{client: client, ttl: ttl}
}

var _ links.ResolveCache = (*ResolveCache)(nil)

func (c *ResolveCache) Get(ctx context.Context, shortCode string) (string, bool, error) {
	dest, err := c.client.Get(ctx, keyPrefix+shortCode).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("redis: get %s: %w", shortCode, err)
	}

	return dest, true, nil
}

func (c *ResolveCache) Set(ctx context.Context, shortCode, destinationURL string) error {
	if err := c.client.Set(ctx, keyPrefix+shortCode, destinationURL, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", shortCode, err)
	}

	return nil
}

func (c *ResolveCache) Delete(ctx context.Context, shortCode string) error {
	if err := c.client.Del(ctx, keyPrefix+shortCode).Err(); err != nil {
		return fmt.Errorf("redis: del %s: %w", shortCode, err)
	}

	return nil
}
