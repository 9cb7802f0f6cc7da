package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces report cache entries in a shared Redis.
const keyPrefix = "crm:reports:"

// Redis is a Cache backed by Redis, for deployments where several server
// instances should share one memo. Freshness is delegated to Redis key
// expiry, so ttl must be positive.
type Redis struct {
	client *redis.Client
}

// NewRedis creates a Redis-backed cache on an existing client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Fetch(ctx context.Context, key string, ttl time.Duration, force bool, produce Producer) ([]byte, error) {
	full := keyPrefix + key
	if !force {
		data, err := r.client.Get(ctx, full).Bytes()
		if err == nil {
			return data, nil
		}
		if err != redis.Nil {
			return nil, fmt.Errorf("cache get %s: %w", key, err)
		}
	}

	data, err := produce(ctx)
	if err != nil {
		return nil, err
	}

	if err := r.client.Set(ctx, full, data, ttl).Err(); err != nil {
		return nil, fmt.Errorf("cache set %s: %w", key, err)
	}
	return data, nil
}

func (r *Redis) Invalidate(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("cache del %s: %w", key, err)
	}
	return nil
}
