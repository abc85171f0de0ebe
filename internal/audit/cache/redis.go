package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"compliancecore/internal/audit"
)

// resultKeyPrefix namespaces audit results in Redis.
const resultKeyPrefix = "audit:result:"

// Redis is a Redis-backed audit result cache for multi-instance deployments.
// Results are stored as JSON with the TTL enforced by Redis itself.
type Redis struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed cache.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, key string) (audit.Result, bool, error) {
	raw, err := r.client.Get(ctx, resultKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return audit.Result{}, false, nil
	}
	if err != nil {
		return audit.Result{}, false, err
	}
	var result audit.Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return audit.Result{}, false, err
	}
	return result, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, result audit.Result, ttl time.Duration) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, resultKeyPrefix+key, raw, ttl).Err()
}

// Clear removes every cached result. SCAN keeps the sweep incremental so a
// large cache does not block Redis.
func (r *Redis) Clear(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, resultKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
