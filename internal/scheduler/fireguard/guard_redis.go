package fireguard

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis key prefix for fired guard keys
const firedKeyPrefix = "automation:fired:"

// RedisGuard is a Redis-backed fire guard. SET NX gives the first caller
// for a key the claim atomically, so multiple scheduler instances sharing
// one Redis suppress each other's duplicates.
type RedisGuard struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed fire guard. The client lifecycle is
// managed externally.
func NewRedis(client *redis.Client) *RedisGuard {
	return &RedisGuard{client: client}
}

func (g *RedisGuard) FirstFire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	claimed, err := g.client.SetNX(ctx, firedKeyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim fire guard key: %w", err)
	}
	return claimed, nil
}

var _ FireGuard = (*RedisGuard)(nil)
