package lease

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces lease keys so they never collide with other
// application data in a shared Redis.
const keyPrefix = "caseflow:lease:"

// RedisLease implements Lease on Redis SET NX EX, giving multi-process
// sweepers a shared fence.
type RedisLease struct {
	client *redis.Client
}

var _ Lease = (*RedisLease)(nil)

// NewRedisLease wraps an existing Redis client.
func NewRedisLease(client *redis.Client) *RedisLease {
	return &RedisLease{client: client}
}

// Acquire takes the lease with SET NX and the given TTL.
func (l *RedisLease) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire lease %s: %w", key, err)
	}
	return ok, nil
}

// Release deletes the lease key. A missing key means the TTL already fired.
func (l *RedisLease) Release(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("release lease %s: %w", key, err)
	}
	return nil
}
