package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
)

// RedisLocker shares owner locks between server instances. A lease expires
// after TTL even if its holder dies before releasing it.
type RedisLocker struct {
	client *redislock.Client
	TTL    time.Duration
	Retry  redislock.RetryStrategy
}

func NewRedisLocker(client *redislock.Client) *RedisLocker {
	return &RedisLocker{
		client: client,
		TTL:    30 * time.Second,
		Retry:  redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 100),
	}
}

func (r *RedisLocker) Obtain(ctx context.Context, key string) (Lease, error) {
	l, err := r.client.Obtain(ctx, key, r.TTL, &redislock.Options{RetryStrategy: r.Retry})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: %s", ErrNotObtained, key)
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}
