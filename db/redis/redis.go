package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisDB carries the client shared by owner locks and the change feed.
type RedisDB struct {
	Client   *redis.Client
	Locker   *redislock.Client
	Ctx      context.Context
	Cancel   context.CancelFunc
	Addr     string
	Attempts int
	Logger   *logrus.Logger
}

func NewRedisDB(addr string, logger *logrus.Logger) *RedisDB {
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisDB{
		Ctx:      ctx,
		Cancel:   cancel,
		Addr:     addr,
		Attempts: 5,
		Logger:   logger,
	}
}

// Connect pings Redis with exponential backoff (capped at 30s) and gives up
// after Attempts tries.
func (r *RedisDB) Connect() error {
	var lastErr error
	for attempt := 1; attempt <= r.Attempts; attempt++ {
		client := redis.NewClient(&redis.Options{
			Addr:     r.Addr,
			DB:       0,
			PoolSize: 100,
		})
		if err := client.Ping(r.Ctx).Err(); err == nil {
			r.Client = client
			r.Locker = redislock.New(client)
			r.Logger.WithFields(logrus.Fields{"addr": r.Addr, "attempt": attempt}).Info("connected to redis")
			return nil
		} else {
			lastErr = err
			_ = client.Close()
		}

		sleep := time.Second * time.Duration(1<<min(attempt, 5))
		if sleep > 30*time.Second {
			sleep = 30 * time.Second
		}
		r.Logger.WithFields(logrus.Fields{"addr": r.Addr, "attempt": attempt, "retry_in": sleep.String()}).
			Warnf("failed to connect redis: %v", lastErr)
		if attempt == r.Attempts {
			break
		}
		select {
		case <-time.After(sleep):
		case <-r.Ctx.Done():
			return r.Ctx.Err()
		}
	}
	return fmt.Errorf("redis %s unreachable after %d attempts: %w", r.Addr, r.Attempts, lastErr)
}

func (r *RedisDB) Disconnect() error {
	r.Cancel()
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}

func (r *RedisDB) GetContext() context.Context {
	return r.Ctx
}
