package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/birthdates/Crypto-Store/store"
	"github.com/redis/go-redis/v9"
)

// Redis implements store.Store on a shared redis instance. This is
// the deployment tier for multi-process setups: every primitive maps
// to a single redis command, so per-key atomicity comes for free.
type Redis struct {
	client *redis.Client
}

var _ store.Store = (*Redis)(nil)

type Config struct {
	// Address of the redis server, host:port
	Address string
	// Password, empty if auth is disabled
	Password string
	// DB index to select
	DB int
}

func New(config Config) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{
			Addr:     config.Address,
			Password: config.Password,
			DB:       config.DB,
		}),
	}
}

func (r *Redis) Get(ctx context.Context, key string) (value string, err error) {
	value, err = r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get key: %w", err)
	}
	return value, nil
}

func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) (err error) {
	err = r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set key: %w", err)
	}
	return nil
}

func (r *Redis) SetNX(ctx context.Context, key, value string, ttl time.Duration) (set bool, err error) {
	set, err = r.client.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to setnx key: %w", err)
	}
	return set, nil
}

func (r *Redis) Incr(ctx context.Context, key string) (value int64, err error) {
	value, err = r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment key: %w", err)
	}
	return value, nil
}

func (r *Redis) Expire(ctx context.Context, key string, ttl time.Duration) (err error) {
	err = r.client.Expire(ctx, key, ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to expire key: %w", err)
	}
	return nil
}

func (r *Redis) Del(ctx context.Context, keys ...string) (removed int64, err error) {
	removed, err = r.client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to delete keys: %w", err)
	}
	return removed, nil
}

// Close releases the underlying connection pool.
func (r *Redis) Close() (err error) {
	return r.client.Close()
}
