package config

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// NewRedis returns nil when no address is configured.
func NewRedis(ctx context.Context, addr, password string) *redis.Client {
	if addr == "" {
		Log.Info("REDIS_ADDR not set, statistics cache disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		Log.WithError(err).Warn("Redis unreachable, statistics cache disabled")
		_ = client.Close()
		return nil
	}
	return client
}
