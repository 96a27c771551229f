package db

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/user/storeapi-go/apperror"
)

// NewRedisClient parses a redis:// URL and verifies the server answers a PING.
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, apperror.NewConfigError("invalid REDIS_URL", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, apperror.NewExternalServiceError("failed to connect to redis", err)
	}
	return client, nil
}
