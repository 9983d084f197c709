package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/arunvm123/cinemabooking/cinema-service/counter"
	"github.com/redis/go-redis/v9"
)

type RedisVisitCounter struct {
	client *redis.Client
}

var _ counter.VisitCounter = (*RedisVisitCounter)(nil)

func NewRedisVisitCounter(ctx context.Context, redisURL, password string, db int) (*RedisVisitCounter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: password,
		DB:       db,
	})

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisVisitCounter{client: client}, nil
}

func visitKey(url string) string {
	return fmt.Sprintf("visits:%s", url)
}

func (r *RedisVisitCounter) Increment(ctx context.Context, url string) (int64, error) {
	return r.client.Incr(ctx, visitKey(url)).Result()
}

func (r *RedisVisitCounter) Count(ctx context.Context, url string) (int64, error) {
	countStr, err := r.client.Get(ctx, visitKey(url)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}

	count, err := strconv.ParseInt(countStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt visit count for %s: %w", url, err)
	}
	return count, nil
}

// Health check
func (r *RedisVisitCounter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisVisitCounter) Close() error {
	return r.client.Close()
}
