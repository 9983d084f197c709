package cache

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Fetch returns the value cached under key, loading and caching it on a miss.
//
// A hit holding a value of another type is evicted and reloaded. Load errors
// are returned unchanged and leave the cache untouched. Concurrent misses on
// the same key each call load; the last Put wins.
func Fetch[T any](ctx context.Context, c CacheRepository, logger *zap.Logger, key string, load func(ctx context.Context) (T, error)) (T, error) {
	if cached, ok := c.Get(key); ok {
		if value, ok := cached.(T); ok {
			return value, nil
		}

		var want T
		logger.Warn("cached value has unexpected type, evicting",
			zap.String("key", key),
			zap.String("want", fmt.Sprintf("%T", want)),
			zap.String("got", fmt.Sprintf("%T", cached)),
		)
		c.Evict(key)
	}

	value, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	c.Put(key, value)
	return value, nil
}
