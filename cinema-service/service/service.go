// Package service holds the cinema business logic. Every read goes through
// the object cache and every successful write evicts the cached views it
// made stale.
package service

import (
	"context"
	"errors"
	"slices"

	"github.com/arunvm123/cinemabooking/cinema-service/cache"
	"github.com/arunvm123/cinemabooking/cinema-service/notifier"
	"github.com/arunvm123/cinemabooking/cinema-service/repository"
	"go.uber.org/zap"
)

var (
	// ErrInvalidInput is returned for requests that are well formed JSON but
	// cannot be applied, such as a malformed seat label.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSeatTaken is returned when a seat is already sold for a showtime.
	ErrSeatTaken = errors.New("seat already taken")

	// ErrInvalidCredentials is returned by Login for an unknown user or a
	// wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Services bundles every service the handlers use.
type Services struct {
	Movies    *MovieService
	Reviews   *ReviewService
	Showtimes *ShowtimeService
	Theaters  *TheaterService
	Seats     *SeatService
	Tickets   *TicketService
	Users     *UserService
}

func New(repos repository.Repositories, c cache.CacheRepository, n notifier.Notifier, logger *zap.Logger) *Services {
	b := &base{repos: repos, cache: c, logger: logger}
	return &Services{
		Movies:    &MovieService{base: b},
		Reviews:   &ReviewService{base: b},
		Showtimes: &ShowtimeService{base: b},
		Theaters:  &TheaterService{base: b},
		Seats:     &SeatService{base: b},
		Tickets:   &TicketService{base: b, notifier: n},
		Users:     &UserService{base: b},
	}
}

type base struct {
	repos  repository.Repositories
	cache  cache.CacheRepository
	logger *zap.Logger
}

func (b *base) resolver(ctx context.Context) *resolver {
	return newResolver(ctx, b.repos, b.logger)
}

func (b *base) invalidate(node cache.Node) {
	keys := cache.Keys(node)
	for _, k := range keys {
		b.cache.Evict(k)
	}
	b.logger.Debug("cache invalidated",
		zap.String("kind", string(node.Kind)),
		zap.Int64("id", node.ID),
		zap.Int("keys", len(keys)),
	)
}

// one reads a single entity through the cache. The cache holds the value,
// callers get their own copy.
func one[T any](ctx context.Context, b *base, key string, find func(ctx context.Context) (*T, error)) (*T, error) {
	value, err := cache.Fetch(ctx, b.cache, b.logger, key, func(ctx context.Context) (T, error) {
		found, err := find(ctx)
		if err != nil {
			var zero T
			return zero, err
		}
		return *found, nil
	})
	if err != nil {
		return nil, err
	}
	value = deepCopy(value)
	return &value, nil
}

// many reads a list through the cache and returns a copy of it.
func many[T any](ctx context.Context, b *base, key string, find func(ctx context.Context) ([]T, error)) ([]T, error) {
	values, err := cache.Fetch(ctx, b.cache, b.logger, key, find)
	if err != nil {
		return nil, err
	}
	out := slices.Clone(values)
	for i := range out {
		out[i] = deepCopy(out[i])
	}
	return out, nil
}

// deepCopy copies the associations of entities that carry any.
func deepCopy[T any](v T) T {
	if c, ok := any(v).(interface{ Clone() T }); ok {
		return c.Clone()
	}
	return v
}
