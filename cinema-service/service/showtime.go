package service

import (
	"context"

	"github.com/arunvm123/cinemabooking/cinema-service/cache"
	"github.com/arunvm123/cinemabooking/cinema-service/model"
	"go.uber.org/zap"
)

type ShowtimeService struct {
	*base
}

func (s *ShowtimeService) GetByID(ctx context.Context, id int64) (*model.Showtime, error) {
	return one(ctx, s.base, cache.ShowtimeKey(id), func(ctx context.Context) (*model.Showtime, error) {
		return s.repos.Showtimes.FindByID(ctx, id)
	})
}

func (s *ShowtimeService) GetAll(ctx context.Context) ([]model.Showtime, error) {
	return many(ctx, s.base, cache.ShowtimesAllKey(), s.repos.Showtimes.FindAll)
}

func (s *ShowtimeService) GetByMovieID(ctx context.Context, movieID int64) ([]model.Showtime, error) {
	return many(ctx, s.base, cache.ShowtimesByMovieIDKey(movieID), func(ctx context.Context) ([]model.Showtime, error) {
		return s.repos.Showtimes.FindByMovieID(ctx, movieID)
	})
}

func (s *ShowtimeService) GetByMovieTitle(ctx context.Context, title string) ([]model.Showtime, error) {
	return many(ctx, s.base, cache.ShowtimesByMovieTitleKey(title), func(ctx context.Context) ([]model.Showtime, error) {
		return s.repos.Showtimes.FindByMovieTitle(ctx, title)
	})
}

func (s *ShowtimeService) GetByTheaterID(ctx context.Context, theaterID int64) ([]model.Showtime, error) {
	return many(ctx, s.base, cache.ShowtimesByTheaterIDKey(theaterID), func(ctx context.Context) ([]model.Showtime, error) {
		return s.repos.Showtimes.FindByTheaterID(ctx, theaterID)
	})
}

func (s *ShowtimeService) GetByTheaterName(ctx context.Context, name string) ([]model.Showtime, error) {
	return many(ctx, s.base, cache.ShowtimesByTheaterNameKey(name), func(ctx context.Context) ([]model.Showtime, error) {
		return s.repos.Showtimes.FindByTheaterName(ctx, name)
	})
}

// Save inserts or replaces showtime. The movie and the theater must exist.
func (s *ShowtimeService) Save(ctx context.Context, showtime *model.Showtime) error {
	r := s.resolver(ctx)

	var before *cache.Node
	if showtime.ID != 0 {
		old, err := s.repos.Showtimes.FindByID(ctx, showtime.ID)
		if err != nil {
			return err
		}
		node := r.showtimeNode(*old)
		before = &node
	}

	if _, err := r.require(cache.Movie, showtime.MovieID); err != nil {
		return err
	}
	if _, err := r.require(cache.Theater, showtime.TheaterID); err != nil {
		return err
	}

	if err := s.repos.Showtimes.Save(ctx, showtime); err != nil {
		return err
	}

	s.invalidate(updated(r.showtimeNode(*showtime), before))
	s.logger.Info("showtime saved", zap.Int64("showtime_id", showtime.ID))
	return nil
}

// Delete removes the showtime and its tickets.
func (s *ShowtimeService) Delete(ctx context.Context, id int64) error {
	showtime, err := s.repos.Showtimes.FindByID(ctx, id)
	if err != nil {
		return err
	}

	node, err := s.resolver(ctx).showtimeTree(*showtime)
	if err != nil {
		return err
	}

	if err := s.repos.Showtimes.DeleteByID(ctx, id); err != nil {
		return err
	}

	s.invalidate(node)
	s.logger.Info("showtime deleted", zap.Int64("showtime_id", id))
	return nil
}
