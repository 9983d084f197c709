package service

import (
	"context"

	"github.com/arunvm123/cinemabooking/cinema-service/cache"
	"github.com/arunvm123/cinemabooking/cinema-service/model"
	"go.uber.org/zap"
)

type MovieService struct {
	*base
}

func (s *MovieService) GetByID(ctx context.Context, id int64) (*model.Movie, error) {
	return one(ctx, s.base, cache.MovieKey(id), func(ctx context.Context) (*model.Movie, error) {
		return s.repos.Movies.FindByID(ctx, id)
	})
}

func (s *MovieService) GetAll(ctx context.Context) ([]model.Movie, error) {
	return many(ctx, s.base, cache.MoviesAllKey(), s.repos.Movies.FindAll)
}

// GetAllWithReviews lists every movie with its reviews attached.
func (s *MovieService) GetAllWithReviews(ctx context.Context) ([]model.Movie, error) {
	return many(ctx, s.base, cache.MoviesAllWithReviewsKey(), s.repos.Movies.FindAllWithReviews)
}

// Save inserts movie when its ID is zero and replaces it otherwise.
func (s *MovieService) Save(ctx context.Context, movie *model.Movie) error {
	r := s.resolver(ctx)

	var before *cache.Node
	if movie.ID != 0 {
		old, err := s.repos.Movies.FindByID(ctx, movie.ID)
		if err != nil {
			return err
		}
		node := r.movieNode(*old)
		before = &node
	}

	if err := s.repos.Movies.Save(ctx, movie); err != nil {
		return err
	}

	s.invalidate(updated(r.movieNode(*movie), before))
	s.logger.Info("movie saved", zap.Int64("movie_id", movie.ID))
	return nil
}

// Delete removes the movie together with its reviews, showtimes and their
// tickets.
func (s *MovieService) Delete(ctx context.Context, id int64) error {
	movie, err := s.repos.Movies.FindByID(ctx, id)
	if err != nil {
		return err
	}

	node, err := s.resolver(ctx).movieTree(*movie)
	if err != nil {
		return err
	}

	if err := s.repos.Movies.DeleteByID(ctx, id); err != nil {
		return err
	}

	s.invalidate(node)
	s.logger.Info("movie deleted", zap.Int64("movie_id", id))
	return nil
}
