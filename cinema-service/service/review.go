package service

import (
	"context"

	"github.com/arunvm123/cinemabooking/cinema-service/cache"
	"github.com/arunvm123/cinemabooking/cinema-service/model"
	"go.uber.org/zap"
)

type ReviewService struct {
	*base
}

func (s *ReviewService) GetByID(ctx context.Context, id int64) (*model.Review, error) {
	return one(ctx, s.base, cache.ReviewKey(id), func(ctx context.Context) (*model.Review, error) {
		return s.repos.Reviews.FindByID(ctx, id)
	})
}

func (s *ReviewService) GetAll(ctx context.Context) ([]model.Review, error) {
	return many(ctx, s.base, cache.ReviewsAllKey(), s.repos.Reviews.FindAll)
}

func (s *ReviewService) GetByMovieID(ctx context.Context, movieID int64) ([]model.Review, error) {
	return many(ctx, s.base, cache.ReviewsByMovieIDKey(movieID), func(ctx context.Context) ([]model.Review, error) {
		return s.repos.Reviews.FindByMovieID(ctx, movieID)
	})
}

func (s *ReviewService) GetByMovieTitle(ctx context.Context, title string) ([]model.Review, error) {
	return many(ctx, s.base, cache.ReviewsByMovieTitleKey(title), func(ctx context.Context) ([]model.Review, error) {
		return s.repos.Reviews.FindByMovieTitle(ctx, title)
	})
}

func (s *ReviewService) GetByUserID(ctx context.Context, userID int64) ([]model.Review, error) {
	return many(ctx, s.base, cache.ReviewsByUserIDKey(userID), func(ctx context.Context) ([]model.Review, error) {
		return s.repos.Reviews.FindByUserID(ctx, userID)
	})
}

func (s *ReviewService) GetByUserUsername(ctx context.Context, username string) ([]model.Review, error) {
	return many(ctx, s.base, cache.ReviewsByUserUsernameKey(username), func(ctx context.Context) ([]model.Review, error) {
		return s.repos.Reviews.FindByUserUsername(ctx, username)
	})
}

// Save inserts or replaces review. The movie and the user must exist.
func (s *ReviewService) Save(ctx context.Context, review *model.Review) error {
	r := s.resolver(ctx)

	var before *cache.Node
	if review.ID != 0 {
		old, err := s.repos.Reviews.FindByID(ctx, review.ID)
		if err != nil {
			return err
		}
		node := r.reviewNode(*old)
		before = &node
	}

	if _, err := r.require(cache.Movie, review.MovieID); err != nil {
		return err
	}
	if _, err := r.require(cache.User, review.UserID); err != nil {
		return err
	}

	if err := s.repos.Reviews.Save(ctx, review); err != nil {
		return err
	}

	s.invalidate(updated(r.reviewNode(*review), before))
	s.logger.Info("review saved",
		zap.Int64("review_id", review.ID),
		zap.Int64("movie_id", review.MovieID),
	)
	return nil
}

func (s *ReviewService) Delete(ctx context.Context, id int64) error {
	review, err := s.repos.Reviews.FindByID(ctx, id)
	if err != nil {
		return err
	}
	node := s.resolver(ctx).reviewNode(*review)

	if err := s.repos.Reviews.DeleteByID(ctx, id); err != nil {
		return err
	}

	s.invalidate(node)
	s.logger.Info("review deleted", zap.Int64("review_id", id))
	return nil
}
