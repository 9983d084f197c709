package service

import (
	"context"

	"github.com/arunvm123/cinemabooking/cinema-service/cache"
	"github.com/arunvm123/cinemabooking/cinema-service/model"
	"go.uber.org/zap"
)

type TheaterService struct {
	*base
}

func (s *TheaterService) GetByID(ctx context.Context, id int64) (*model.Theater, error) {
	return one(ctx, s.base, cache.TheaterKey(id), func(ctx context.Context) (*model.Theater, error) {
		return s.repos.Theaters.FindByID(ctx, id)
	})
}

func (s *TheaterService) GetAll(ctx context.Context) ([]model.Theater, error) {
	return many(ctx, s.base, cache.TheatersAllKey(), s.repos.Theaters.FindAll)
}

func (s *TheaterService) Save(ctx context.Context, theater *model.Theater) error {
	r := s.resolver(ctx)

	var before *cache.Node
	if theater.ID != 0 {
		old, err := s.repos.Theaters.FindByID(ctx, theater.ID)
		if err != nil {
			return err
		}
		node := r.theaterNode(*old)
		before = &node
	}

	if err := s.repos.Theaters.Save(ctx, theater); err != nil {
		return err
	}

	s.invalidate(updated(r.theaterNode(*theater), before))
	s.logger.Info("theater saved", zap.Int64("theater_id", theater.ID))
	return nil
}

// Delete removes the theater with its seats, showtimes and their tickets.
func (s *TheaterService) Delete(ctx context.Context, id int64) error {
	theater, err := s.repos.Theaters.FindByID(ctx, id)
	if err != nil {
		return err
	}

	node, err := s.resolver(ctx).theaterTree(*theater)
	if err != nil {
		return err
	}

	if err := s.repos.Theaters.DeleteByID(ctx, id); err != nil {
		return err
	}

	s.invalidate(node)
	s.logger.Info("theater deleted", zap.Int64("theater_id", id))
	return nil
}
