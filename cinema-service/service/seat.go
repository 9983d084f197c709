package service

import (
	"context"
	"fmt"

	"github.com/arunvm123/cinemabooking/cinema-service/cache"
	"github.com/arunvm123/cinemabooking/cinema-service/model"
	"go.uber.org/zap"
)

type SeatService struct {
	*base
}

func (s *SeatService) GetByID(ctx context.Context, id int64) (*model.Seat, error) {
	return one(ctx, s.base, cache.SeatKey(id), func(ctx context.Context) (*model.Seat, error) {
		return s.repos.Seats.FindByID(ctx, id)
	})
}

func (s *SeatService) GetAll(ctx context.Context) ([]model.Seat, error) {
	return many(ctx, s.base, cache.SeatsAllKey(), s.repos.Seats.FindAll)
}

func (s *SeatService) GetByTheaterID(ctx context.Context, theaterID int64) ([]model.Seat, error) {
	return many(ctx, s.base, cache.SeatsByTheaterIDKey(theaterID), func(ctx context.Context) ([]model.Seat, error) {
		return s.repos.Seats.FindByTheaterID(ctx, theaterID)
	})
}

func (s *SeatService) GetByTheaterName(ctx context.Context, name string) ([]model.Seat, error) {
	return many(ctx, s.base, cache.SeatsByTheaterNameKey(name), func(ctx context.Context) ([]model.Seat, error) {
		return s.repos.Seats.FindByTheaterName(ctx, name)
	})
}

// Save inserts or replaces seat. The theater must exist, and a seat with
// tickets keeps its theater and position.
func (s *SeatService) Save(ctx context.Context, seat *model.Seat) error {
	r := s.resolver(ctx)

	var before *cache.Node
	if seat.ID != 0 {
		old, err := s.repos.Seats.FindByID(ctx, seat.ID)
		if err != nil {
			return err
		}
		if err := s.checkMovable(ctx, old, seat); err != nil {
			return err
		}
		node := r.seatNode(*old)
		before = &node
	}

	if _, err := r.require(cache.Theater, seat.TheaterID); err != nil {
		return err
	}

	if err := s.repos.Seats.Save(ctx, seat); err != nil {
		return err
	}

	s.invalidate(updated(r.seatNode(*seat), before))
	s.logger.Info("seat saved",
		zap.Int64("seat_id", seat.ID),
		zap.String("seat", seat.Label()),
	)
	return nil
}

// checkMovable refuses to move or relabel a seat that already has tickets,
// since those tickets carry its old label and theater.
func (s *SeatService) checkMovable(ctx context.Context, old, seat *model.Seat) error {
	if old.Label() == seat.Label() && old.TheaterID == seat.TheaterID {
		return nil
	}
	tickets, err := s.repos.Tickets.FindBySeatID(ctx, seat.ID)
	if err != nil {
		return err
	}
	if len(tickets) > 0 {
		return fmt.Errorf("%w: seat %d has %d tickets and cannot move from %s",
			ErrSeatTaken, seat.ID, len(tickets), old.Label())
	}
	return nil
}

// Delete removes the seat and every ticket sold for it.
func (s *SeatService) Delete(ctx context.Context, id int64) error {
	seat, err := s.repos.Seats.FindByID(ctx, id)
	if err != nil {
		return err
	}

	node, err := s.resolver(ctx).seatTree(*seat)
	if err != nil {
		return err
	}

	if err := s.repos.Seats.DeleteByID(ctx, id); err != nil {
		return err
	}

	s.invalidate(node)
	s.logger.Info("seat deleted", zap.Int64("seat_id", id))
	return nil
}
