package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arunvm123/cinemabooking/cinema-service/cache"
	"github.com/arunvm123/cinemabooking/cinema-service/model"
	"github.com/arunvm123/cinemabooking/cinema-service/notifier"
	"github.com/arunvm123/cinemabooking/cinema-service/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TicketService struct {
	*base
	notifier notifier.Notifier
}

func (s *TicketService) GetByID(ctx context.Context, id int64) (*model.Ticket, error) {
	return one(ctx, s.base, cache.TicketKey(id), func(ctx context.Context) (*model.Ticket, error) {
		return s.repos.Tickets.FindByID(ctx, id)
	})
}

func (s *TicketService) GetAll(ctx context.Context) ([]model.Ticket, error) {
	return many(ctx, s.base, cache.TicketsAllKey(), s.repos.Tickets.FindAll)
}

func (s *TicketService) GetByUserID(ctx context.Context, userID int64) ([]model.Ticket, error) {
	return many(ctx, s.base, cache.TicketsByUserIDKey(userID), func(ctx context.Context) ([]model.Ticket, error) {
		return s.repos.Tickets.FindByUserID(ctx, userID)
	})
}

func (s *TicketService) GetByUserUsername(ctx context.Context, username string) ([]model.Ticket, error) {
	return many(ctx, s.base, cache.TicketsByUserUsernameKey(username), func(ctx context.Context) ([]model.Ticket, error) {
		return s.repos.Tickets.FindByUserUsername(ctx, username)
	})
}

func (s *TicketService) GetByShowtimeID(ctx context.Context, showtimeID int64) ([]model.Ticket, error) {
	return many(ctx, s.base, cache.TicketsByShowtimeIDKey(showtimeID), func(ctx context.Context) ([]model.Ticket, error) {
		return s.repos.Tickets.FindByShowtimeID(ctx, showtimeID)
	})
}

func (s *TicketService) GetByShowtimeDateTime(ctx context.Context, dateTime string) ([]model.Ticket, error) {
	return many(ctx, s.base, cache.TicketsByShowtimeDateTimeKey(dateTime), func(ctx context.Context) ([]model.Ticket, error) {
		return s.repos.Tickets.FindByShowtimeDateTime(ctx, dateTime)
	})
}

func (s *TicketService) GetBySeatID(ctx context.Context, seatID int64) ([]model.Ticket, error) {
	return many(ctx, s.base, cache.TicketsBySeatIDKey(seatID), func(ctx context.Context) ([]model.Ticket, error) {
		return s.repos.Tickets.FindBySeatID(ctx, seatID)
	})
}

// GetByShowtimeAndSeatNumber returns the ticket sold for a seat label at a
// showtime, or repository.ErrNotFound when the seat is free.
func (s *TicketService) GetByShowtimeAndSeatNumber(ctx context.Context, showtimeID int64, seatNumber string) (*model.Ticket, error) {
	return one(ctx, s.base, cache.TicketByShowtimeSeatKey(showtimeID, seatNumber), func(ctx context.Context) (*model.Ticket, error) {
		return s.repos.Tickets.FindByShowtimeAndSeatNumber(ctx, showtimeID, seatNumber)
	})
}

// Save inserts or replaces a single ticket. The seat must belong to the
// showtime's theater and the seat label is taken from it.
func (s *TicketService) Save(ctx context.Context, ticket *model.Ticket) error {
	r := s.resolver(ctx)

	var before *cache.Node
	if ticket.ID != 0 {
		old, err := s.repos.Tickets.FindByID(ctx, ticket.ID)
		if err != nil {
			return err
		}
		node := r.ticketNode(*old)
		before = &node
	}

	showtime, err := s.repos.Showtimes.FindByID(ctx, ticket.ShowtimeID)
	if err != nil {
		return notFound(cache.Showtime, ticket.ShowtimeID, err)
	}
	r.remember(cache.Ref{Kind: cache.Showtime, ID: showtime.ID, Name: showtime.DateTime})
	if _, err := r.require(cache.User, ticket.UserID); err != nil {
		return err
	}
	seat, err := s.repos.Seats.FindByID(ctx, ticket.SeatID)
	if err != nil {
		return notFound(cache.Seat, ticket.SeatID, err)
	}
	if seat.TheaterID != showtime.TheaterID {
		return fmt.Errorf("%w: seat %d is not in the theater of showtime %d",
			ErrInvalidInput, seat.ID, showtime.ID)
	}
	ticket.SeatNumber = seat.Label()

	if err := s.repos.Tickets.Save(ctx, ticket); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return fmt.Errorf("%w: %s", ErrSeatTaken, ticket.SeatNumber)
		}
		return err
	}

	s.invalidate(updated(r.ticketNode(*ticket), before))
	s.logger.Info("ticket saved", zap.Int64("ticket_id", ticket.ID))
	return nil
}

func (s *TicketService) Delete(ctx context.Context, id int64) error {
	ticket, err := s.repos.Tickets.FindByID(ctx, id)
	if err != nil {
		return err
	}
	node := s.resolver(ctx).ticketNode(*ticket)

	if err := s.repos.Tickets.DeleteByID(ctx, id); err != nil {
		return err
	}

	s.invalidate(node)
	s.logger.Info("ticket deleted", zap.Int64("ticket_id", id))
	return nil
}

// Purchase sells every requested seat of a showtime to one user at
// model.BaseTicketPrice, or none of them. Seats are "row-number" labels
// within the showtime's theater.
func (s *TicketService) Purchase(ctx context.Context, req model.PurchaseRequest) ([]model.Ticket, error) {
	if len(req.SeatNumbers) == 0 {
		return nil, fmt.Errorf("%w: no seats requested", ErrInvalidInput)
	}

	showtime, err := s.repos.Showtimes.FindByID(ctx, req.ShowtimeID)
	if err != nil {
		return nil, notFound(cache.Showtime, req.ShowtimeID, err)
	}
	user, err := s.repos.Users.FindByID(ctx, req.UserID)
	if err != nil {
		return nil, notFound(cache.User, req.UserID, err)
	}

	tickets := make([]model.Ticket, 0, len(req.SeatNumbers))
	seen := make(map[string]bool, len(req.SeatNumbers))
	for _, label := range req.SeatNumbers {
		row, number, err := model.ParseSeatLabel(label)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		// "01-2" and "1-2" name the same seat
		label = model.SeatLabel(row, number)
		if seen[label] {
			return nil, fmt.Errorf("%w: seat %s requested twice", ErrInvalidInput, label)
		}
		seen[label] = true

		seat, err := s.repos.Seats.FindByPosition(ctx, showtime.TheaterID, row, number)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("seat %s: %w", label, err)
			}
			return nil, err
		}
		if !seat.Available {
			return nil, fmt.Errorf("%w: seat %s is not available", ErrSeatTaken, label)
		}

		_, err = s.repos.Tickets.FindByShowtimeAndSeatID(ctx, showtime.ID, seat.ID)
		switch {
		case err == nil:
			s.logger.Warn("seat already occupied",
				zap.Int64("showtime_id", showtime.ID),
				zap.String("seat", label),
			)
			return nil, fmt.Errorf("%w: %s", ErrSeatTaken, label)
		case !errors.Is(err, repository.ErrNotFound):
			return nil, err
		}

		tickets = append(tickets, model.Ticket{
			SeatNumber: label,
			Price:      model.BaseTicketPrice,
			ShowtimeID: showtime.ID,
			UserID:     user.ID,
			SeatID:     seat.ID,
		})
	}

	if err := s.repos.Tickets.SaveAll(ctx, tickets); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %v", ErrSeatTaken, err)
		}
		return nil, err
	}

	r := s.resolver(ctx)
	r.showtimeNode(*showtime)
	r.userNode(*user)
	for _, t := range tickets {
		s.invalidate(r.ticketNode(t))
	}

	s.logger.Info("tickets purchased",
		zap.Int64("showtime_id", showtime.ID),
		zap.Int64("user_id", user.ID),
		zap.Int("count", len(tickets)),
	)

	s.notifyPurchase(ctx, r, showtime, user, tickets)
	return tickets, nil
}

// notifyPurchase publishes the confirmation. The purchase is already stored,
// so failures are only logged.
func (s *TicketService) notifyPurchase(ctx context.Context, r *resolver, showtime *model.Showtime, user *model.User, tickets []model.Ticket) {
	if s.notifier == nil {
		return
	}

	data := model.NotificationPurchaseData{
		ShowtimeID:   showtime.ID,
		MovieTitle:   r.ref(cache.Movie, showtime.MovieID).Name,
		TheaterName:  r.ref(cache.Theater, showtime.TheaterID).Name,
		DateTime:     showtime.DateTime,
		ShowtimeType: showtime.Type,
		UserName:     user.Username,
	}
	for _, t := range tickets {
		data.Seats = append(data.Seats, t.SeatNumber)
		data.TicketIDs = append(data.TicketIDs, t.ID)
		data.TotalAmount += t.Price
	}

	notification := &model.NotificationRequest{
		ID:             uuid.New(),
		Type:           model.NotificationTicketsPurchased,
		RecipientEmail: user.Email,
		PurchaseData:   data,
		Timestamp:      time.Now(),
	}
	if err := s.notifier.NotifyPurchase(ctx, notification); err != nil {
		s.logger.Error("failed to send purchase notification",
			zap.String("notification_id", notification.ID.String()),
			zap.Error(err),
		)
	}
}

func notFound(kind cache.Kind, id int64, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s %d: %w", kind, id, err)
	}
	return err
}
