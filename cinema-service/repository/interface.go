package repository

import (
	"context"
	"errors"

	"github.com/arunvm123/cinemabooking/cinema-service/model"
)

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a write violates a unique constraint.
	ErrDuplicate = errors.New("record already exists")
)

// Save inserts when the entity's ID is zero and assigns the new ID. Otherwise
// it replaces the stored row and returns ErrNotFound if there is none.
// DeleteByID removes dependent rows along with the entity.

type MovieRepository interface {
	FindByID(ctx context.Context, id int64) (*model.Movie, error)
	FindAll(ctx context.Context) ([]model.Movie, error)
	// FindAllWithReviews loads every movie with its reviews attached
	FindAllWithReviews(ctx context.Context) ([]model.Movie, error)
	Save(ctx context.Context, movie *model.Movie) error
	DeleteByID(ctx context.Context, id int64) error
}

type ReviewRepository interface {
	FindByID(ctx context.Context, id int64) (*model.Review, error)
	FindAll(ctx context.Context) ([]model.Review, error)
	FindByMovieID(ctx context.Context, movieID int64) ([]model.Review, error)
	FindByMovieTitle(ctx context.Context, title string) ([]model.Review, error)
	FindByUserID(ctx context.Context, userID int64) ([]model.Review, error)
	FindByUserUsername(ctx context.Context, username string) ([]model.Review, error)
	Save(ctx context.Context, review *model.Review) error
	DeleteByID(ctx context.Context, id int64) error
}

type ShowtimeRepository interface {
	FindByID(ctx context.Context, id int64) (*model.Showtime, error)
	FindAll(ctx context.Context) ([]model.Showtime, error)
	FindByMovieID(ctx context.Context, movieID int64) ([]model.Showtime, error)
	FindByMovieTitle(ctx context.Context, title string) ([]model.Showtime, error)
	FindByTheaterID(ctx context.Context, theaterID int64) ([]model.Showtime, error)
	FindByTheaterName(ctx context.Context, name string) ([]model.Showtime, error)
	Save(ctx context.Context, showtime *model.Showtime) error
	DeleteByID(ctx context.Context, id int64) error
}

type TheaterRepository interface {
	FindByID(ctx context.Context, id int64) (*model.Theater, error)
	FindAll(ctx context.Context) ([]model.Theater, error)
	Save(ctx context.Context, theater *model.Theater) error
	DeleteByID(ctx context.Context, id int64) error
}

type SeatRepository interface {
	FindByID(ctx context.Context, id int64) (*model.Seat, error)
	FindAll(ctx context.Context) ([]model.Seat, error)
	FindByTheaterID(ctx context.Context, theaterID int64) ([]model.Seat, error)
	FindByTheaterName(ctx context.Context, name string) ([]model.Seat, error)
	// FindByPosition finds the seat at row/number in a theater
	FindByPosition(ctx context.Context, theaterID int64, row, number int) (*model.Seat, error)
	Save(ctx context.Context, seat *model.Seat) error
	DeleteByID(ctx context.Context, id int64) error
}

type TicketRepository interface {
	FindByID(ctx context.Context, id int64) (*model.Ticket, error)
	FindAll(ctx context.Context) ([]model.Ticket, error)
	FindByUserID(ctx context.Context, userID int64) ([]model.Ticket, error)
	FindByUserUsername(ctx context.Context, username string) ([]model.Ticket, error)
	FindByShowtimeID(ctx context.Context, showtimeID int64) ([]model.Ticket, error)
	FindByShowtimeDateTime(ctx context.Context, dateTime string) ([]model.Ticket, error)
	FindBySeatID(ctx context.Context, seatID int64) ([]model.Ticket, error)
	// FindByShowtimeAndSeatNumber returns ErrNotFound when the seat is free
	FindByShowtimeAndSeatNumber(ctx context.Context, showtimeID int64, seatNumber string) (*model.Ticket, error)
	// FindByShowtimeAndSeatID returns ErrNotFound when the seat is free
	FindByShowtimeAndSeatID(ctx context.Context, showtimeID, seatID int64) (*model.Ticket, error)
	Save(ctx context.Context, ticket *model.Ticket) error
	// SaveAll inserts every ticket or none of them
	SaveAll(ctx context.Context, tickets []model.Ticket) error
	DeleteByID(ctx context.Context, id int64) error
}

type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindAll(ctx context.Context) ([]model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	Save(ctx context.Context, user *model.User) error
	// SaveAll inserts every user or none of them
	SaveAll(ctx context.Context, users []model.User) error
	DeleteByID(ctx context.Context, id int64) error
}

// Repositories bundles every store the services need.
type Repositories struct {
	Movies    MovieRepository
	Reviews   ReviewRepository
	Showtimes ShowtimeRepository
	Theaters  TheaterRepository
	Seats     SeatRepository
	Tickets   TicketRepository
	Users     UserRepository

	// Ping checks the backing store for health checks
	Ping func(ctx context.Context) error
}
