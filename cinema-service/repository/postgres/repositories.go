package postgres

import (
	"context"

	"github.com/arunvm123/cinemabooking/cinema-service/model"
	"github.com/arunvm123/cinemabooking/cinema-service/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ===============================
// Movies
// ===============================

type MovieRepository struct {
	db *gorm.DB
}

var _ repository.MovieRepository = (*MovieRepository)(nil)

func (r *MovieRepository) FindByID(ctx context.Context, id int64) (*model.Movie, error) {
	return findByID[model.Movie](ctx, r.db, id)
}

func (r *MovieRepository) FindAll(ctx context.Context) ([]model.Movie, error) {
	return findAll[model.Movie](ctx, r.db, nil)
}

func (r *MovieRepository) FindAllWithReviews(ctx context.Context) ([]model.Movie, error) {
	movies := []model.Movie{}
	err := r.db.WithContext(ctx).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Order("id").
		Find(&movies).Error
	if err != nil {
		return nil, translate(err)
	}
	return movies, nil
}

func (r *MovieRepository) Save(ctx context.Context, movie *model.Movie) error {
	return save(ctx, r.db, movie, movie.ID)
}

func (r *MovieRepository) DeleteByID(ctx context.Context, id int64) error {
	return deleteByID[model.Movie](ctx, r.db, id)
}

// ===============================
// Reviews
// ===============================

type ReviewRepository struct {
	db *gorm.DB
}

var _ repository.ReviewRepository = (*ReviewRepository)(nil)

func (r *ReviewRepository) FindByID(ctx context.Context, id int64) (*model.Review, error) {
	return findByID[model.Review](ctx, r.db, id)
}

func (r *ReviewRepository) FindAll(ctx context.Context) ([]model.Review, error) {
	return findAll[model.Review](ctx, r.db, nil)
}

func (r *ReviewRepository) FindByMovieID(ctx context.Context, movieID int64) ([]model.Review, error) {
	return findAll[model.Review](ctx, r.db, "movie_id = ?", movieID)
}

func (r *ReviewRepository) FindByMovieTitle(ctx context.Context, title string) ([]model.Review, error) {
	return findAll[model.Review](ctx, r.db, "movie_id IN (?)",
		r.db.Model(&model.Movie{}).Select("id").Where("title = ?", title))
}

func (r *ReviewRepository) FindByUserID(ctx context.Context, userID int64) ([]model.Review, error) {
	return findAll[model.Review](ctx, r.db, "user_id = ?", userID)
}

func (r *ReviewRepository) FindByUserUsername(ctx context.Context, username string) ([]model.Review, error) {
	return findAll[model.Review](ctx, r.db, "user_id IN (?)",
		r.db.Model(&model.User{}).Select("id").Where("username = ?", username))
}

func (r *ReviewRepository) Save(ctx context.Context, review *model.Review) error {
	return save(ctx, r.db, review, review.ID)
}

func (r *ReviewRepository) DeleteByID(ctx context.Context, id int64) error {
	return deleteByID[model.Review](ctx, r.db, id)
}

// ===============================
// Showtimes
// ===============================

type ShowtimeRepository struct {
	db *gorm.DB
}

var _ repository.ShowtimeRepository = (*ShowtimeRepository)(nil)

func (r *ShowtimeRepository) FindByID(ctx context.Context, id int64) (*model.Showtime, error) {
	return findByID[model.Showtime](ctx, r.db, id)
}

func (r *ShowtimeRepository) FindAll(ctx context.Context) ([]model.Showtime, error) {
	return findAll[model.Showtime](ctx, r.db, nil)
}

func (r *ShowtimeRepository) FindByMovieID(ctx context.Context, movieID int64) ([]model.Showtime, error) {
	return findAll[model.Showtime](ctx, r.db, "movie_id = ?", movieID)
}

func (r *ShowtimeRepository) FindByMovieTitle(ctx context.Context, title string) ([]model.Showtime, error) {
	return findAll[model.Showtime](ctx, r.db, "movie_id IN (?)",
		r.db.Model(&model.Movie{}).Select("id").Where("title = ?", title))
}

func (r *ShowtimeRepository) FindByTheaterID(ctx context.Context, theaterID int64) ([]model.Showtime, error) {
	return findAll[model.Showtime](ctx, r.db, "theater_id = ?", theaterID)
}

func (r *ShowtimeRepository) FindByTheaterName(ctx context.Context, name string) ([]model.Showtime, error) {
	return findAll[model.Showtime](ctx, r.db, "theater_id IN (?)",
		r.db.Model(&model.Theater{}).Select("id").Where("name = ?", name))
}

func (r *ShowtimeRepository) Save(ctx context.Context, showtime *model.Showtime) error {
	return save(ctx, r.db, showtime, showtime.ID)
}

func (r *ShowtimeRepository) DeleteByID(ctx context.Context, id int64) error {
	return deleteByID[model.Showtime](ctx, r.db, id)
}

// ===============================
// Theaters
// ===============================

type TheaterRepository struct {
	db *gorm.DB
}

var _ repository.TheaterRepository = (*TheaterRepository)(nil)

func (r *TheaterRepository) FindByID(ctx context.Context, id int64) (*model.Theater, error) {
	return findByID[model.Theater](ctx, r.db, id)
}

func (r *TheaterRepository) FindAll(ctx context.Context) ([]model.Theater, error) {
	return findAll[model.Theater](ctx, r.db, nil)
}

func (r *TheaterRepository) Save(ctx context.Context, theater *model.Theater) error {
	return save(ctx, r.db, theater, theater.ID)
}

func (r *TheaterRepository) DeleteByID(ctx context.Context, id int64) error {
	return deleteByID[model.Theater](ctx, r.db, id)
}

// ===============================
// Seats
// ===============================

type SeatRepository struct {
	db *gorm.DB
}

var _ repository.SeatRepository = (*SeatRepository)(nil)

func (r *SeatRepository) FindByID(ctx context.Context, id int64) (*model.Seat, error) {
	return findByID[model.Seat](ctx, r.db, id)
}

func (r *SeatRepository) FindAll(ctx context.Context) ([]model.Seat, error) {
	return findAll[model.Seat](ctx, r.db, nil)
}

func (r *SeatRepository) FindByTheaterID(ctx context.Context, theaterID int64) ([]model.Seat, error) {
	return findAll[model.Seat](ctx, r.db, "theater_id = ?", theaterID)
}

func (r *SeatRepository) FindByTheaterName(ctx context.Context, name string) ([]model.Seat, error) {
	return findAll[model.Seat](ctx, r.db, "theater_id IN (?)",
		r.db.Model(&model.Theater{}).Select("id").Where("name = ?", name))
}

func (r *SeatRepository) FindByPosition(ctx context.Context, theaterID int64, row, number int) (*model.Seat, error) {
	var seat model.Seat
	err := r.db.WithContext(ctx).
		Where("theater_id = ? AND seat_row = ? AND number = ?", theaterID, row, number).
		First(&seat).Error
	if err != nil {
		return nil, translate(err)
	}
	return &seat, nil
}

func (r *SeatRepository) Save(ctx context.Context, seat *model.Seat) error {
	return save(ctx, r.db, seat, seat.ID)
}

func (r *SeatRepository) DeleteByID(ctx context.Context, id int64) error {
	return deleteByID[model.Seat](ctx, r.db, id)
}

// ===============================
// Tickets
// ===============================

type TicketRepository struct {
	db *gorm.DB
}

var _ repository.TicketRepository = (*TicketRepository)(nil)

func (r *TicketRepository) FindByID(ctx context.Context, id int64) (*model.Ticket, error) {
	return findByID[model.Ticket](ctx, r.db, id)
}

func (r *TicketRepository) FindAll(ctx context.Context) ([]model.Ticket, error) {
	return findAll[model.Ticket](ctx, r.db, nil)
}

func (r *TicketRepository) FindByUserID(ctx context.Context, userID int64) ([]model.Ticket, error) {
	return findAll[model.Ticket](ctx, r.db, "user_id = ?", userID)
}

func (r *TicketRepository) FindByUserUsername(ctx context.Context, username string) ([]model.Ticket, error) {
	return findAll[model.Ticket](ctx, r.db, "user_id IN (?)",
		r.db.Model(&model.User{}).Select("id").Where("username = ?", username))
}

func (r *TicketRepository) FindByShowtimeID(ctx context.Context, showtimeID int64) ([]model.Ticket, error) {
	return findAll[model.Ticket](ctx, r.db, "showtime_id = ?", showtimeID)
}

func (r *TicketRepository) FindByShowtimeDateTime(ctx context.Context, dateTime string) ([]model.Ticket, error) {
	return findAll[model.Ticket](ctx, r.db, "showtime_id IN (?)",
		r.db.Model(&model.Showtime{}).Select("id").Where("date_time = ?", dateTime))
}

func (r *TicketRepository) FindBySeatID(ctx context.Context, seatID int64) ([]model.Ticket, error) {
	return findAll[model.Ticket](ctx, r.db, "seat_id = ?", seatID)
}

func (r *TicketRepository) FindByShowtimeAndSeatNumber(ctx context.Context, showtimeID int64, seatNumber string) (*model.Ticket, error) {
	var ticket model.Ticket
	err := r.db.WithContext(ctx).
		Where("showtime_id = ? AND seat_number = ?", showtimeID, seatNumber).
		First(&ticket).Error
	if err != nil {
		return nil, translate(err)
	}
	return &ticket, nil
}

func (r *TicketRepository) FindByShowtimeAndSeatID(ctx context.Context, showtimeID, seatID int64) (*model.Ticket, error) {
	var ticket model.Ticket
	err := r.db.WithContext(ctx).
		Where("showtime_id = ? AND seat_id = ?", showtimeID, seatID).
		First(&ticket).Error
	if err != nil {
		return nil, translate(err)
	}
	return &ticket, nil
}

func (r *TicketRepository) Save(ctx context.Context, ticket *model.Ticket) error {
	return save(ctx, r.db, ticket, ticket.ID)
}

func (r *TicketRepository) SaveAll(ctx context.Context, tickets []model.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(&tickets).Error
	}))
}

func (r *TicketRepository) DeleteByID(ctx context.Context, id int64) error {
	return deleteByID[model.Ticket](ctx, r.db, id)
}

// ===============================
// Users
// ===============================

type UserRepository struct {
	db *gorm.DB
}

var _ repository.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return findByID[model.User](ctx, r.db, id)
}

func (r *UserRepository) FindAll(ctx context.Context) ([]model.User, error) {
	return findAll[model.User](ctx, r.db, nil)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) Save(ctx context.Context, user *model.User) error {
	return save(ctx, r.db, user, user.ID)
}

func (r *UserRepository) SaveAll(ctx context.Context, users []model.User) error {
	if len(users) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(&users).Error
	}))
}

func (r *UserRepository) DeleteByID(ctx context.Context, id int64) error {
	return deleteByID[model.User](ctx, r.db, id)
}
