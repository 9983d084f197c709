package memory

import (
	"context"

	"github.com/arunvm123/cinemabooking/cinema-service/model"
	"github.com/arunvm123/cinemabooking/cinema-service/repository"
)

func (s *Store) read(ctx context.Context, fn func() error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx); err != nil {
		return err
	}
	return fn()
}

func (s *Store) write(ctx context.Context, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return err
	}
	return fn()
}

// ===============================
// Movies
// ===============================

type MovieRepository struct {
	s *Store
}

var _ repository.MovieRepository = (*MovieRepository)(nil)

func (r *MovieRepository) FindByID(ctx context.Context, id int64) (out *model.Movie, err error) {
	err = r.s.read(ctx, func() error {
		out, err = get(r.s.movies, id)
		return err
	})
	return out, err
}

func (r *MovieRepository) FindAll(ctx context.Context) (out []model.Movie, err error) {
	err = r.s.read(ctx, func() error {
		out = filter(r.s.movies, nil)
		return nil
	})
	return out, err
}

func (r *MovieRepository) FindAllWithReviews(ctx context.Context) (out []model.Movie, err error) {
	err = r.s.read(ctx, func() error {
		out = filter(r.s.movies, nil)
		for i := range out {
			id := out[i].ID
			out[i].Reviews = filter(r.s.reviews, func(rv model.Review) bool { return rv.MovieID == id })
		}
		return nil
	})
	return out, err
}

func (r *MovieRepository) Save(ctx context.Context, movie *model.Movie) error {
	return r.s.write(ctx, func() error {
		now := r.s.now()
		if movie.ID == 0 {
			movie.ID = r.s.id()
			movie.CreatedAt = now
		} else {
			prev, ok := r.s.movies[movie.ID]
			if !ok {
				return repository.ErrNotFound
			}
			movie.CreatedAt = prev.CreatedAt
		}
		movie.UpdatedAt = now

		stored := *movie
		stored.Reviews, stored.Showtimes = nil, nil
		r.s.movies[movie.ID] = stored
		return nil
	})
}

func (r *MovieRepository) DeleteByID(ctx context.Context, id int64) error {
	return r.s.write(ctx, func() error {
		if _, ok := r.s.movies[id]; !ok {
			return repository.ErrNotFound
		}
		r.s.deleteMovieLocked(id)
		return nil
	})
}

// ===============================
// Reviews
// ===============================

type ReviewRepository struct {
	s *Store
}

var _ repository.ReviewRepository = (*ReviewRepository)(nil)

func (r *ReviewRepository) FindByID(ctx context.Context, id int64) (out *model.Review, err error) {
	err = r.s.read(ctx, func() error {
		out, err = get(r.s.reviews, id)
		return err
	})
	return out, err
}

func (r *ReviewRepository) FindAll(ctx context.Context) (out []model.Review, err error) {
	return r.where(ctx, nil)
}

func (r *ReviewRepository) FindByMovieID(ctx context.Context, movieID int64) ([]model.Review, error) {
	return r.where(ctx, func(rv model.Review) bool { return rv.MovieID == movieID })
}

func (r *ReviewRepository) FindByMovieTitle(ctx context.Context, title string) (out []model.Review, err error) {
	err = r.s.read(ctx, func() error {
		ids := r.s.movieIDsByTitle(title)
		out = filter(r.s.reviews, func(rv model.Review) bool { return ids[rv.MovieID] })
		return nil
	})
	return out, err
}

func (r *ReviewRepository) FindByUserID(ctx context.Context, userID int64) ([]model.Review, error) {
	return r.where(ctx, func(rv model.Review) bool { return rv.UserID == userID })
}

func (r *ReviewRepository) FindByUserUsername(ctx context.Context, username string) (out []model.Review, err error) {
	err = r.s.read(ctx, func() error {
		ids := r.s.userIDsByUsername(username)
		out = filter(r.s.reviews, func(rv model.Review) bool { return ids[rv.UserID] })
		return nil
	})
	return out, err
}

func (r *ReviewRepository) where(ctx context.Context, match func(model.Review) bool) (out []model.Review, err error) {
	err = r.s.read(ctx, func() error {
		out = filter(r.s.reviews, match)
		return nil
	})
	return out, err
}

func (r *ReviewRepository) Save(ctx context.Context, review *model.Review) error {
	return r.s.write(ctx, func() error {
		now := r.s.now()
		if review.ID == 0 {
			review.ID = r.s.id()
			review.CreatedAt = now
		} else {
			prev, ok := r.s.reviews[review.ID]
			if !ok {
				return repository.ErrNotFound
			}
			review.CreatedAt = prev.CreatedAt
		}
		review.UpdatedAt = now
		r.s.reviews[review.ID] = *review
		return nil
	})
}

func (r *ReviewRepository) DeleteByID(ctx context.Context, id int64) error {
	return r.s.write(ctx, func() error {
		if _, ok := r.s.reviews[id]; !ok {
			return repository.ErrNotFound
		}
		delete(r.s.reviews, id)
		return nil
	})
}

// ===============================
// Showtimes
// ===============================

type ShowtimeRepository struct {
	s *Store
}

var _ repository.ShowtimeRepository = (*ShowtimeRepository)(nil)

func (r *ShowtimeRepository) FindByID(ctx context.Context, id int64) (out *model.Showtime, err error) {
	err = r.s.read(ctx, func() error {
		out, err = get(r.s.showtimes, id)
		return err
	})
	return out, err
}

func (r *ShowtimeRepository) FindAll(ctx context.Context) ([]model.Showtime, error) {
	return r.where(ctx, nil)
}

func (r *ShowtimeRepository) FindByMovieID(ctx context.Context, movieID int64) ([]model.Showtime, error) {
	return r.where(ctx, func(st model.Showtime) bool { return st.MovieID == movieID })
}

func (r *ShowtimeRepository) FindByMovieTitle(ctx context.Context, title string) (out []model.Showtime, err error) {
	err = r.s.read(ctx, func() error {
		ids := r.s.movieIDsByTitle(title)
		out = filter(r.s.showtimes, func(st model.Showtime) bool { return ids[st.MovieID] })
		return nil
	})
	return out, err
}

func (r *ShowtimeRepository) FindByTheaterID(ctx context.Context, theaterID int64) ([]model.Showtime, error) {
	return r.where(ctx, func(st model.Showtime) bool { return st.TheaterID == theaterID })
}

func (r *ShowtimeRepository) FindByTheaterName(ctx context.Context, name string) (out []model.Showtime, err error) {
	err = r.s.read(ctx, func() error {
		ids := r.s.theaterIDsByName(name)
		out = filter(r.s.showtimes, func(st model.Showtime) bool { return ids[st.TheaterID] })
		return nil
	})
	return out, err
}

func (r *ShowtimeRepository) where(ctx context.Context, match func(model.Showtime) bool) (out []model.Showtime, err error) {
	err = r.s.read(ctx, func() error {
		out = filter(r.s.showtimes, match)
		return nil
	})
	return out, err
}

func (r *ShowtimeRepository) Save(ctx context.Context, showtime *model.Showtime) error {
	return r.s.write(ctx, func() error {
		now := r.s.now()
		if showtime.ID == 0 {
			showtime.ID = r.s.id()
			showtime.CreatedAt = now
		} else {
			prev, ok := r.s.showtimes[showtime.ID]
			if !ok {
				return repository.ErrNotFound
			}
			showtime.CreatedAt = prev.CreatedAt
		}
		showtime.UpdatedAt = now

		stored := *showtime
		stored.Tickets = nil
		r.s.showtimes[showtime.ID] = stored
		return nil
	})
}

func (r *ShowtimeRepository) DeleteByID(ctx context.Context, id int64) error {
	return r.s.write(ctx, func() error {
		if _, ok := r.s.showtimes[id]; !ok {
			return repository.ErrNotFound
		}
		r.s.deleteShowtimeLocked(id)
		return nil
	})
}

// ===============================
// Theaters
// ===============================

type TheaterRepository struct {
	s *Store
}

var _ repository.TheaterRepository = (*TheaterRepository)(nil)

func (r *TheaterRepository) FindByID(ctx context.Context, id int64) (out *model.Theater, err error) {
	err = r.s.read(ctx, func() error {
		out, err = get(r.s.theaters, id)
		return err
	})
	return out, err
}

func (r *TheaterRepository) FindAll(ctx context.Context) (out []model.Theater, err error) {
	err = r.s.read(ctx, func() error {
		out = filter(r.s.theaters, nil)
		return nil
	})
	return out, err
}

func (r *TheaterRepository) Save(ctx context.Context, theater *model.Theater) error {
	return r.s.write(ctx, func() error {
		for id, t := range r.s.theaters {
			if t.Name == theater.Name && id != theater.ID {
				return duplicate("theater %q", theater.Name)
			}
		}

		now := r.s.now()
		if theater.ID == 0 {
			theater.ID = r.s.id()
			theater.CreatedAt = now
		} else {
			prev, ok := r.s.theaters[theater.ID]
			if !ok {
				return repository.ErrNotFound
			}
			theater.CreatedAt = prev.CreatedAt
		}
		theater.UpdatedAt = now

		stored := *theater
		stored.Seats, stored.Showtimes = nil, nil
		r.s.theaters[theater.ID] = stored
		return nil
	})
}

func (r *TheaterRepository) DeleteByID(ctx context.Context, id int64) error {
	return r.s.write(ctx, func() error {
		if _, ok := r.s.theaters[id]; !ok {
			return repository.ErrNotFound
		}
		r.s.deleteTheaterLocked(id)
		return nil
	})
}

// ===============================
// Seats
// ===============================

type SeatRepository struct {
	s *Store
}

var _ repository.SeatRepository = (*SeatRepository)(nil)

func (r *SeatRepository) FindByID(ctx context.Context, id int64) (out *model.Seat, err error) {
	err = r.s.read(ctx, func() error {
		out, err = get(r.s.seats, id)
		return err
	})
	return out, err
}

func (r *SeatRepository) FindAll(ctx context.Context) ([]model.Seat, error) {
	return r.where(ctx, nil)
}

func (r *SeatRepository) FindByTheaterID(ctx context.Context, theaterID int64) ([]model.Seat, error) {
	return r.where(ctx, func(seat model.Seat) bool { return seat.TheaterID == theaterID })
}

func (r *SeatRepository) FindByTheaterName(ctx context.Context, name string) (out []model.Seat, err error) {
	err = r.s.read(ctx, func() error {
		ids := r.s.theaterIDsByName(name)
		out = filter(r.s.seats, func(seat model.Seat) bool { return ids[seat.TheaterID] })
		return nil
	})
	return out, err
}

func (r *SeatRepository) FindByPosition(ctx context.Context, theaterID int64, row, number int) (out *model.Seat, err error) {
	err = r.s.read(ctx, func() error {
		for _, seat := range r.s.seats {
			if seat.TheaterID == theaterID && seat.SeatRow == row && seat.Number == number {
				found := seat
				out = &found
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r *SeatRepository) where(ctx context.Context, match func(model.Seat) bool) (out []model.Seat, err error) {
	err = r.s.read(ctx, func() error {
		out = filter(r.s.seats, match)
		return nil
	})
	return out, err
}

func (r *SeatRepository) Save(ctx context.Context, seat *model.Seat) error {
	return r.s.write(ctx, func() error {
		for id, other := range r.s.seats {
			if id != seat.ID && other.TheaterID == seat.TheaterID &&
				other.SeatRow == seat.SeatRow && other.Number == seat.Number {
				return duplicate("seat %s in theater %d", seat.Label(), seat.TheaterID)
			}
		}

		now := r.s.now()
		if seat.ID == 0 {
			seat.ID = r.s.id()
			seat.CreatedAt = now
		} else {
			prev, ok := r.s.seats[seat.ID]
			if !ok {
				return repository.ErrNotFound
			}
			seat.CreatedAt = prev.CreatedAt
		}
		seat.UpdatedAt = now

		stored := *seat
		stored.Tickets = nil
		r.s.seats[seat.ID] = stored
		return nil
	})
}

func (r *SeatRepository) DeleteByID(ctx context.Context, id int64) error {
	return r.s.write(ctx, func() error {
		if _, ok := r.s.seats[id]; !ok {
			return repository.ErrNotFound
		}
		r.s.deleteSeatLocked(id)
		return nil
	})
}

// ===============================
// Tickets
// ===============================

type TicketRepository struct {
	s *Store
}

var _ repository.TicketRepository = (*TicketRepository)(nil)

func (r *TicketRepository) FindByID(ctx context.Context, id int64) (out *model.Ticket, err error) {
	err = r.s.read(ctx, func() error {
		out, err = get(r.s.tickets, id)
		return err
	})
	return out, err
}

func (r *TicketRepository) FindAll(ctx context.Context) ([]model.Ticket, error) {
	return r.where(ctx, nil)
}

func (r *TicketRepository) FindByUserID(ctx context.Context, userID int64) ([]model.Ticket, error) {
	return r.where(ctx, func(t model.Ticket) bool { return t.UserID == userID })
}

func (r *TicketRepository) FindByUserUsername(ctx context.Context, username string) (out []model.Ticket, err error) {
	err = r.s.read(ctx, func() error {
		ids := r.s.userIDsByUsername(username)
		out = filter(r.s.tickets, func(t model.Ticket) bool { return ids[t.UserID] })
		return nil
	})
	return out, err
}

func (r *TicketRepository) FindByShowtimeID(ctx context.Context, showtimeID int64) ([]model.Ticket, error) {
	return r.where(ctx, func(t model.Ticket) bool { return t.ShowtimeID == showtimeID })
}

func (r *TicketRepository) FindByShowtimeDateTime(ctx context.Context, dateTime string) (out []model.Ticket, err error) {
	err = r.s.read(ctx, func() error {
		ids := r.s.showtimeIDsByDateTime(dateTime)
		out = filter(r.s.tickets, func(t model.Ticket) bool { return ids[t.ShowtimeID] })
		return nil
	})
	return out, err
}

func (r *TicketRepository) FindBySeatID(ctx context.Context, seatID int64) ([]model.Ticket, error) {
	return r.where(ctx, func(t model.Ticket) bool { return t.SeatID == seatID })
}

func (r *TicketRepository) FindByShowtimeAndSeatNumber(ctx context.Context, showtimeID int64, seatNumber string) (out *model.Ticket, err error) {
	err = r.s.read(ctx, func() error {
		for _, t := range r.s.tickets {
			if t.ShowtimeID == showtimeID && t.SeatNumber == seatNumber {
				found := t
				out = &found
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r *TicketRepository) FindByShowtimeAndSeatID(ctx context.Context, showtimeID, seatID int64) (out *model.Ticket, err error) {
	err = r.s.read(ctx, func() error {
		for _, t := range r.s.tickets {
			if t.ShowtimeID == showtimeID && t.SeatID == seatID {
				found := t
				out = &found
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r *TicketRepository) where(ctx context.Context, match func(model.Ticket) bool) (out []model.Ticket, err error) {
	err = r.s.read(ctx, func() error {
		out = filter(r.s.tickets, match)
		return nil
	})
	return out, err
}

func (r *TicketRepository) Save(ctx context.Context, ticket *model.Ticket) error {
	return r.s.write(ctx, func() error {
		return r.saveLocked(ticket)
	})
}

func (r *TicketRepository) SaveAll(ctx context.Context, tickets []model.Ticket) error {
	return r.s.write(ctx, func() error {
		// Validate the whole batch before touching the table
		for i, t := range tickets {
			for _, other := range tickets[:i] {
				if clashes(t, other) {
					return duplicate("ticket for seat %s at showtime %d", t.SeatNumber, t.ShowtimeID)
				}
			}
			if err := r.checkUniqueLocked(&t); err != nil {
				return err
			}
		}

		for i := range tickets {
			tickets[i].ID = 0
			if err := r.saveLocked(&tickets[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *TicketRepository) checkUniqueLocked(ticket *model.Ticket) error {
	for id, other := range r.s.tickets {
		if id != ticket.ID && clashes(*ticket, other) {
			return duplicate("ticket for seat %s at showtime %d", ticket.SeatNumber, ticket.ShowtimeID)
		}
	}
	return nil
}

// clashes mirrors the unique indexes on (showtime_id, seat_id) and
// (showtime_id, seat_number).
func clashes(a, b model.Ticket) bool {
	if a.ShowtimeID != b.ShowtimeID {
		return false
	}
	return a.SeatID == b.SeatID || a.SeatNumber == b.SeatNumber
}

func (r *TicketRepository) saveLocked(ticket *model.Ticket) error {
	if err := r.checkUniqueLocked(ticket); err != nil {
		return err
	}

	now := r.s.now()
	if ticket.ID == 0 {
		ticket.ID = r.s.id()
		ticket.CreatedAt = now
	} else {
		prev, ok := r.s.tickets[ticket.ID]
		if !ok {
			return repository.ErrNotFound
		}
		ticket.CreatedAt = prev.CreatedAt
	}
	ticket.UpdatedAt = now
	r.s.tickets[ticket.ID] = *ticket
	return nil
}

func (r *TicketRepository) DeleteByID(ctx context.Context, id int64) error {
	return r.s.write(ctx, func() error {
		if _, ok := r.s.tickets[id]; !ok {
			return repository.ErrNotFound
		}
		delete(r.s.tickets, id)
		return nil
	})
}

// ===============================
// Users
// ===============================

type UserRepository struct {
	s *Store
}

var _ repository.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) FindByID(ctx context.Context, id int64) (out *model.User, err error) {
	err = r.s.read(ctx, func() error {
		out, err = get(r.s.users, id)
		return err
	})
	return out, err
}

func (r *UserRepository) FindAll(ctx context.Context) (out []model.User, err error) {
	err = r.s.read(ctx, func() error {
		out = filter(r.s.users, nil)
		return nil
	})
	return out, err
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (out *model.User, err error) {
	err = r.s.read(ctx, func() error {
		for _, u := range r.s.users {
			if u.Username == username {
				found := u
				out = &found
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r *UserRepository) Save(ctx context.Context, user *model.User) error {
	return r.s.write(ctx, func() error {
		return r.saveLocked(user)
	})
}

func (r *UserRepository) SaveAll(ctx context.Context, users []model.User) error {
	return r.s.write(ctx, func() error {
		seen := make(map[string]bool)
		for _, u := range users {
			if seen[u.Username] {
				return duplicate("user %q", u.Username)
			}
			seen[u.Username] = true
			if err := r.checkUniqueLocked(&u); err != nil {
				return err
			}
		}

		for i := range users {
			users[i].ID = 0
			if err := r.saveLocked(&users[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *UserRepository) checkUniqueLocked(user *model.User) error {
	for id, other := range r.s.users {
		if id != user.ID && other.Username == user.Username {
			return duplicate("user %q", user.Username)
		}
	}
	return nil
}

func (r *UserRepository) saveLocked(user *model.User) error {
	if err := r.checkUniqueLocked(user); err != nil {
		return err
	}

	now := r.s.now()
	if user.ID == 0 {
		user.ID = r.s.id()
		user.CreatedAt = now
	} else {
		prev, ok := r.s.users[user.ID]
		if !ok {
			return repository.ErrNotFound
		}
		user.CreatedAt = prev.CreatedAt
	}
	user.UpdatedAt = now

	stored := *user
	stored.Tickets, stored.Reviews = nil, nil
	r.s.users[user.ID] = stored
	return nil
}

func (r *UserRepository) DeleteByID(ctx context.Context, id int64) error {
	return r.s.write(ctx, func() error {
		if _, ok := r.s.users[id]; !ok {
			return repository.ErrNotFound
		}
		r.s.deleteUserLocked(id)
		return nil
	})
}
