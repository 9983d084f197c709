// Package memory keeps every table in process memory. It mirrors the
// PostgreSQL schema closely enough to stand in for it in tests and local
// runs: ids are assigned on insert, unique indexes are enforced and deletes
// cascade to dependent rows.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/arunvm123/cinemabooking/cinema-service/model"
	"github.com/arunvm123/cinemabooking/cinema-service/repository"
)

type Store struct {
	mu  sync.RWMutex
	err error
	now func() time.Time

	nextID    int64
	movies    map[int64]model.Movie
	reviews   map[int64]model.Review
	showtimes map[int64]model.Showtime
	theaters  map[int64]model.Theater
	seats     map[int64]model.Seat
	tickets   map[int64]model.Ticket
	users     map[int64]model.User
}

func NewStore() *Store {
	return &Store{
		now:       time.Now,
		movies:    make(map[int64]model.Movie),
		reviews:   make(map[int64]model.Review),
		showtimes: make(map[int64]model.Showtime),
		theaters:  make(map[int64]model.Theater),
		seats:     make(map[int64]model.Seat),
		tickets:   make(map[int64]model.Ticket),
		users:     make(map[int64]model.User),
	}
}

// FailWith makes every subsequent call return err. Pass nil to recover.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Repositories exposes the store through the repository interfaces.
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Movies:    &MovieRepository{s: s},
		Reviews:   &ReviewRepository{s: s},
		Showtimes: &ShowtimeRepository{s: s},
		Theaters:  &TheaterRepository{s: s},
		Seats:     &SeatRepository{s: s},
		Tickets:   &TicketRepository{s: s},
		Users:     &UserRepository{s: s},
		Ping: func(ctx context.Context) error {
			s.mu.RLock()
			defer s.mu.RUnlock()
			return s.err
		},
	}
}

func (s *Store) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.err
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func get[T any](table map[int64]T, id int64) (*T, error) {
	v, ok := table[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &v, nil
}

// filter returns matching rows ordered by id.
func filter[T any](table map[int64]T, match func(T) bool) []T {
	ids := make([]int64, 0, len(table))
	for id, v := range table {
		if match == nil || match(v) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, table[id])
	}
	return out
}

func duplicate(format string, args ...any) error {
	return fmt.Errorf("%w: %s", repository.ErrDuplicate, fmt.Sprintf(format, args...))
}

// Cascading deletes. Callers hold the write lock.

func (s *Store) deleteMovieLocked(id int64) {
	delete(s.movies, id)
	for rid, r := range s.reviews {
		if r.MovieID == id {
			delete(s.reviews, rid)
		}
	}
	for sid, st := range s.showtimes {
		if st.MovieID == id {
			s.deleteShowtimeLocked(sid)
		}
	}
}

func (s *Store) deleteShowtimeLocked(id int64) {
	delete(s.showtimes, id)
	for tid, t := range s.tickets {
		if t.ShowtimeID == id {
			delete(s.tickets, tid)
		}
	}
}

func (s *Store) deleteTheaterLocked(id int64) {
	delete(s.theaters, id)
	for sid, seat := range s.seats {
		if seat.TheaterID == id {
			s.deleteSeatLocked(sid)
		}
	}
	for sid, st := range s.showtimes {
		if st.TheaterID == id {
			s.deleteShowtimeLocked(sid)
		}
	}
}

func (s *Store) deleteSeatLocked(id int64) {
	delete(s.seats, id)
	for tid, t := range s.tickets {
		if t.SeatID == id {
			delete(s.tickets, tid)
		}
	}
}

func (s *Store) deleteUserLocked(id int64) {
	delete(s.users, id)
	for tid, t := range s.tickets {
		if t.UserID == id {
			delete(s.tickets, tid)
		}
	}
	for rid, r := range s.reviews {
		if r.UserID == id {
			delete(s.reviews, rid)
		}
	}
}

func (s *Store) movieIDsByTitle(title string) map[int64]bool {
	ids := make(map[int64]bool)
	for id, m := range s.movies {
		if m.Title == title {
			ids[id] = true
		}
	}
	return ids
}

func (s *Store) userIDsByUsername(username string) map[int64]bool {
	ids := make(map[int64]bool)
	for id, u := range s.users {
		if u.Username == username {
			ids[id] = true
		}
	}
	return ids
}

func (s *Store) theaterIDsByName(name string) map[int64]bool {
	ids := make(map[int64]bool)
	for id, t := range s.theaters {
		if t.Name == name {
			ids[id] = true
		}
	}
	return ids
}

func (s *Store) showtimeIDsByDateTime(dateTime string) map[int64]bool {
	ids := make(map[int64]bool)
	for id, st := range s.showtimes {
		if st.DateTime == dateTime {
			ids[id] = true
		}
	}
	return ids
}
