package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/arunvm123/cinemabooking/cinema-service/model"
	"github.com/arunvm123/cinemabooking/cinema-service/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSave_AssignsIDsAndReplaces(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	movie := model.Movie{Title: "Inception", Director: "Nolan", ReleaseYear: 2010, Genre: "Sci-Fi"}
	require.NoError(t, repos.Movies.Save(ctx, &movie))
	assert.NotZero(t, movie.ID)
	created := movie.CreatedAt

	movie.Title = "Inception (IMAX)"
	require.NoError(t, repos.Movies.Save(ctx, &movie))
	assert.Equal(t, created, movie.CreatedAt)

	got, err := repos.Movies.FindByID(ctx, movie.ID)
	require.NoError(t, err)
	assert.Equal(t, "Inception (IMAX)", got.Title)

	missing := model.Movie{ID: 999, Title: "Ghost"}
	assert.ErrorIs(t, repos.Movies.Save(ctx, &missing), repository.ErrNotFound)
	assert.ErrorIs(t, repos.Movies.DeleteByID(ctx, 999), repository.ErrNotFound)
}

func TestDelete_Cascades(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	movie := model.Movie{Title: "Inception"}
	theater := model.Theater{Name: "Odeon", Capacity: 10}
	user := model.User{Username: "neo", Email: "neo@example.com"}
	require.NoError(t, repos.Movies.Save(ctx, &movie))
	require.NoError(t, repos.Theaters.Save(ctx, &theater))
	require.NoError(t, repos.Users.Save(ctx, &user))

	seat := model.Seat{SeatRow: 1, Number: 1, TheaterID: theater.ID}
	require.NoError(t, repos.Seats.Save(ctx, &seat))
	showtime := model.Showtime{DateTime: "01.01.2030 19:00", MovieID: movie.ID, TheaterID: theater.ID}
	require.NoError(t, repos.Showtimes.Save(ctx, &showtime))
	review := model.Review{Rating: 9, MovieID: movie.ID, UserID: user.ID}
	require.NoError(t, repos.Reviews.Save(ctx, &review))
	ticket := model.Ticket{SeatNumber: "1-1", ShowtimeID: showtime.ID, SeatID: seat.ID, UserID: user.ID}
	require.NoError(t, repos.Tickets.Save(ctx, &ticket))

	require.NoError(t, repos.Movies.DeleteByID(ctx, movie.ID))

	_, err := repos.Showtimes.FindByID(ctx, showtime.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repos.Reviews.FindByID(ctx, review.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repos.Tickets.FindByID(ctx, ticket.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repos.Seats.FindByID(ctx, seat.ID)
	assert.NoError(t, err)
	_, err = repos.Users.FindByID(ctx, user.ID)
	assert.NoError(t, err)
}

func TestFinders_ByName(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	theater := model.Theater{Name: "Odeon", Capacity: 10}
	require.NoError(t, repos.Theaters.Save(ctx, &theater))
	for n := 1; n <= 3; n++ {
		require.NoError(t, repos.Seats.Save(ctx, &model.Seat{SeatRow: 1, Number: n, TheaterID: theater.ID}))
	}

	seats, err := repos.Seats.FindByTheaterName(ctx, "Odeon")
	require.NoError(t, err)
	require.Len(t, seats, 3)
	assert.Less(t, seats[0].ID, seats[1].ID)

	seat, err := repos.Seats.FindByPosition(ctx, theater.ID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, seat.Number)

	_, err = repos.Seats.FindByPosition(ctx, theater.ID, 9, 9)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	none, err := repos.Seats.FindByTheaterName(ctx, "Rex")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUniqueConstraints(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	require.NoError(t, repos.Users.Save(ctx, &model.User{Username: "neo"}))
	assert.ErrorIs(t, repos.Users.Save(ctx, &model.User{Username: "neo"}), repository.ErrDuplicate)

	require.NoError(t, repos.Theaters.Save(ctx, &model.Theater{Name: "Odeon"}))
	assert.ErrorIs(t, repos.Theaters.Save(ctx, &model.Theater{Name: "Odeon"}), repository.ErrDuplicate)
}

func TestTicketSaveAll_IsAtomic(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	require.NoError(t, repos.Tickets.Save(ctx, &model.Ticket{ShowtimeID: 1, SeatID: 2, SeatNumber: "1-2"}))

	batch := []model.Ticket{
		{ShowtimeID: 1, SeatID: 1, SeatNumber: "1-1"},
		{ShowtimeID: 1, SeatID: 2, SeatNumber: "1-2"},
	}
	assert.ErrorIs(t, repos.Tickets.SaveAll(ctx, batch), repository.ErrDuplicate)

	tickets, err := repos.Tickets.FindByShowtimeID(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, tickets, 1)

	batch = []model.Ticket{
		{ShowtimeID: 1, SeatID: 1, SeatNumber: "1-1"},
		{ShowtimeID: 1, SeatID: 3, SeatNumber: "1-3"},
	}
	require.NoError(t, repos.Tickets.SaveAll(ctx, batch))
	assert.NotZero(t, batch[0].ID)
	assert.NotZero(t, batch[1].ID)
}

func TestFailWith(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repos := store.Repositories()
	boom := errors.New("connection refused")

	store.FailWith(boom)
	_, err := repos.Movies.FindAll(ctx)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, repos.Ping(ctx), boom)

	store.FailWith(nil)
	_, err = repos.Movies.FindAll(ctx)
	assert.NoError(t, err)
}

func TestTicketUnique_BySeatID(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	require.NoError(t, repos.Tickets.Save(ctx, &model.Ticket{ShowtimeID: 1, SeatID: 4, SeatNumber: "1-1"}))

	// same seat under a different label
	err := repos.Tickets.Save(ctx, &model.Ticket{ShowtimeID: 1, SeatID: 4, SeatNumber: "5-5"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	batch := []model.Ticket{
		{ShowtimeID: 2, SeatID: 7, SeatNumber: "1-1"},
		{ShowtimeID: 2, SeatID: 7, SeatNumber: "1-2"},
	}
	assert.ErrorIs(t, repos.Tickets.SaveAll(ctx, batch), repository.ErrDuplicate)

	got, err := repos.Tickets.FindByShowtimeAndSeatID(ctx, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, "1-1", got.SeatNumber)

	_, err = repos.Tickets.FindByShowtimeAndSeatID(ctx, 2, 7)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
