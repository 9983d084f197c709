package service

import (
	"context"
	"testing"

	"github.com/arunvm123/cinemabooking/cinema-service/cache"
	"github.com/arunvm123/cinemabooking/cinema-service/model"
	"github.com/arunvm123/cinemabooking/cinema-service/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCreateAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.svc.Users.Create(ctx, model.CreateUserRequest{Username: "trinity", Email: "t@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	got, err := f.svc.Users.Login(ctx, model.LoginRequest{Username: "trinity", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = f.svc.Users.Login(ctx, model.LoginRequest{Username: "trinity", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.svc.Users.Login(ctx, model.LoginRequest{Username: "nobody", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Users.Create(ctx, model.CreateUserRequest{Username: "trinity", Email: "x@example.com", Password: "secret2"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestUserCreateAll_IsAllOrNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Users.GetAll(ctx)
	require.NoError(t, err)

	_, err = f.svc.Users.CreateAll(ctx, []model.CreateUserRequest{
		{Username: "morpheus", Email: "m@example.com", Password: "secret1"},
		{Username: "morpheus", Email: "m2@example.com", Password: "secret2"},
	})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	users, err := f.svc.Users.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	created, err := f.svc.Users.CreateAll(ctx, []model.CreateUserRequest{
		{Username: "morpheus", Email: "m@example.com", Password: "secret1"},
		{Username: "niobe", Email: "n@example.com", Password: "secret2"},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.False(t, f.cached(cache.UsersAllKey()))

	users, err = f.svc.Users.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestUserUpdate_RenameEvictsOldUsernameViews(t *testing.T) {
	f := newFixture(t)
	s := f.seed(t)
	ctx := context.Background()

	_, err := f.svc.Users.GetByUsername(ctx, "neo")
	require.NoError(t, err)
	_, err = f.svc.Tickets.GetByUserUsername(ctx, "neo")
	require.NoError(t, err)
	_, err = f.svc.Reviews.GetByUserUsername(ctx, "neo")
	require.NoError(t, err)

	updated, err := f.svc.Users.Update(ctx, s.user.ID, model.UpdateUserRequest{Username: "the-one", Email: "one@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "x", updated.PasswordHash)

	assert.False(t, f.cached(cache.UserByUsernameKey("neo")))
	assert.False(t, f.cached(cache.TicketsByUserUsernameKey("neo")))
	assert.False(t, f.cached(cache.ReviewsByUserUsernameKey("neo")))

	_, err = f.svc.Users.GetByUsername(ctx, "neo")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	got, err := f.svc.Users.GetByUsername(ctx, "the-one")
	require.NoError(t, err)
	assert.Equal(t, s.user.ID, got.ID)
}

func TestUserUpdate_NewPasswordIsHashed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.svc.Users.Create(ctx, model.CreateUserRequest{Username: "switch", Email: "s@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = f.svc.Users.Update(ctx, user.ID, model.UpdateUserRequest{Username: "switch", Email: "s@example.com", Password: "secret2"})
	require.NoError(t, err)

	_, err = f.svc.Users.Login(ctx, model.LoginRequest{Username: "switch", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.svc.Users.Login(ctx, model.LoginRequest{Username: "switch", Password: "secret2"})
	assert.NoError(t, err)

	_, err = f.svc.Users.Update(ctx, 999, model.UpdateUserRequest{Username: "ghost", Email: "g@example.com"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserDelete_EvictsTicketAndReviewViews(t *testing.T) {
	f := newFixture(t)
	s := f.seed(t)
	ctx := context.Background()

	review := model.Review{Rating: 6, Content: "fine", MovieID: s.movie.ID, UserID: s.user.ID}
	require.NoError(t, f.svc.Reviews.Save(ctx, &review))
	_, err := f.svc.Tickets.Purchase(ctx, model.PurchaseRequest{
		ShowtimeID: s.showtime.ID, UserID: s.user.ID, SeatNumbers: []string{"1-1"},
	})
	require.NoError(t, err)

	_, err = f.svc.Reviews.GetByMovieID(ctx, s.movie.ID)
	require.NoError(t, err)
	_, err = f.svc.Tickets.GetByShowtimeID(ctx, s.showtime.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Users.Delete(ctx, s.user.ID))

	assert.False(t, f.cached(cache.ReviewsByMovieIDKey(s.movie.ID)))
	assert.False(t, f.cached(cache.TicketsByShowtimeIDKey(s.showtime.ID)))

	reviews, err := f.svc.Reviews.GetByMovieID(ctx, s.movie.ID)
	require.NoError(t, err)
	assert.Empty(t, reviews)
}
