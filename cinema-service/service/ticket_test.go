package service

import (
	"context"
	"errors"
	"testing"

	"github.com/arunvm123/cinemabooking/cinema-service/cache"
	"github.com/arunvm123/cinemabooking/cinema-service/model"
	"github.com/arunvm123/cinemabooking/cinema-service/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchase_CreatesTicketsAndNotifies(t *testing.T) {
	f := newFixture(t)
	s := f.seed(t)
	ctx := context.Background()

	_, err := f.svc.Tickets.GetByShowtimeID(ctx, s.showtime.ID)
	require.NoError(t, err)
	_, err = f.svc.Tickets.GetByShowtimeDateTime(ctx, s.showtime.DateTime)
	require.NoError(t, err)
	_, err = f.svc.Tickets.GetByUserID(ctx, s.user.ID)
	require.NoError(t, err)
	_, err = f.svc.Tickets.GetBySeatID(ctx, s.seats[0].ID)
	require.NoError(t, err)
	_, err = f.svc.Showtimes.GetByID(ctx, s.showtime.ID)
	require.NoError(t, err)

	tickets, err := f.svc.Tickets.Purchase(ctx, model.PurchaseRequest{
		ShowtimeID:  s.showtime.ID,
		UserID:      s.user.ID,
		SeatNumbers: []string{"1-1", "2-2"},
	})
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	for _, ticket := range tickets {
		assert.NotZero(t, ticket.ID)
		assert.Equal(t, model.BaseTicketPrice, ticket.Price)
		assert.Equal(t, s.showtime.ID, ticket.ShowtimeID)
	}
	assert.Equal(t, "1-1", tickets[0].SeatNumber)
	assert.Equal(t, s.seats[0].ID, tickets[0].SeatID)
	assert.Equal(t, s.seats[3].ID, tickets[1].SeatID)

	assert.False(t, f.cached(cache.TicketsByShowtimeIDKey(s.showtime.ID)))
	assert.False(t, f.cached(cache.TicketsByShowtimeDateTimeKey(s.showtime.DateTime)))
	assert.False(t, f.cached(cache.TicketsByUserIDKey(s.user.ID)))
	assert.False(t, f.cached(cache.TicketsBySeatIDKey(s.seats[0].ID)))
	assert.False(t, f.cached(cache.ShowtimeKey(s.showtime.ID)))

	byShowtime, err := f.svc.Tickets.GetByShowtimeID(ctx, s.showtime.ID)
	require.NoError(t, err)
	assert.Len(t, byShowtime, 2)

	require.Len(t, f.notifier.sent, 1)
	sent := f.notifier.sent[0]
	assert.Equal(t, model.NotificationTicketsPurchased, sent.Type)
	assert.Equal(t, "neo@example.com", sent.RecipientEmail)
	assert.Equal(t, "Inception", sent.PurchaseData.MovieTitle)
	assert.Equal(t, "Odeon", sent.PurchaseData.TheaterName)
	assert.Equal(t, []string{"1-1", "2-2"}, sent.PurchaseData.Seats)
	assert.Equal(t, 600.0, sent.PurchaseData.TotalAmount)
	assert.Len(t, sent.PurchaseData.TicketIDs, 2)
}

func TestPurchase_OccupiedSeatRejectsWholeRequest(t *testing.T) {
	f := newFixture(t)
	s := f.seed(t)
	ctx := context.Background()

	_, err := f.svc.Tickets.Purchase(ctx, model.PurchaseRequest{
		ShowtimeID: s.showtime.ID, UserID: s.user.ID, SeatNumbers: []string{"1-2"},
	})
	require.NoError(t, err)

	_, err = f.svc.Tickets.Purchase(ctx, model.PurchaseRequest{
		ShowtimeID: s.showtime.ID, UserID: s.user.ID, SeatNumbers: []string{"1-1", "1-2"},
	})
	assert.ErrorIs(t, err, ErrSeatTaken)

	tickets, err := f.repos.Tickets.FindByShowtimeID(ctx, s.showtime.ID)
	require.NoError(t, err)
	assert.Len(t, tickets, 1)
	assert.Len(t, f.notifier.sent, 1)
}

func TestPurchase_RejectsBadRequests(t *testing.T) {
	f := newFixture(t)
	s := f.seed(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  model.PurchaseRequest
		want error
	}{
		{"no seats", model.PurchaseRequest{ShowtimeID: s.showtime.ID, UserID: s.user.ID}, ErrInvalidInput},
		{"bad label", model.PurchaseRequest{ShowtimeID: s.showtime.ID, UserID: s.user.ID, SeatNumbers: []string{"A1"}}, ErrInvalidInput},
		{"same seat twice", model.PurchaseRequest{ShowtimeID: s.showtime.ID, UserID: s.user.ID, SeatNumbers: []string{"1-1", "01-1"}}, ErrInvalidInput},
		{"unknown seat", model.PurchaseRequest{ShowtimeID: s.showtime.ID, UserID: s.user.ID, SeatNumbers: []string{"9-9"}}, repository.ErrNotFound},
		{"unknown showtime", model.PurchaseRequest{ShowtimeID: 999, UserID: s.user.ID, SeatNumbers: []string{"1-1"}}, repository.ErrNotFound},
		{"unknown user", model.PurchaseRequest{ShowtimeID: s.showtime.ID, UserID: 999, SeatNumbers: []string{"1-1"}}, repository.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Tickets.Purchase(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	tickets, err := f.repos.Tickets.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, tickets)
	assert.Empty(t, f.notifier.sent)
}

func TestPurchase_UnavailableSeat(t *testing.T) {
	f := newFixture(t)
	s := f.seed(t)
	ctx := context.Background()

	seat := s.seats[1]
	seat.Available = false
	require.NoError(t, f.svc.Seats.Save(ctx, &seat))

	_, err := f.svc.Tickets.Purchase(ctx, model.PurchaseRequest{
		ShowtimeID: s.showtime.ID, UserID: s.user.ID, SeatNumbers: []string{seat.Label()},
	})
	assert.ErrorIs(t, err, ErrSeatTaken)
}

func TestPurchase_NotifierFailureKeepsTickets(t *testing.T) {
	f := newFixture(t)
	s := f.seed(t)
	f.notifier.err = errors.New("broker down")

	tickets, err := f.svc.Tickets.Purchase(context.Background(), model.PurchaseRequest{
		ShowtimeID: s.showtime.ID, UserID: s.user.ID, SeatNumbers: []string{"2-1"},
	})
	require.NoError(t, err)
	assert.Len(t, tickets, 1)
}

func TestGetByShowtimeAndSeatNumber(t *testing.T) {
	f := newFixture(t)
	s := f.seed(t)
	ctx := context.Background()

	_, err := f.svc.Tickets.GetByShowtimeAndSeatNumber(ctx, s.showtime.ID, "1-1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	tickets, err := f.svc.Tickets.Purchase(ctx, model.PurchaseRequest{
		ShowtimeID: s.showtime.ID, UserID: s.user.ID, SeatNumbers: []string{"1-1"},
	})
	require.NoError(t, err)

	got, err := f.svc.Tickets.GetByShowtimeAndSeatNumber(ctx, s.showtime.ID, "1-1")
	require.NoError(t, err)
	assert.Equal(t, tickets[0].ID, got.ID)
	assert.True(t, f.cached(cache.TicketByShowtimeSeatKey(s.showtime.ID, "1-1")))

	require.NoError(t, f.svc.Tickets.Delete(ctx, got.ID))
	assert.False(t, f.cached(cache.TicketByShowtimeSeatKey(s.showtime.ID, "1-1")))

	_, err = f.svc.Tickets.GetByShowtimeAndSeatNumber(ctx, s.showtime.ID, "1-1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTicketSave_UsesSeatLabelAndRejectsTakenSeat(t *testing.T) {
	f := newFixture(t)
	s := f.seed(t)
	ctx := context.Background()

	ticket := model.Ticket{Price: 250, ShowtimeID: s.showtime.ID, UserID: s.user.ID, SeatID: s.seats[2].ID}
	require.NoError(t, f.svc.Tickets.Save(ctx, &ticket))
	assert.Equal(t, "2-1", ticket.SeatNumber)

	again := model.Ticket{Price: 250, ShowtimeID: s.showtime.ID, UserID: s.user.ID, SeatID: s.seats[2].ID}
	assert.ErrorIs(t, f.svc.Tickets.Save(ctx, &again), ErrSeatTaken)

	_, err := f.svc.Tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)

	ticket.SeatID = s.seats[3].ID
	require.NoError(t, f.svc.Tickets.Save(ctx, &ticket))
	assert.Equal(t, "2-2", ticket.SeatNumber)
	assert.False(t, f.cached(cache.TicketKey(ticket.ID)))

	missing := model.Ticket{ShowtimeID: s.showtime.ID, UserID: s.user.ID, SeatID: 999}
	assert.ErrorIs(t, f.svc.Tickets.Save(ctx, &missing), repository.ErrNotFound)
}

func TestPurchase_SeatSoldOnceEvenUnderNewLabel(t *testing.T) {
	f := newFixture(t)
	s := f.seed(t)
	ctx := context.Background()

	_, err := f.svc.Tickets.Purchase(ctx, model.PurchaseRequest{
		ShowtimeID: s.showtime.ID, UserID: s.user.ID, SeatNumbers: []string{"1-1"},
	})
	require.NoError(t, err)

	// the store allows it, so occupancy must not rely on the label
	seat := s.seats[0]
	seat.SeatRow, seat.Number = 5, 5
	require.NoError(t, f.repos.Seats.Save(ctx, &seat))

	_, err = f.svc.Tickets.Purchase(ctx, model.PurchaseRequest{
		ShowtimeID: s.showtime.ID, UserID: s.user.ID, SeatNumbers: []string{"5-5"},
	})
	assert.ErrorIs(t, err, ErrSeatTaken)

	tickets, err := f.repos.Tickets.FindBySeatID(ctx, seat.ID)
	require.NoError(t, err)
	assert.Len(t, tickets, 1)
}

func TestSeatSave_SeatWithTicketsCannotMove(t *testing.T) {
	f := newFixture(t)
	s := f.seed(t)
	ctx := context.Background()

	_, err := f.svc.Tickets.Purchase(ctx, model.PurchaseRequest{
		ShowtimeID: s.showtime.ID, UserID: s.user.ID, SeatNumbers: []string{"1-1"},
	})
	require.NoError(t, err)

	seat := s.seats[0]
	seat.SeatRow, seat.Number = 5, 5
	assert.ErrorIs(t, f.svc.Seats.Save(ctx, &seat), ErrSeatTaken)

	stored, err := f.repos.Seats.FindByID(ctx, seat.ID)
	require.NoError(t, err)
	assert.Equal(t, "1-1", stored.Label())

	// other fields may still change
	seat = s.seats[0]
	seat.Available = false
	require.NoError(t, f.svc.Seats.Save(ctx, &seat))

	// a seat without tickets may move
	free := s.seats[1]
	free.SeatRow, free.Number = 5, 5
	require.NoError(t, f.svc.Seats.Save(ctx, &free))
}

func TestTicketSave_SeatMustBelongToShowtimeTheater(t *testing.T) {
	f := newFixture(t)
	s := f.seed(t)
	ctx := context.Background()

	rex := model.Theater{Name: "Rex", Capacity: 1}
	require.NoError(t, f.repos.Theaters.Save(ctx, &rex))
	elsewhere := model.Seat{SeatRow: 1, Number: 1, Available: true, TheaterID: rex.ID}
	require.NoError(t, f.repos.Seats.Save(ctx, &elsewhere))

	ticket := model.Ticket{Price: 250, ShowtimeID: s.showtime.ID, UserID: s.user.ID, SeatID: elsewhere.ID}
	assert.ErrorIs(t, f.svc.Tickets.Save(ctx, &ticket), ErrInvalidInput)

	tickets, err := f.repos.Tickets.FindByShowtimeID(ctx, s.showtime.ID)
	require.NoError(t, err)
	assert.Empty(t, tickets)
}
