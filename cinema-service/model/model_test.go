package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withNow(t *testing.T, now time.Time) {
	t.Helper()
	prev := Now
	Now = func() time.Time { return now }
	t.Cleanup(func() { Now = prev })
}

func TestValidateShowtimeDateTime(t *testing.T) {
	withNow(t, time.Date(2030, 5, 1, 12, 0, 0, 0, time.Local))

	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"blank", "", true},
		{"future", "02.05.2030 19:30", true},
		{"single digit hour", "02.05.2030 9:30", true},
		{"same minute", "01.05.2030 12:00", true},
		{"past", "30.04.2030 19:30", false},
		{"iso format", "2030-05-02 19:30", false},
		{"missing time", "02.05.2030", false},
		{"garbage", "tomorrow", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateShowtimeDateTime(tt.value))
		})
	}
}

func TestParseSeatLabel(t *testing.T) {
	row, number, err := ParseSeatLabel("3-14")
	require.NoError(t, err)
	assert.Equal(t, 3, row)
	assert.Equal(t, 14, number)

	for _, bad := range []string{"", "3", "A-5", "3-", "-3", "3-4-5"} {
		_, _, err := ParseSeatLabel(bad)
		assert.Error(t, err, bad)
	}

	seat := Seat{SeatRow: 3, Number: 14}
	assert.Equal(t, "3-14", seat.Label())
}

func TestSeatRequest_DefaultsToAvailable(t *testing.T) {
	req := SeatRequest{SeatRow: 1, Number: 2, TheaterID: 3}
	assert.True(t, req.ToSeat().Available)

	unavailable := false
	req.Available = &unavailable
	assert.False(t, req.ToSeat().Available)
}

func TestTicketRequest_DefaultPrice(t *testing.T) {
	req := TicketRequest{ShowtimeID: 1, UserID: 2, SeatID: 3}
	assert.Equal(t, BaseTicketPrice, req.ToTicket().Price)

	price := 150.0
	req.Price = &price
	assert.Equal(t, 150.0, req.ToTicket().Price)
}

func TestMovieResponse_ReviewsOnlyWhenLoaded(t *testing.T) {
	m := Movie{ID: 1, Title: "Inception"}
	assert.Nil(t, m.ToMovieResponse().Reviews)

	m.Reviews = []Review{{ID: 2, Rating: 9, MovieID: 1}}
	resp := m.ToMovieResponse()
	require.Len(t, resp.Reviews, 1)
	assert.Equal(t, int64(2), resp.Reviews[0].ReviewID)
}

func TestGeneratePurchaseConfirmationEmail(t *testing.T) {
	id := uuid.New()
	n := NotificationRequest{
		ID:             id,
		Type:           NotificationTicketsPurchased,
		RecipientEmail: "neo@example.com",
		PurchaseData: NotificationPurchaseData{
			MovieTitle:   "Inception",
			TheaterName:  "Odeon",
			DateTime:     "02.05.2030 19:30",
			ShowtimeType: "IMAX",
			Seats:        []string{"1-1", "1-2"},
			TotalAmount:  600,
			UserName:     "neo",
		},
	}

	email := n.GeneratePurchaseConfirmationEmail()
	assert.Equal(t, "neo@example.com", email.To)
	assert.Equal(t, "Tickets Confirmed - Inception", email.Subject)
	assert.Contains(t, email.Body, "Seats: 1-1, 1-2")
	assert.Contains(t, email.Body, "Amount: 600.00")
	assert.Contains(t, email.Body, id.String())
}
