package model

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ===============================
// Database Entities (Internal)
// ===============================

// Seat represents a physical seat in a theater
type Seat struct {
	ID        int64 `gorm:"primaryKey"`
	SeatRow   int   `gorm:"not null;uniqueIndex:idx_seat_position"`
	Number    int   `gorm:"not null;uniqueIndex:idx_seat_position"`
	Available bool  `gorm:"not null;default:true"`
	TheaterID int64 `gorm:"not null;index;uniqueIndex:idx_seat_position"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Tickets []Ticket `gorm:"foreignKey:SeatID;constraint:OnDelete:CASCADE"`
}

// Label returns the seat in "row-number" form, as used on tickets.
func (s *Seat) Label() string {
	return SeatLabel(s.SeatRow, s.Number)
}

func (s *Seat) ToSeatResponse() SeatResponse {
	return SeatResponse{
		SeatID:    s.ID,
		SeatRow:   s.SeatRow,
		Number:    s.Number,
		Label:     s.Label(),
		Available: s.Available,
		TheaterID: s.TheaterID,
	}
}

func ToSeatResponses(seats []Seat) []SeatResponse {
	out := make([]SeatResponse, 0, len(seats))
	for i := range seats {
		out = append(out, seats[i].ToSeatResponse())
	}
	return out
}

var seatLabelPattern = regexp.MustCompile(`^(\d+)-(\d+)$`)

func SeatLabel(row, number int) string {
	return fmt.Sprintf("%d-%d", row, number)
}

// ParseSeatLabel splits a "row-number" label.
func ParseSeatLabel(label string) (row, number int, err error) {
	m := seatLabelPattern.FindStringSubmatch(label)
	if m == nil {
		return 0, 0, fmt.Errorf("invalid seat number format: %q", label)
	}
	if row, err = strconv.Atoi(m[1]); err != nil {
		return 0, 0, fmt.Errorf("invalid seat row in %q: %w", label, err)
	}
	if number, err = strconv.Atoi(m[2]); err != nil {
		return 0, 0, fmt.Errorf("invalid seat number in %q: %w", label, err)
	}
	return row, number, nil
}

// ===============================
// API DTOs (External)
// ===============================

// SeatRequest is the body for creating or replacing a seat. Available
// defaults to true when omitted.
type SeatRequest struct {
	SeatRow   int   `json:"seat_row" binding:"required,min=1"`
	Number    int   `json:"number" binding:"required,min=1"`
	Available *bool `json:"available"`
	TheaterID int64 `json:"theater_id" binding:"required,min=1"`
}

func (r *SeatRequest) ToSeat() Seat {
	available := true
	if r.Available != nil {
		available = *r.Available
	}
	return Seat{
		SeatRow:   r.SeatRow,
		Number:    r.Number,
		Available: available,
		TheaterID: r.TheaterID,
	}
}

// SeatResponse represents seat data in API responses
type SeatResponse struct {
	SeatID    int64  `json:"seat_id"`
	SeatRow   int    `json:"seat_row"`
	Number    int    `json:"number"`
	Label     string `json:"label"`
	Available bool   `json:"available"`
	TheaterID int64  `json:"theater_id"`
}
