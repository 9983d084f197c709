package model

import (
	"time"
)

// ===============================
// Database Entities (Internal)
// ===============================

// Showtime is one screening of a movie in a theater. DateTime is kept in the
// ShowtimeLayout format because tickets are looked up by it verbatim.
type Showtime struct {
	ID        int64  `gorm:"primaryKey"`
	DateTime  string `gorm:"type:varchar(32);not null;index"`
	Type      string `gorm:"type:varchar(50);not null"`
	MovieID   int64  `gorm:"not null;index"`
	TheaterID int64  `gorm:"not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Tickets []Ticket `gorm:"foreignKey:ShowtimeID;constraint:OnDelete:CASCADE"`
}

func (s *Showtime) ToShowtimeResponse() ShowtimeResponse {
	return ShowtimeResponse{
		ShowtimeID: s.ID,
		DateTime:   s.DateTime,
		Type:       s.Type,
		MovieID:    s.MovieID,
		TheaterID:  s.TheaterID,
	}
}

func ToShowtimeResponses(showtimes []Showtime) []ShowtimeResponse {
	out := make([]ShowtimeResponse, 0, len(showtimes))
	for i := range showtimes {
		out = append(out, showtimes[i].ToShowtimeResponse())
	}
	return out
}

// ===============================
// API DTOs (External)
// ===============================

// ShowtimeRequest is the body for creating or replacing a showtime
type ShowtimeRequest struct {
	DateTime  string `json:"date_time" binding:"required,showtime_datetime"`
	Type      string `json:"type" binding:"required"`
	MovieID   int64  `json:"movie_id" binding:"required,min=1"`
	TheaterID int64  `json:"theater_id" binding:"required,min=1"`
}

func (r *ShowtimeRequest) ToShowtime() Showtime {
	return Showtime{
		DateTime:  r.DateTime,
		Type:      r.Type,
		MovieID:   r.MovieID,
		TheaterID: r.TheaterID,
	}
}

// ShowtimeResponse represents showtime data in API responses
type ShowtimeResponse struct {
	ShowtimeID int64  `json:"showtime_id"`
	DateTime   string `json:"date_time"`
	Type       string `json:"type"`
	MovieID    int64  `json:"movie_id"`
	TheaterID  int64  `json:"theater_id"`
}
