package model

import (
	"time"
)

// ===============================
// Database Entities (Internal)
// ===============================

// Theater represents a screening room
type Theater struct {
	ID        int64  `gorm:"primaryKey"`
	Name      string `gorm:"type:varchar(255);not null;uniqueIndex"`
	Capacity  int    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Seats     []Seat     `gorm:"foreignKey:TheaterID;constraint:OnDelete:CASCADE"`
	Showtimes []Showtime `gorm:"foreignKey:TheaterID;constraint:OnDelete:CASCADE"`
}

func (t *Theater) ToTheaterResponse() TheaterResponse {
	return TheaterResponse{
		TheaterID: t.ID,
		Name:      t.Name,
		Capacity:  t.Capacity,
	}
}

func ToTheaterResponses(theaters []Theater) []TheaterResponse {
	out := make([]TheaterResponse, 0, len(theaters))
	for i := range theaters {
		out = append(out, theaters[i].ToTheaterResponse())
	}
	return out
}

// ===============================
// API DTOs (External)
// ===============================

// TheaterRequest is the body for creating or replacing a theater
type TheaterRequest struct {
	Name     string `json:"name" binding:"required"`
	Capacity int    `json:"capacity" binding:"required,min=1"`
}

func (r *TheaterRequest) ToTheater() Theater {
	return Theater{
		Name:     r.Name,
		Capacity: r.Capacity,
	}
}

// TheaterResponse represents theater data in API responses
type TheaterResponse struct {
	TheaterID int64  `json:"theater_id"`
	Name      string `json:"name"`
	Capacity  int    `json:"capacity"`
}
