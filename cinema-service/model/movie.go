package model

import (
	"time"
)

// ===============================
// Database Entities (Internal)
// ===============================

// Movie represents the movie entity in the database
type Movie struct {
	ID          int64  `gorm:"primaryKey"`
	Title       string `gorm:"type:varchar(255);not null;index"`
	Director    string `gorm:"type:varchar(255);not null"`
	ReleaseYear int    `gorm:"not null"`
	Genre       string `gorm:"type:varchar(100);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Only loaded for the "with reviews" listing
	Reviews   []Review   `gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE"`
	Showtimes []Showtime `gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE"`
}

func (m *Movie) ToMovieResponse() MovieResponse {
	resp := MovieResponse{
		MovieID:     m.ID,
		Title:       m.Title,
		Director:    m.Director,
		ReleaseYear: m.ReleaseYear,
		Genre:       m.Genre,
	}
	if m.Reviews != nil {
		resp.Reviews = ToReviewResponses(m.Reviews)
	}
	return resp
}

func ToMovieResponses(movies []Movie) []MovieResponse {
	out := make([]MovieResponse, 0, len(movies))
	for i := range movies {
		out = append(out, movies[i].ToMovieResponse())
	}
	return out
}

// ===============================
// API DTOs (External)
// ===============================

// MovieRequest is the body for creating or replacing a movie
type MovieRequest struct {
	Title       string `json:"title" binding:"required"`
	Director    string `json:"director" binding:"required"`
	ReleaseYear int    `json:"release_year" binding:"required,min=1888,max=2100"`
	Genre       string `json:"genre" binding:"required"`
}

func (r *MovieRequest) ToMovie() Movie {
	return Movie{
		Title:       r.Title,
		Director:    r.Director,
		ReleaseYear: r.ReleaseYear,
		Genre:       r.Genre,
	}
}

// MovieResponse represents movie data in API responses
type MovieResponse struct {
	MovieID     int64            `json:"movie_id"`
	Title       string           `json:"title"`
	Director    string           `json:"director"`
	ReleaseYear int              `json:"release_year"`
	Genre       string           `json:"genre"`
	Reviews     []ReviewResponse `json:"reviews,omitempty"`
}
