package model

import (
	"time"
)

// ===============================
// Database Entities (Internal)
// ===============================

// Review represents a user's review of a movie
type Review struct {
	ID        int64  `gorm:"primaryKey"`
	Rating    int    `gorm:"not null"`
	Content   string `gorm:"type:text;not null"`
	MovieID   int64  `gorm:"not null;index"`
	UserID    int64  `gorm:"not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r *Review) ToReviewResponse() ReviewResponse {
	return ReviewResponse{
		ReviewID:  r.ID,
		Rating:    r.Rating,
		Content:   r.Content,
		MovieID:   r.MovieID,
		UserID:    r.UserID,
		CreatedAt: r.CreatedAt,
	}
}

func ToReviewResponses(reviews []Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, reviews[i].ToReviewResponse())
	}
	return out
}

// ===============================
// API DTOs (External)
// ===============================

// ReviewRequest is the body for creating or replacing a review
type ReviewRequest struct {
	Content string `json:"content" binding:"required"`
	Rating  int    `json:"rating" binding:"required,min=1,max=10"`
	MovieID int64  `json:"movie_id" binding:"required,min=1"`
	UserID  int64  `json:"user_id" binding:"required,min=1"`
}

func (r *ReviewRequest) ToReview() Review {
	return Review{
		Content: r.Content,
		Rating:  r.Rating,
		MovieID: r.MovieID,
		UserID:  r.UserID,
	}
}

// ReviewResponse represents review data in API responses
type ReviewResponse struct {
	ReviewID  int64     `json:"review_id"`
	Rating    int       `json:"rating"`
	Content   string    `json:"content"`
	MovieID   int64     `json:"movie_id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
