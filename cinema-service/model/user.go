package model

import (
	"time"
)

// ===============================
// Database Entities (Internal)
// ===============================

// User represents a registered customer
type User struct {
	ID           int64  `gorm:"primaryKey"`
	Username     string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Email        string `gorm:"type:varchar(255);not null"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Tickets []Ticket `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Reviews []Review `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (u *User) ToUserResponse() UserResponse {
	return UserResponse{
		UserID:    u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func ToUserResponses(users []User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToUserResponse())
	}
	return out
}

// ===============================
// API DTOs (External)
// ===============================

// CreateUserRequest represents the user registration request from API
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// UpdateUserRequest replaces a user's profile. The password is kept when
// left empty.
type UpdateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"omitempty,min=6"`
}

// LoginRequest represents the user login request
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserResponse represents user data in API responses (without password)
type UserResponse struct {
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginResponse represents the response for user login
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresIn   int          `json:"expires_in"`
	User        UserResponse `json:"user"`
}
