package model

import (
	"time"
)

// BaseTicketPrice is charged for every seat bought through a purchase.
const BaseTicketPrice = 300.0

// ===============================
// Database Entities (Internal)
// ===============================

// Ticket is one sold seat for one showtime. A seat is sold at most once per
// showtime. SeatNumber holds the seat label ("row-number").
type Ticket struct {
	ID         int64   `gorm:"primaryKey"`
	SeatNumber string  `gorm:"type:varchar(20);not null;uniqueIndex:idx_ticket_showtime_label"`
	Price      float64 `gorm:"type:decimal(10,2);not null"`
	ShowtimeID int64   `gorm:"not null;index;uniqueIndex:idx_ticket_showtime_seat_id;uniqueIndex:idx_ticket_showtime_label"`
	UserID     int64   `gorm:"not null;index"`
	SeatID     int64   `gorm:"not null;index;uniqueIndex:idx_ticket_showtime_seat_id"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (t *Ticket) ToTicketResponse() TicketResponse {
	return TicketResponse{
		TicketID:   t.ID,
		SeatNumber: t.SeatNumber,
		Price:      t.Price,
		ShowtimeID: t.ShowtimeID,
		UserID:     t.UserID,
		SeatID:     t.SeatID,
		CreatedAt:  t.CreatedAt,
	}
}

func ToTicketResponses(tickets []Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, tickets[i].ToTicketResponse())
	}
	return out
}

// ===============================
// API DTOs (External)
// ===============================

// TicketRequest is the body for creating or replacing a single ticket.
// A missing price falls back to BaseTicketPrice.
type TicketRequest struct {
	Price      *float64 `json:"price" binding:"omitempty,min=0"`
	ShowtimeID int64    `json:"showtime_id" binding:"required,min=1"`
	UserID     int64    `json:"user_id" binding:"required,min=1"`
	SeatID     int64    `json:"seat_id" binding:"required,min=1"`
}

func (r *TicketRequest) ToTicket() Ticket {
	price := BaseTicketPrice
	if r.Price != nil {
		price = *r.Price
	}
	return Ticket{
		Price:      price,
		ShowtimeID: r.ShowtimeID,
		UserID:     r.UserID,
		SeatID:     r.SeatID,
	}
}

// PurchaseRequest buys several seats of one showtime at once
type PurchaseRequest struct {
	ShowtimeID  int64    `json:"showtime_id" binding:"required,min=1"`
	UserID      int64    `json:"user_id" binding:"required,min=1"`
	SeatNumbers []string `json:"seat_numbers" binding:"required,min=1,dive,required"`
}

// TicketResponse represents ticket data in API responses
type TicketResponse struct {
	TicketID   int64     `json:"ticket_id"`
	SeatNumber string    `json:"seat_number"`
	Price      float64   `json:"price"`
	ShowtimeID int64     `json:"showtime_id"`
	UserID     int64     `json:"user_id"`
	SeatID     int64     `json:"seat_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// PurchaseResponse represents the outcome of a purchase
type PurchaseResponse struct {
	Tickets    []TicketResponse `json:"tickets"`
	TotalPrice float64          `json:"total_price"`
}
