package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// API DATA TRANSFER OBJECTS (External - JSON tags for HTTP)
// ============================================================================

// ErrorResponse represents error response structure
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status       string    `json:"status"`
	Service      string    `json:"service"`
	Timestamp    time.Time `json:"timestamp"`
	CacheEntries int       `json:"cache_entries"`
}

// VisitCountResponse reports how often a URL has been requested
type VisitCountResponse struct {
	URL   string `json:"url"`
	Count int64  `json:"count"`
}

// ============================================================================
// KAFKA MESSAGE STRUCTURES
// ============================================================================

const NotificationTicketsPurchased = "tickets_purchased"

// NotificationRequest represents the message sent to the notification topic
type NotificationRequest struct {
	ID             uuid.UUID                `json:"id"`
	Type           string                   `json:"type"`
	RecipientEmail string                   `json:"recipient_email"`
	PurchaseData   NotificationPurchaseData `json:"purchase_data"`
	Timestamp      time.Time                `json:"timestamp"`
}

// NotificationPurchaseData represents purchase data for notifications
type NotificationPurchaseData struct {
	ShowtimeID   int64    `json:"showtime_id"`
	MovieTitle   string   `json:"movie_title"`
	TheaterName  string   `json:"theater_name"`
	DateTime     string   `json:"date_time"`
	Seats        []string `json:"seats"`
	TicketIDs    []int64  `json:"ticket_ids"`
	TotalAmount  float64  `json:"total_amount"`
	UserName     string   `json:"user_name"`
	ShowtimeType string   `json:"showtime_type"`
}

// EmailTemplate represents an email to be sent (logged by the worker)
type EmailTemplate struct {
	To      string
	Subject string
	Body    string
}

// GeneratePurchaseConfirmationEmail renders the confirmation sent after a purchase
func (nr *NotificationRequest) GeneratePurchaseConfirmationEmail() *EmailTemplate {
	d := nr.PurchaseData
	subject := "Tickets Confirmed - " + d.MovieTitle

	var b strings.Builder
	b.WriteString("Dear " + d.UserName + ",\n\n")
	b.WriteString("Your tickets are confirmed!\n\n")
	b.WriteString("Movie: " + d.MovieTitle + "\n")
	b.WriteString("Theater: " + d.TheaterName + "\n")
	b.WriteString("Showtime: " + d.DateTime + " (" + d.ShowtimeType + ")\n")
	b.WriteString("Seats: " + strings.Join(d.Seats, ", ") + "\n")
	b.WriteString(fmt.Sprintf("Amount: %.2f\n", d.TotalAmount))
	b.WriteString("Reference: " + nr.ID.String() + "\n\n")
	b.WriteString("Enjoy the show!\n\n")
	b.WriteString("Cinema Booking")

	return &EmailTemplate{
		To:      nr.RecipientEmail,
		Subject: subject,
		Body:    b.String(),
	}
}
