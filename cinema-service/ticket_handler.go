package main

import (
	"net/http"

	"github.com/arunvm123/cinemabooking/cinema-service/model"
	"github.com/arunvm123/cinemabooking/cinema-service/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TicketHandler struct {
	tickets *service.TicketService
	logger  *zap.Logger
}

func NewTicketHandler(tickets *service.TicketService, logger *zap.Logger) *TicketHandler {
	return &TicketHandler{tickets: tickets, logger: logger}
}

func (h *TicketHandler) ListTickets(c *gin.Context) {
	tickets, err := h.tickets.GetAll(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err, "list tickets")
		return
	}
	c.JSON(http.StatusOK, model.ToTicketResponses(tickets))
}

func (h *TicketHandler) GetTicket(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	ticket, err := h.tickets.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err, "retrieve ticket")
		return
	}
	c.JSON(http.StatusOK, ticket.ToTicketResponse())
}

func (h *TicketHandler) ListByUserID(c *gin.Context) {
	userID, ok := idParam(c, "userId")
	if !ok {
		return
	}

	tickets, err := h.tickets.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.logger, err, "list tickets")
		return
	}
	c.JSON(http.StatusOK, model.ToTicketResponses(tickets))
}

// ListByUserUsername handles GET /tickets/user?userUsername=
func (h *TicketHandler) ListByUserUsername(c *gin.Context) {
	username, ok := requiredQuery(c, "userUsername")
	if !ok {
		return
	}

	tickets, err := h.tickets.GetByUserUsername(c.Request.Context(), username)
	if err != nil {
		writeError(c, h.logger, err, "list tickets")
		return
	}
	c.JSON(http.StatusOK, model.ToTicketResponses(tickets))
}

func (h *TicketHandler) ListByShowtimeID(c *gin.Context) {
	showtimeID, ok := idParam(c, "showtimeId")
	if !ok {
		return
	}

	tickets, err := h.tickets.GetByShowtimeID(c.Request.Context(), showtimeID)
	if err != nil {
		writeError(c, h.logger, err, "list tickets")
		return
	}
	c.JSON(http.StatusOK, model.ToTicketResponses(tickets))
}

// ListByShowtimeDateTime handles GET /tickets/showtime_datetime?showtimeDateTime=
func (h *TicketHandler) ListByShowtimeDateTime(c *gin.Context) {
	dateTime, ok := requiredQuery(c, "showtimeDateTime")
	if !ok {
		return
	}

	tickets, err := h.tickets.GetByShowtimeDateTime(c.Request.Context(), dateTime)
	if err != nil {
		writeError(c, h.logger, err, "list tickets")
		return
	}
	c.JSON(http.StatusOK, model.ToTicketResponses(tickets))
}

func (h *TicketHandler) ListBySeatID(c *gin.Context) {
	seatID, ok := idParam(c, "seatId")
	if !ok {
		return
	}

	tickets, err := h.tickets.GetBySeatID(c.Request.Context(), seatID)
	if err != nil {
		writeError(c, h.logger, err, "list tickets")
		return
	}
	c.JSON(http.StatusOK, model.ToTicketResponses(tickets))
}

// GetByShowtimeAndSeat handles GET /tickets/showtime/:showtimeId/seat/:seatNumber
func (h *TicketHandler) GetByShowtimeAndSeat(c *gin.Context) {
	showtimeID, ok := idParam(c, "showtimeId")
	if !ok {
		return
	}

	ticket, err := h.tickets.GetByShowtimeAndSeatNumber(c.Request.Context(), showtimeID, c.Param("seatNumber"))
	if err != nil {
		writeError(c, h.logger, err, "retrieve ticket")
		return
	}
	c.JSON(http.StatusOK, ticket.ToTicketResponse())
}

func (h *TicketHandler) CreateTicket(c *gin.Context) {
	var req model.TicketRequest
	if !bindJSON(c, &req) {
		return
	}

	ticket := req.ToTicket()
	if err := h.tickets.Save(c.Request.Context(), &ticket); err != nil {
		writeError(c, h.logger, err, "create ticket")
		return
	}
	c.JSON(http.StatusCreated, ticket.ToTicketResponse())
}

func (h *TicketHandler) UpdateTicket(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req model.TicketRequest
	if !bindJSON(c, &req) {
		return
	}

	ticket := req.ToTicket()
	ticket.ID = id
	if err := h.tickets.Save(c.Request.Context(), &ticket); err != nil {
		writeError(c, h.logger, err, "update ticket")
		return
	}
	c.JSON(http.StatusOK, ticket.ToTicketResponse())
}

func (h *TicketHandler) DeleteTicket(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.tickets.Delete(c.Request.Context(), id); err != nil {
		writeError(c, h.logger, err, "delete ticket")
		return
	}
	c.Status(http.StatusNoContent)
}

// PurchaseTickets handles buying several seats for the authenticated user
func (h *TicketHandler) PurchaseTickets(c *gin.Context) {
	var req model.PurchaseRequest
	if !bindJSON(c, &req) {
		return
	}

	// Get user ID from JWT token (set by auth middleware)
	if userID := c.GetInt64("user_id"); userID != req.UserID {
		c.JSON(http.StatusForbidden, model.ErrorResponse{
			Error:   "forbidden",
			Message: "Tickets can only be purchased for the authenticated user",
		})
		return
	}

	tickets, err := h.tickets.Purchase(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err, "purchase tickets")
		return
	}

	var total float64
	for _, t := range tickets {
		total += t.Price
	}
	c.JSON(http.StatusCreated, model.PurchaseResponse{
		Tickets:    model.ToTicketResponses(tickets),
		TotalPrice: total,
	})
}
