package main

import (
	"net/http"

	"github.com/arunvm123/cinemabooking/cinema-service/model"
	"github.com/arunvm123/cinemabooking/cinema-service/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SeatHandler struct {
	seats  *service.SeatService
	logger *zap.Logger
}

func NewSeatHandler(seats *service.SeatService, logger *zap.Logger) *SeatHandler {
	return &SeatHandler{seats: seats, logger: logger}
}

func (h *SeatHandler) ListSeats(c *gin.Context) {
	seats, err := h.seats.GetAll(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err, "list seats")
		return
	}
	c.JSON(http.StatusOK, model.ToSeatResponses(seats))
}

func (h *SeatHandler) GetSeat(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	seat, err := h.seats.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err, "retrieve seat")
		return
	}
	c.JSON(http.StatusOK, seat.ToSeatResponse())
}

func (h *SeatHandler) ListByTheaterID(c *gin.Context) {
	theaterID, ok := idParam(c, "theaterId")
	if !ok {
		return
	}

	seats, err := h.seats.GetByTheaterID(c.Request.Context(), theaterID)
	if err != nil {
		writeError(c, h.logger, err, "list seats")
		return
	}
	c.JSON(http.StatusOK, model.ToSeatResponses(seats))
}

// ListByTheaterName handles GET /seats/theater?theaterName=
func (h *SeatHandler) ListByTheaterName(c *gin.Context) {
	name, ok := requiredQuery(c, "theaterName")
	if !ok {
		return
	}

	seats, err := h.seats.GetByTheaterName(c.Request.Context(), name)
	if err != nil {
		writeError(c, h.logger, err, "list seats")
		return
	}
	c.JSON(http.StatusOK, model.ToSeatResponses(seats))
}

func (h *SeatHandler) CreateSeat(c *gin.Context) {
	var req model.SeatRequest
	if !bindJSON(c, &req) {
		return
	}

	seat := req.ToSeat()
	if err := h.seats.Save(c.Request.Context(), &seat); err != nil {
		writeError(c, h.logger, err, "create seat")
		return
	}
	c.JSON(http.StatusCreated, seat.ToSeatResponse())
}

func (h *SeatHandler) UpdateSeat(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req model.SeatRequest
	if !bindJSON(c, &req) {
		return
	}

	seat := req.ToSeat()
	seat.ID = id
	if err := h.seats.Save(c.Request.Context(), &seat); err != nil {
		writeError(c, h.logger, err, "update seat")
		return
	}
	c.JSON(http.StatusOK, seat.ToSeatResponse())
}

func (h *SeatHandler) DeleteSeat(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.seats.Delete(c.Request.Context(), id); err != nil {
		writeError(c, h.logger, err, "delete seat")
		return
	}
	c.Status(http.StatusNoContent)
}
