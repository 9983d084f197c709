package main

import (
	"net/http"

	"github.com/arunvm123/cinemabooking/cinema-service/model"
	"github.com/arunvm123/cinemabooking/cinema-service/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ShowtimeHandler struct {
	showtimes *service.ShowtimeService
	logger    *zap.Logger
}

func NewShowtimeHandler(showtimes *service.ShowtimeService, logger *zap.Logger) *ShowtimeHandler {
	return &ShowtimeHandler{showtimes: showtimes, logger: logger}
}

func (h *ShowtimeHandler) ListShowtimes(c *gin.Context) {
	showtimes, err := h.showtimes.GetAll(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err, "list showtimes")
		return
	}
	c.JSON(http.StatusOK, model.ToShowtimeResponses(showtimes))
}

func (h *ShowtimeHandler) GetShowtime(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	showtime, err := h.showtimes.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err, "retrieve showtime")
		return
	}
	c.JSON(http.StatusOK, showtime.ToShowtimeResponse())
}

func (h *ShowtimeHandler) ListByMovieID(c *gin.Context) {
	movieID, ok := idParam(c, "movieId")
	if !ok {
		return
	}

	showtimes, err := h.showtimes.GetByMovieID(c.Request.Context(), movieID)
	if err != nil {
		writeError(c, h.logger, err, "list showtimes")
		return
	}
	c.JSON(http.StatusOK, model.ToShowtimeResponses(showtimes))
}

// ListByMovieTitle handles GET /showtimes/movie?movieTitle=
func (h *ShowtimeHandler) ListByMovieTitle(c *gin.Context) {
	title, ok := requiredQuery(c, "movieTitle")
	if !ok {
		return
	}

	showtimes, err := h.showtimes.GetByMovieTitle(c.Request.Context(), title)
	if err != nil {
		writeError(c, h.logger, err, "list showtimes")
		return
	}
	c.JSON(http.StatusOK, model.ToShowtimeResponses(showtimes))
}

func (h *ShowtimeHandler) ListByTheaterID(c *gin.Context) {
	theaterID, ok := idParam(c, "theaterId")
	if !ok {
		return
	}

	showtimes, err := h.showtimes.GetByTheaterID(c.Request.Context(), theaterID)
	if err != nil {
		writeError(c, h.logger, err, "list showtimes")
		return
	}
	c.JSON(http.StatusOK, model.ToShowtimeResponses(showtimes))
}

// ListByTheaterName handles GET /showtimes/theater?theaterName=
func (h *ShowtimeHandler) ListByTheaterName(c *gin.Context) {
	name, ok := requiredQuery(c, "theaterName")
	if !ok {
		return
	}

	showtimes, err := h.showtimes.GetByTheaterName(c.Request.Context(), name)
	if err != nil {
		writeError(c, h.logger, err, "list showtimes")
		return
	}
	c.JSON(http.StatusOK, model.ToShowtimeResponses(showtimes))
}

func (h *ShowtimeHandler) CreateShowtime(c *gin.Context) {
	var req model.ShowtimeRequest
	if !bindJSON(c, &req) {
		return
	}

	showtime := req.ToShowtime()
	if err := h.showtimes.Save(c.Request.Context(), &showtime); err != nil {
		writeError(c, h.logger, err, "create showtime")
		return
	}
	c.JSON(http.StatusCreated, showtime.ToShowtimeResponse())
}

func (h *ShowtimeHandler) UpdateShowtime(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req model.ShowtimeRequest
	if !bindJSON(c, &req) {
		return
	}

	showtime := req.ToShowtime()
	showtime.ID = id
	if err := h.showtimes.Save(c.Request.Context(), &showtime); err != nil {
		writeError(c, h.logger, err, "update showtime")
		return
	}
	c.JSON(http.StatusOK, showtime.ToShowtimeResponse())
}

func (h *ShowtimeHandler) DeleteShowtime(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.showtimes.Delete(c.Request.Context(), id); err != nil {
		writeError(c, h.logger, err, "delete showtime")
		return
	}
	c.Status(http.StatusNoContent)
}
