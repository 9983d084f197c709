package main

import (
	"net/http"

	"github.com/arunvm123/cinemabooking/cinema-service/model"
	"github.com/arunvm123/cinemabooking/cinema-service/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TheaterHandler struct {
	theaters *service.TheaterService
	logger   *zap.Logger
}

func NewTheaterHandler(theaters *service.TheaterService, logger *zap.Logger) *TheaterHandler {
	return &TheaterHandler{theaters: theaters, logger: logger}
}

func (h *TheaterHandler) ListTheaters(c *gin.Context) {
	theaters, err := h.theaters.GetAll(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err, "list theaters")
		return
	}
	c.JSON(http.StatusOK, model.ToTheaterResponses(theaters))
}

func (h *TheaterHandler) GetTheater(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	theater, err := h.theaters.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err, "retrieve theater")
		return
	}
	c.JSON(http.StatusOK, theater.ToTheaterResponse())
}

func (h *TheaterHandler) CreateTheater(c *gin.Context) {
	var req model.TheaterRequest
	if !bindJSON(c, &req) {
		return
	}

	theater := req.ToTheater()
	if err := h.theaters.Save(c.Request.Context(), &theater); err != nil {
		writeError(c, h.logger, err, "create theater")
		return
	}
	c.JSON(http.StatusCreated, theater.ToTheaterResponse())
}

func (h *TheaterHandler) UpdateTheater(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req model.TheaterRequest
	if !bindJSON(c, &req) {
		return
	}

	theater := req.ToTheater()
	theater.ID = id
	if err := h.theaters.Save(c.Request.Context(), &theater); err != nil {
		writeError(c, h.logger, err, "update theater")
		return
	}
	c.JSON(http.StatusOK, theater.ToTheaterResponse())
}

func (h *TheaterHandler) DeleteTheater(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.theaters.Delete(c.Request.Context(), id); err != nil {
		writeError(c, h.logger, err, "delete theater")
		return
	}
	c.Status(http.StatusNoContent)
}
