package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/arunvm123/cinemabooking/cinema-service/counter"
	"github.com/arunvm123/cinemabooking/cinema-service/model"
	"github.com/arunvm123/cinemabooking/cinema-service/repository"
	"github.com/arunvm123/cinemabooking/cinema-service/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// idParam parses a positive numeric path parameter, answering 400 otherwise.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid " + name + " format",
		})
		return 0, false
	}
	return id, true
}

// requiredQuery reads a query parameter that must not be empty.
func requiredQuery(c *gin.Context, name string) (string, bool) {
	value := c.Query(name)
	if value == "" {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "validation_failed",
			Message: name + " query parameter is required",
		})
		return "", false
	}
	return value, true
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
		})
		return false
	}
	return true
}

// writeError maps service errors onto the API's error responses. action
// completes "Failed to ..." for unexpected errors.
func writeError(c *gin.Context, logger *zap.Logger, err error, action string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, model.ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	case errors.Is(err, service.ErrSeatTaken):
		c.JSON(http.StatusConflict, model.ErrorResponse{
			Error:   "seat_taken",
			Message: err.Error(),
		})
	case errors.Is(err, repository.ErrDuplicate):
		c.JSON(http.StatusConflict, model.ErrorResponse{
			Error:   "conflict",
			Message: err.Error(),
		})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
		})
	default:
		_ = c.Error(err)
		logger.Error("request failed",
			zap.String("action", action),
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to " + action,
		})
	}
}

// ===============================
// System
// ===============================

// CacheStats is the part of the object cache the health check reports.
type CacheStats interface {
	Len() int
}

type SystemHandler struct {
	ping   func(ctx context.Context) error
	visits counter.VisitCounter
	cache  CacheStats
	logger *zap.Logger
}

func NewSystemHandler(ping func(ctx context.Context) error, visits counter.VisitCounter, cache CacheStats, logger *zap.Logger) *SystemHandler {
	return &SystemHandler{
		ping:   ping,
		visits: visits,
		cache:  cache,
		logger: logger,
	}
}

// HealthCheck handles health check endpoint
func (h *SystemHandler) HealthCheck(c *gin.Context) {
	if err := h.ping(c.Request.Context()); err != nil {
		h.logger.Warn("database ping failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{
			Error:   "service_unavailable",
			Message: "Database ping failed",
		})
		return
	}

	response := model.HealthResponse{
		Status:       "healthy",
		Service:      "cinema-service",
		Timestamp:    time.Now(),
		CacheEntries: h.cache.Len(),
	}

	c.JSON(http.StatusOK, response)
}

// VisitCount reports how often a URL path has been requested
func (h *SystemHandler) VisitCount(c *gin.Context) {
	url, ok := requiredQuery(c, "url")
	if !ok {
		return
	}

	count, err := h.visits.Count(c.Request.Context(), url)
	if err != nil {
		writeError(c, h.logger, err, "get visit count")
		return
	}

	c.JSON(http.StatusOK, model.VisitCountResponse{URL: url, Count: count})
}
