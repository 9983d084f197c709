package main

import (
	"net/http"

	"github.com/arunvm123/cinemabooking/cinema-service/model"
	"github.com/arunvm123/cinemabooking/cinema-service/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MovieHandler struct {
	movies *service.MovieService
	logger *zap.Logger
}

func NewMovieHandler(movies *service.MovieService, logger *zap.Logger) *MovieHandler {
	return &MovieHandler{movies: movies, logger: logger}
}

// ListMovies handles listing every movie
func (h *MovieHandler) ListMovies(c *gin.Context) {
	movies, err := h.movies.GetAll(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err, "list movies")
		return
	}
	c.JSON(http.StatusOK, model.ToMovieResponses(movies))
}

// ListMoviesWithReviews handles listing every movie with its reviews
func (h *MovieHandler) ListMoviesWithReviews(c *gin.Context) {
	movies, err := h.movies.GetAllWithReviews(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err, "list movies")
		return
	}
	c.JSON(http.StatusOK, model.ToMovieResponses(movies))
}

// GetMovie handles retrieving a single movie by ID
func (h *MovieHandler) GetMovie(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	movie, err := h.movies.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err, "retrieve movie")
		return
	}
	c.JSON(http.StatusOK, movie.ToMovieResponse())
}

// CreateMovie handles movie creation
func (h *MovieHandler) CreateMovie(c *gin.Context) {
	var req model.MovieRequest
	if !bindJSON(c, &req) {
		return
	}

	movie := req.ToMovie()
	if err := h.movies.Save(c.Request.Context(), &movie); err != nil {
		writeError(c, h.logger, err, "create movie")
		return
	}
	c.JSON(http.StatusCreated, movie.ToMovieResponse())
}

// UpdateMovie handles replacing a movie
func (h *MovieHandler) UpdateMovie(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req model.MovieRequest
	if !bindJSON(c, &req) {
		return
	}

	movie := req.ToMovie()
	movie.ID = id
	if err := h.movies.Save(c.Request.Context(), &movie); err != nil {
		writeError(c, h.logger, err, "update movie")
		return
	}
	c.JSON(http.StatusOK, movie.ToMovieResponse())
}

// DeleteMovie handles deleting a movie with everything that depends on it
func (h *MovieHandler) DeleteMovie(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.movies.Delete(c.Request.Context(), id); err != nil {
		writeError(c, h.logger, err, "delete movie")
		return
	}
	c.Status(http.StatusNoContent)
}
