package main

import (
	"net/http"

	"github.com/arunvm123/cinemabooking/cinema-service/model"
	"github.com/arunvm123/cinemabooking/cinema-service/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	reviews *service.ReviewService
	logger  *zap.Logger
}

func NewReviewHandler(reviews *service.ReviewService, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, logger: logger}
}

func (h *ReviewHandler) ListReviews(c *gin.Context) {
	reviews, err := h.reviews.GetAll(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err, "list reviews")
		return
	}
	c.JSON(http.StatusOK, model.ToReviewResponses(reviews))
}

func (h *ReviewHandler) GetReview(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	review, err := h.reviews.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err, "retrieve review")
		return
	}
	c.JSON(http.StatusOK, review.ToReviewResponse())
}

func (h *ReviewHandler) ListByMovieID(c *gin.Context) {
	movieID, ok := idParam(c, "movieId")
	if !ok {
		return
	}

	reviews, err := h.reviews.GetByMovieID(c.Request.Context(), movieID)
	if err != nil {
		writeError(c, h.logger, err, "list reviews")
		return
	}
	c.JSON(http.StatusOK, model.ToReviewResponses(reviews))
}

// ListByMovieTitle handles GET /reviews/movie?movieTitle=
func (h *ReviewHandler) ListByMovieTitle(c *gin.Context) {
	title, ok := requiredQuery(c, "movieTitle")
	if !ok {
		return
	}

	reviews, err := h.reviews.GetByMovieTitle(c.Request.Context(), title)
	if err != nil {
		writeError(c, h.logger, err, "list reviews")
		return
	}
	c.JSON(http.StatusOK, model.ToReviewResponses(reviews))
}

func (h *ReviewHandler) ListByUserID(c *gin.Context) {
	userID, ok := idParam(c, "userId")
	if !ok {
		return
	}

	reviews, err := h.reviews.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.logger, err, "list reviews")
		return
	}
	c.JSON(http.StatusOK, model.ToReviewResponses(reviews))
}

// ListByUserUsername handles GET /reviews/user?userUsername=
func (h *ReviewHandler) ListByUserUsername(c *gin.Context) {
	username, ok := requiredQuery(c, "userUsername")
	if !ok {
		return
	}

	reviews, err := h.reviews.GetByUserUsername(c.Request.Context(), username)
	if err != nil {
		writeError(c, h.logger, err, "list reviews")
		return
	}
	c.JSON(http.StatusOK, model.ToReviewResponses(reviews))
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req model.ReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review := req.ToReview()
	if err := h.reviews.Save(c.Request.Context(), &review); err != nil {
		writeError(c, h.logger, err, "create review")
		return
	}
	c.JSON(http.StatusCreated, review.ToReviewResponse())
}

func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req model.ReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review := req.ToReview()
	review.ID = id
	if err := h.reviews.Save(c.Request.Context(), &review); err != nil {
		writeError(c, h.logger, err, "update review")
		return
	}
	c.JSON(http.StatusOK, review.ToReviewResponse())
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.reviews.Delete(c.Request.Context(), id); err != nil {
		writeError(c, h.logger, err, "delete review")
		return
	}
	c.Status(http.StatusNoContent)
}
