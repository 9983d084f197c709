package main

import (
	"errors"
	"net/http"

	"github.com/arunvm123/cinemabooking/cinema-service/model"
	"github.com/arunvm123/cinemabooking/cinema-service/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	users      *service.UserService
	tickets    *service.TicketService
	jwtService *JWTService
	logger     *zap.Logger
}

func NewUserHandler(users *service.UserService, tickets *service.TicketService, jwtService *JWTService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		users:      users,
		tickets:    tickets,
		jwtService: jwtService,
		logger:     logger,
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.users.GetAll(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err, "list users")
		return
	}
	c.JSON(http.StatusOK, model.ToUserResponses(users))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err, "retrieve user")
		return
	}
	c.JSON(http.StatusOK, user.ToUserResponse())
}

func (h *UserHandler) GetByUsername(c *gin.Context) {
	user, err := h.users.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeError(c, h.logger, err, "retrieve user")
		return
	}
	c.JSON(http.StatusOK, user.ToUserResponse())
}

// ListUserTickets handles GET /users/:id/tickets
func (h *UserHandler) ListUserTickets(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	// 404 for unknown users rather than an empty list
	if _, err := h.users.GetByID(c.Request.Context(), id); err != nil {
		writeError(c, h.logger, err, "retrieve user")
		return
	}

	tickets, err := h.tickets.GetByUserID(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err, "list tickets")
		return
	}
	c.JSON(http.StatusOK, model.ToTicketResponses(tickets))
}

// CreateUser handles user registration
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req model.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.users.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err, "create user")
		return
	}
	c.JSON(http.StatusCreated, user.ToUserResponse())
}

// CreateUsers handles bulk registration. Either every user is created or none.
func (h *UserHandler) CreateUsers(c *gin.Context) {
	var reqs []model.CreateUserRequest
	if !bindJSON(c, &reqs) {
		return
	}
	if len(reqs) == 0 {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "validation_failed",
			Message: "At least one user is required",
		})
		return
	}

	users, err := h.users.CreateAll(c.Request.Context(), reqs)
	if err != nil {
		writeError(c, h.logger, err, "create users")
		return
	}
	c.JSON(http.StatusCreated, model.ToUserResponses(users))
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req model.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.users.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, h.logger, err, "update user")
		return
	}
	c.JSON(http.StatusOK, user.ToUserResponse())
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		writeError(c, h.logger, err, "delete user")
		return
	}
	c.Status(http.StatusNoContent)
}

// Login handles user authentication
func (h *UserHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.users.Login(c.Request.Context(), req)
	if errors.Is(err, service.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{
			Error:   "invalid_credentials",
			Message: "Invalid username or password",
		})
		return
	}
	if err != nil {
		writeError(c, h.logger, err, "login")
		return
	}

	token, err := h.jwtService.GenerateToken(user)
	if err != nil {
		writeError(c, h.logger, err, "generate token")
		return
	}

	response := model.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int(tokenTTL.Seconds()),
		User:        user.ToUserResponse(),
	}

	c.JSON(http.StatusOK, response)
}
