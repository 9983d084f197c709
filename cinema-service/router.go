package main

import (
	"context"
	"net/http"

	"github.com/arunvm123/cinemabooking/cinema-service/counter"
	"github.com/arunvm123/cinemabooking/cinema-service/model"
	"github.com/arunvm123/cinemabooking/cinema-service/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RouterDeps carries everything the HTTP layer is built from.
type RouterDeps struct {
	Services   *service.Services
	JWTService *JWTService
	Visits     counter.VisitCounter
	Cache      CacheStats
	Ping       func(ctx context.Context) error
	Registry   *prometheus.Registry
	Logger     *zap.Logger

	// Per-client limit on login and purchase, off when RateLimitRPS <= 0
	RateLimitRPS   float64
	RateLimitBurst int
}

func SetupRouter(deps RouterDeps) *gin.Engine {
	logger := deps.Logger

	// Initialize handlers
	systemHandler := NewSystemHandler(deps.Ping, deps.Visits, deps.Cache, logger)
	movieHandler := NewMovieHandler(deps.Services.Movies, logger)
	reviewHandler := NewReviewHandler(deps.Services.Reviews, logger)
	showtimeHandler := NewShowtimeHandler(deps.Services.Showtimes, logger)
	theaterHandler := NewTheaterHandler(deps.Services.Theaters, logger)
	seatHandler := NewSeatHandler(deps.Services.Seats, logger)
	ticketHandler := NewTicketHandler(deps.Services.Tickets, logger)
	userHandler := NewUserHandler(deps.Services.Users, deps.Services.Tickets, deps.JWTService, logger)

	// Setup Gin router
	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(CORSMiddleware())
	r.Use(LoggingMiddleware(logger, NewHTTPMetrics(deps.Registry)))

	// Health and metrics endpoints are neither authenticated nor counted
	r.GET("/health", systemHandler.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	api.Use(VisitMiddleware(deps.Visits, logger))
	auth := AuthMiddleware(deps.JWTService)
	throttle := RateLimitMiddleware(deps.RateLimitRPS, deps.RateLimitBurst)

	api.POST("/auth/login", throttle, userHandler.Login)
	api.GET("/visits/count", systemHandler.VisitCount)

	movies := api.Group("/movies")
	movies.GET("", movieHandler.ListMovies)
	movies.GET("/with-reviews", movieHandler.ListMoviesWithReviews)
	movies.GET("/:id", movieHandler.GetMovie)
	movies.POST("", auth, movieHandler.CreateMovie)
	movies.PUT("/:id", auth, movieHandler.UpdateMovie)
	movies.DELETE("/:id", auth, movieHandler.DeleteMovie)

	reviews := api.Group("/reviews")
	reviews.GET("", reviewHandler.ListReviews)
	reviews.GET("/:id", reviewHandler.GetReview)
	reviews.GET("/movie", reviewHandler.ListByMovieTitle)
	reviews.GET("/movie/:movieId", reviewHandler.ListByMovieID)
	reviews.GET("/user", reviewHandler.ListByUserUsername)
	reviews.GET("/user/:userId", reviewHandler.ListByUserID)
	reviews.POST("", auth, reviewHandler.CreateReview)
	reviews.PUT("/:id", auth, reviewHandler.UpdateReview)
	reviews.DELETE("/:id", auth, reviewHandler.DeleteReview)

	showtimes := api.Group("/showtimes")
	showtimes.GET("", showtimeHandler.ListShowtimes)
	showtimes.GET("/:id", showtimeHandler.GetShowtime)
	showtimes.GET("/movie", showtimeHandler.ListByMovieTitle)
	showtimes.GET("/movie/:movieId", showtimeHandler.ListByMovieID)
	showtimes.GET("/theater", showtimeHandler.ListByTheaterName)
	showtimes.GET("/theater/:theaterId", showtimeHandler.ListByTheaterID)
	showtimes.POST("", auth, showtimeHandler.CreateShowtime)
	showtimes.PUT("/:id", auth, showtimeHandler.UpdateShowtime)
	showtimes.DELETE("/:id", auth, showtimeHandler.DeleteShowtime)

	theaters := api.Group("/theaters")
	theaters.GET("", theaterHandler.ListTheaters)
	theaters.GET("/:id", theaterHandler.GetTheater)
	theaters.POST("", auth, theaterHandler.CreateTheater)
	theaters.PUT("/:id", auth, theaterHandler.UpdateTheater)
	theaters.DELETE("/:id", auth, theaterHandler.DeleteTheater)

	seats := api.Group("/seats")
	seats.GET("", seatHandler.ListSeats)
	seats.GET("/:id", seatHandler.GetSeat)
	seats.GET("/theater", seatHandler.ListByTheaterName)
	seats.GET("/theater/:theaterId", seatHandler.ListByTheaterID)
	seats.POST("", auth, seatHandler.CreateSeat)
	seats.PUT("/:id", auth, seatHandler.UpdateSeat)
	seats.DELETE("/:id", auth, seatHandler.DeleteSeat)

	tickets := api.Group("/tickets")
	tickets.GET("", ticketHandler.ListTickets)
	tickets.GET("/:id", ticketHandler.GetTicket)
	tickets.GET("/user", ticketHandler.ListByUserUsername)
	tickets.GET("/user/:userId", ticketHandler.ListByUserID)
	tickets.GET("/showtime_datetime", ticketHandler.ListByShowtimeDateTime)
	tickets.GET("/showtime/:showtimeId", ticketHandler.ListByShowtimeID)
	tickets.GET("/showtime/:showtimeId/seat/:seatNumber", ticketHandler.GetByShowtimeAndSeat)
	tickets.GET("/seat/:seatId", ticketHandler.ListBySeatID)
	tickets.POST("", auth, ticketHandler.CreateTicket)
	tickets.POST("/purchase", throttle, auth, ticketHandler.PurchaseTickets)
	tickets.PUT("/:id", auth, ticketHandler.UpdateTicket)
	tickets.DELETE("/:id", auth, ticketHandler.DeleteTicket)

	users := api.Group("/users")
	users.GET("", userHandler.ListUsers)
	users.GET("/:id", userHandler.GetUser)
	users.GET("/:id/tickets", userHandler.ListUserTickets)
	users.GET("/username/:username", userHandler.GetByUsername)
	// Registration stays public
	users.POST("", userHandler.CreateUser)
	users.POST("/bulk", auth, userHandler.CreateUsers)
	users.PUT("/:id", auth, userHandler.UpdateUser)
	users.DELETE("/:id", auth, userHandler.DeleteUser)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "not_found", Message: "Route not found"})
	})

	return r
}
