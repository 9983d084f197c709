package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	cachememory "github.com/arunvm123/cinemabooking/cinema-service/cache/memory"
	countermemory "github.com/arunvm123/cinemabooking/cinema-service/counter/memory"
	"github.com/arunvm123/cinemabooking/cinema-service/model"
	"github.com/arunvm123/cinemabooking/cinema-service/notifier"
	repomemory "github.com/arunvm123/cinemabooking/cinema-service/repository/memory"
	"github.com/arunvm123/cinemabooking/cinema-service/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := model.RegisterValidators(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type testServer struct {
	router *gin.Engine
	store  *repomemory.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := repomemory.NewStore()
	repos := store.Repositories()
	registry := prometheus.NewRegistry()
	objectCache := cachememory.NewStore(100, time.Minute, cachememory.WithMetrics(cachememory.NewMetrics(registry)))
	t.Cleanup(objectCache.Shutdown)
	logger := zap.NewNop()

	router := SetupRouter(RouterDeps{
		Services:   service.New(repos, objectCache, notifier.NewLogNotifier(logger), logger),
		JWTService: NewJWTService("test-secret"),
		Visits:     countermemory.NewVisitCounter(),
		Cache:      objectCache,
		Ping:       repos.Ping,
		Registry:   registry,
		Logger:     logger,
	})
	return &testServer{router: router, store: store}
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// register creates a user through the API and logs them in.
func (s *testServer) register(t *testing.T, username string) (int64, string) {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/users", model.CreateUserRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret123",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/auth/login", model.LoginRequest{Username: username, Password: "secret123"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp model.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, 3600, resp.ExpiresIn)
	return resp.User.UserID, resp.AccessToken
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode[model.HealthResponse](t, w).Status)

	s.store.FailWith(errors.New("connection refused"))
	w = s.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestWritesRequireToken(t *testing.T) {
	s := newTestServer(t)
	movie := model.MovieRequest{Title: "Inception", Director: "Nolan", ReleaseYear: 2010, Genre: "Sci-Fi"}

	w := s.do(t, http.MethodPost, "/api/movies", movie, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/movies", movie, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Reads stay public
	w = s.do(t, http.MethodGet, "/api/movies", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMovieLifecycle(t *testing.T) {
	s := newTestServer(t)
	_, token := s.register(t, "neo")

	w := s.do(t, http.MethodPost, "/api/movies",
		model.MovieRequest{Title: "Inception", Director: "Nolan", ReleaseYear: 2010, Genre: "Sci-Fi"}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[model.MovieResponse](t, w)
	path := "/api/movies/" + strconv.FormatInt(created.MovieID, 10)

	w = s.do(t, http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Inception", decode[model.MovieResponse](t, w).Title)

	w = s.do(t, http.MethodPut, path,
		model.MovieRequest{Title: "Tenet", Director: "Nolan", ReleaseYear: 2020, Genre: "Sci-Fi"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The cached copy must not outlive the update
	w = s.do(t, http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Tenet", decode[model.MovieResponse](t, w).Title)

	w = s.do(t, http.MethodDelete, path, nil, token)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodGet, path, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRequestErrors(t *testing.T) {
	s := newTestServer(t)
	_, token := s.register(t, "neo")

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"bad id", http.MethodGet, "/api/movies/abc", nil, http.StatusBadRequest, "invalid_id"},
		{"unknown movie", http.MethodGet, "/api/movies/999", nil, http.StatusNotFound, "not_found"},
		{"missing query", http.MethodGet, "/api/seats/theater", nil, http.StatusBadRequest, "validation_failed"},
		{"missing title", http.MethodPost, "/api/movies", model.MovieRequest{Director: "Nolan", ReleaseYear: 2010, Genre: "Sci-Fi"}, http.StatusBadRequest, "validation_failed"},
		{"past showtime", http.MethodPost, "/api/showtimes", model.ShowtimeRequest{DateTime: "01.01.2000 19:00", Type: "2D", MovieID: 1, TheaterID: 1}, http.StatusBadRequest, "validation_failed"},
		{"unknown parent", http.MethodPost, "/api/seats", model.SeatRequest{SeatRow: 1, Number: 1, TheaterID: 999}, http.StatusNotFound, "not_found"},
		{"unknown route", http.MethodGet, "/api/nothing", nil, http.StatusNotFound, "not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, tt.method, tt.path, tt.body, token)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.code, decode[model.ErrorResponse](t, w).Error)
		})
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "neo")

	w := s.do(t, http.MethodPost, "/api/auth/login", model.LoginRequest{Username: "neo", Password: "wrong-password"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth/login", model.LoginRequest{Username: "trinity", Password: "secret123"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPurchaseTickets(t *testing.T) {
	s := newTestServer(t)
	userID, token := s.register(t, "neo")
	otherID, _ := s.register(t, "trinity")

	ctx := context.Background()
	repos := s.store.Repositories()
	movie := model.Movie{Title: "Inception", Director: "Nolan", ReleaseYear: 2010, Genre: "Sci-Fi"}
	require.NoError(t, repos.Movies.Save(ctx, &movie))
	theater := model.Theater{Name: "Odeon", Capacity: 4}
	require.NoError(t, repos.Theaters.Save(ctx, &theater))
	for n := 1; n <= 2; n++ {
		require.NoError(t, repos.Seats.Save(ctx, &model.Seat{SeatRow: 1, Number: n, Available: true, TheaterID: theater.ID}))
	}
	showtime := model.Showtime{DateTime: "01.01.2030 19:00", Type: "IMAX", MovieID: movie.ID, TheaterID: theater.ID}
	require.NoError(t, repos.Showtimes.Save(ctx, &showtime))

	req := model.PurchaseRequest{ShowtimeID: showtime.ID, UserID: userID, SeatNumbers: []string{"1-1", "1-2"}}
	w := s.do(t, http.MethodPost, "/api/tickets/purchase", req, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode[model.PurchaseResponse](t, w)
	assert.Len(t, resp.Tickets, 2)
	assert.InDelta(t, 2*model.BaseTicketPrice, resp.TotalPrice, 0.001)

	w = s.do(t, http.MethodPost, "/api/tickets/purchase", req, token)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "seat_taken", decode[model.ErrorResponse](t, w).Error)

	req.UserID = otherID
	w = s.do(t, http.MethodPost, "/api/tickets/purchase", req, token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/api/users/"+strconv.FormatInt(userID, 10)+"/tickets", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]model.TicketResponse](t, w), 2)

	w = s.do(t, http.MethodGet, "/api/tickets/showtime/"+strconv.FormatInt(showtime.ID, 10)+"/seat/1-2", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1-2", decode[model.TicketResponse](t, w).SeatNumber)
}

func TestCreateUsers_Bulk(t *testing.T) {
	s := newTestServer(t)
	_, token := s.register(t, "neo")

	users := []model.CreateUserRequest{
		{Username: "trinity", Email: "trinity@example.com", Password: "secret123"},
		{Username: "morpheus", Email: "morpheus@example.com", Password: "secret123"},
	}
	w := s.do(t, http.MethodPost, "/api/users/bulk", users, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Len(t, decode[[]model.UserResponse](t, w), 2)

	// A clash with an existing username rolls back the whole batch
	users = []model.CreateUserRequest{
		{Username: "switch", Email: "switch@example.com", Password: "secret123"},
		{Username: "neo", Email: "neo2@example.com", Password: "secret123"},
	}
	w = s.do(t, http.MethodPost, "/api/users/bulk", users, token)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodGet, "/api/users/username/switch", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVisitCount(t *testing.T) {
	s := newTestServer(t)

	for i := 0; i < 3; i++ {
		s.do(t, http.MethodGet, "/api/theaters", nil, "")
	}

	w := s.do(t, http.MethodGet, "/api/visits/count?url=/api/theaters", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[model.VisitCountResponse](t, w)
	assert.Equal(t, "/api/theaters", resp.URL)
	assert.Equal(t, int64(3), resp.Count)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodGet, "/api/movies", nil, "")

	w := s.do(t, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `cinema_http_requests_total{method="GET",route="/api/movies",status="200"} 1`)
	assert.Contains(t, w.Body.String(), "cinema_cache_")
}
