package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govoyage/trip-sharing/internal/api/dto"
	"github.com/govoyage/trip-sharing/internal/api/middleware"
	"github.com/govoyage/trip-sharing/internal/config"
	"github.com/govoyage/trip-sharing/internal/domain/trip"
	"github.com/govoyage/trip-sharing/internal/domain/user"
	"github.com/govoyage/trip-sharing/internal/service/membership"
	"github.com/govoyage/trip-sharing/pkg/logger"
)

// stubTripStore returns canned results for the membership operations
type stubTripStore struct {
	trip *trip.Trip
	err  error
}

func (s *stubTripStore) GetByID(context.Context, uuid.UUID) (*trip.Trip, error) {
	return s.trip, s.err
}

func (s *stubTripStore) ListByMember(context.Context, uuid.UUID) ([]*trip.Trip, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.trip == nil {
		return nil, nil
	}
	return []*trip.Trip{s.trip}, nil
}

func (s *stubTripStore) AddMember(context.Context, uuid.UUID, uuid.UUID) (*trip.Trip, error) {
	return s.trip, s.err
}

func (s *stubTripStore) RemoveMember(context.Context, uuid.UUID, uuid.UUID) (*trip.Trip, error) {
	return s.trip, s.err
}

// stubAuth authenticates every request as the same user
type stubAuth struct {
	user *user.User
}

func (s *stubAuth) Authenticate(context.Context, string) (*user.User, error) {
	return s.user, nil
}

func newMytripRouter(t *testing.T, store membership.TripStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log, err := logger.New(logger.Config{Level: "error", Format: "console"})
	require.NoError(t, err)

	h := &Handlers{
		Logger:     log,
		Membership: membership.NewService(store, nil, nil, log),
		Pagination: config.PaginationConfig{PageSize: 10, MaxPageSize: 100},
	}

	auth := &stubAuth{user: &user.User{ID: uuid.New(), Username: "alice"}}

	r := gin.New()
	mytrip := r.Group("/trips/mytrip", middleware.RequireAuth(auth))
	{
		mytrip.GET("/", h.ListMyTrips)
		mytrip.POST("/", h.JoinTrip)
		mytrip.DELETE("/", h.LeaveTrip)
	}
	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Token abc")
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func joinBody(tripID uuid.UUID) string {
	return `{"trip_id":"` + tripID.String() + `"}`
}

func TestJoinTrip_Success(t *testing.T) {
	tripID := uuid.New()
	store := &stubTripStore{trip: &trip.Trip{
		ID:             tripID,
		Name:           "A to B",
		TotalSeats:     2,
		AvailableSeats: 1,
		Status:         trip.StatusInProgress,
	}}
	r := newMytripRouter(t, store)

	w := doJSON(r, http.MethodPost, "/trips/mytrip/", joinBody(tripID))

	assert.Equal(t, http.StatusOK, w.Code)
	var got trip.Trip
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, tripID, got.ID)
	assert.Equal(t, 1, got.AvailableSeats)
}

func TestJoinTrip_StatusCodeMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"trip not found", trip.ErrTripNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"already member", trip.ErrAlreadyMember, http.StatusBadRequest, "ALREADY_MEMBER"},
		{"no capacity", trip.ErrNoCapacity, http.StatusBadRequest, "NO_CAPACITY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newMytripRouter(t, &stubTripStore{err: tt.err})

			w := doJSON(r, http.MethodPost, "/trips/mytrip/", joinBody(uuid.New()))

			assert.Equal(t, tt.wantCode, w.Code)
			var body dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantBody, body.Code)
		})
	}
}

func TestJoinTrip_InvalidBody(t *testing.T) {
	r := newMytripRouter(t, &stubTripStore{})

	w := doJSON(r, http.MethodPost, "/trips/mytrip/", `{"trip_id":"not-a-uuid"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
}

func TestLeaveTrip_NotMember(t *testing.T) {
	r := newMytripRouter(t, &stubTripStore{err: trip.ErrNotMember})

	w := doJSON(r, http.MethodDelete, "/trips/mytrip/", joinBody(uuid.New()))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "NOT_MEMBER", body.Code)
}

func TestMyTrips_RequiresAuth(t *testing.T) {
	r := newMytripRouter(t, &stubTripStore{})

	req := httptest.NewRequest(http.MethodGet, "/trips/mytrip/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListMyTrips_EmptyList(t *testing.T) {
	r := newMytripRouter(t, &stubTripStore{})

	w := doJSON(r, http.MethodGet, "/trips/mytrip/", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}
