package membership

import (
	"context"

	"github.com/google/uuid"

	"github.com/govoyage/trip-sharing/internal/domain/trip"
	"github.com/govoyage/trip-sharing/pkg/logger"
	"github.com/govoyage/trip-sharing/pkg/monitoring"
	"github.com/govoyage/trip-sharing/pkg/websocket"
)

// TripStore is the subset of trip.Repository the membership service needs.
// AddMember and RemoveMember are atomic: the seat counter and the member
// set always change together or not at all.
type TripStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*trip.Trip, error)
	ListByMember(ctx context.Context, userID uuid.UUID) ([]*trip.Trip, error)
	AddMember(ctx context.Context, tripID, userID uuid.UUID) (*trip.Trip, error)
	RemoveMember(ctx context.Context, tripID, userID uuid.UUID) (*trip.Trip, error)
}

// Service mediates join/leave requests against a trip's capacity and
// membership invariants.
type Service struct {
	trips   TripStore
	hub     *websocket.Hub
	monitor *monitoring.NewRelicApp
	logger  *logger.Logger
}

// NewService creates a new membership service. Hub and monitor are
// optional.
func NewService(trips TripStore, hub *websocket.Hub, monitor *monitoring.NewRelicApp, log *logger.Logger) *Service {
	return &Service{
		trips:   trips,
		hub:     hub,
		monitor: monitor,
		logger:  log,
	}
}

// Join adds the user to the trip and takes one seat.
//
// Returns trip.ErrTripNotFound, trip.ErrAlreadyMember or
// trip.ErrNoCapacity; on success the returned trip reflects the new seat
// count and member set.
func (s *Service) Join(ctx context.Context, tripID, userID uuid.UUID) (*trip.Trip, error) {
	t, err := s.trips.AddMember(ctx, tripID, userID)
	if err != nil {
		s.logger.Warn("Join rejected",
			logger.String("trip_id", tripID.String()),
			logger.String("user_id", userID.String()),
			logger.Err(err),
		)
		return nil, err
	}

	s.logger.Info("User joined trip",
		logger.String("trip_id", tripID.String()),
		logger.String("user_id", userID.String()),
		logger.Int("available_seats", t.AvailableSeats),
	)

	s.notify("trip_joined", t, userID)
	if s.monitor != nil {
		s.monitor.RecordTripJoined(tripID.String(), userID.String(), t.AvailableSeats)
	}

	return t, nil
}

// Leave removes the user from the trip and frees one seat.
//
// Returns trip.ErrTripNotFound or trip.ErrNotMember; the freed seat never
// raises available seats above the trip's capacity.
func (s *Service) Leave(ctx context.Context, tripID, userID uuid.UUID) (*trip.Trip, error) {
	t, err := s.trips.RemoveMember(ctx, tripID, userID)
	if err != nil {
		s.logger.Warn("Leave rejected",
			logger.String("trip_id", tripID.String()),
			logger.String("user_id", userID.String()),
			logger.Err(err),
		)
		return nil, err
	}

	s.logger.Info("User left trip",
		logger.String("trip_id", tripID.String()),
		logger.String("user_id", userID.String()),
		logger.Int("available_seats", t.AvailableSeats),
	)

	s.notify("trip_left", t, userID)
	if s.monitor != nil {
		s.monitor.RecordTripLeft(tripID.String(), userID.String())
	}

	return t, nil
}

// ListMine returns all trips the user is a member of, stable by id.
// A user with no trips gets an empty slice, not an error.
func (s *Service) ListMine(ctx context.Context, userID uuid.UUID) ([]*trip.Trip, error) {
	trips, err := s.trips.ListByMember(ctx, userID)
	if err != nil {
		return nil, err
	}
	if trips == nil {
		trips = []*trip.Trip{}
	}
	return trips, nil
}

func (s *Service) notify(event string, t *trip.Trip, userID uuid.UUID) {
	if s.hub == nil {
		return
	}
	msg := websocket.Message{
		Type: event,
		Data: map[string]interface{}{
			"trip_id":         t.ID.String(),
			"user_id":         userID.String(),
			"available_seats": t.AvailableSeats,
			"status":          t.Status,
		},
	}
	s.hub.BroadcastToTrip(t.ID.String(), msg)
	s.hub.BroadcastToChannel("dashboard", msg)
}
