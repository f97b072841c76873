package trip

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for trip data access
type Repository interface {
	// Create creates a new trip
	Create(ctx context.Context, trip *Trip) error

	// GetByID retrieves a trip with its member set
	GetByID(ctx context.Context, id uuid.UUID) (*Trip, error)

	// List returns a filtered page of trips and the total match count
	List(ctx context.Context, filter Filter) ([]*Trip, int, error)

	// Update updates a trip's editable fields
	Update(ctx context.Context, trip *Trip) error

	// Delete deletes a trip
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByMember returns all trips the user has joined
	ListByMember(ctx context.Context, userID uuid.UUID) ([]*Trip, error)

	// AddMember atomically adds the user and takes one seat.
	// Returns ErrTripNotFound, ErrAlreadyMember or ErrNoCapacity.
	AddMember(ctx context.Context, tripID, userID uuid.UUID) (*Trip, error)

	// RemoveMember atomically removes the user and frees one seat,
	// never raising available seats above the trip's capacity.
	// Returns ErrTripNotFound or ErrNotMember.
	RemoveMember(ctx context.Context, tripID, userID uuid.UUID) (*Trip, error)
}
