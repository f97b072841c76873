package profile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists")
)

// Profile holds the public details a user maintains about themselves.
// At most one profile exists per user.
type Profile struct {
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Phone       string    `json:"phone"`
	About       string    `json:"about"`
	Avatar      string    `json:"avatar"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Update describes a partial update; nil fields are left untouched
type Update struct {
	DisplayName *string
	Phone       *string
	About       *string
	Avatar      *string
}

// Repository defines the interface for profile data access
type Repository interface {
	// GetByUser retrieves the profile for a user
	GetByUser(ctx context.Context, userID uuid.UUID) (*Profile, error)

	// Create creates the user's profile. Returns ErrProfileExists if
	// one already exists.
	Create(ctx context.Context, profile *Profile) error

	// Update applies a partial update to an existing profile
	Update(ctx context.Context, userID uuid.UUID, update Update) (*Profile, error)
}
