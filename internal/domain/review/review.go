package review

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrReviewNotFound = errors.New("review not found")
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
)

// Review is feedback left about a user. Reviews are immutable once created.
type Review struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"` // the reviewed user
	AuthorID  uuid.UUID `json:"author_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// IsValid validates the review entity
func (r *Review) IsValid() error {
	if r.Rating < 1 || r.Rating > 5 {
		return ErrInvalidRating
	}
	return nil
}

// Repository defines the interface for review data access
type Repository interface {
	// Create persists a new review
	Create(ctx context.Context, review *Review) error

	// ListByUser returns reviews about a user, newest first
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Review, error)
}
