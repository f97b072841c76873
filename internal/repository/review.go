package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/govoyage/trip-sharing/internal/domain/review"
)

// ReviewRepository is the PostgreSQL-backed implementation of
// review.Repository. Reviews are append-only.
type ReviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create persists a new review
func (r *ReviewRepository) Create(ctx context.Context, rv *review.Review) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO reviews (id, user_id, author_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, rv.ID, rv.UserID, rv.AuthorID, rv.Rating, rv.Comment).Scan(&rv.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// ListByUser returns reviews about a user, newest first
func (r *ReviewRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*review.Review, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, author_id, rating, comment, created_at
		FROM reviews
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []*review.Review{}
	for rows.Next() {
		var rv review.Review
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.AuthorID, &rv.Rating,
			&rv.Comment, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review row: %w", err)
		}
		reviews = append(reviews, &rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read review rows: %w", err)
	}

	return reviews, nil
}
