package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/govoyage/trip-sharing/internal/domain/profile"
)

// ProfileRepository is the PostgreSQL-backed implementation of
// profile.Repository. The unique user_id column enforces the
// one-profile-per-user invariant.
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetByUser retrieves the profile for a user
func (r *ProfileRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	var p profile.Profile
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, display_name, phone, about, avatar, created_at, updated_at
		FROM user_profiles
		WHERE user_id = $1
	`, userID).Scan(&p.UserID, &p.DisplayName, &p.Phone, &p.About, &p.Avatar,
		&p.CreatedAt, &p.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, profile.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

// Create creates the user's profile
func (r *ProfileRepository) Create(ctx context.Context, p *profile.Profile) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO user_profiles (user_id, display_name, phone, about, avatar)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, p.UserID, p.DisplayName, p.Phone, p.About, p.Avatar,
	).Scan(&p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return profile.ErrProfileExists
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// Update applies a partial update to an existing profile
func (r *ProfileRepository) Update(ctx context.Context, userID uuid.UUID, update profile.Update) (*profile.Profile, error) {
	var p profile.Profile
	err := r.db.QueryRowContext(ctx, `
		UPDATE user_profiles
		SET display_name = COALESCE($2, display_name),
		    phone = COALESCE($3, phone),
		    about = COALESCE($4, about),
		    avatar = COALESCE($5, avatar),
		    updated_at = NOW()
		WHERE user_id = $1
		RETURNING user_id, display_name, phone, about, avatar, created_at, updated_at
	`, userID, update.DisplayName, update.Phone, update.About, update.Avatar,
	).Scan(&p.UserID, &p.DisplayName, &p.Phone, &p.About, &p.Avatar,
		&p.CreatedAt, &p.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, profile.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &p, nil
}
