package repository

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
	"github.com/govoyage/trip-sharing/internal/domain/user"
)

// TokenRepository is the PostgreSQL-backed implementation of
// user.TokenRepository. Tokens are opaque 40-hex-char strings, one per user,
// issued on first login and reused afterwards.
type TokenRepository struct {
	db *sql.DB
}

// NewTokenRepository creates a new token repository
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// GetOrCreate returns the user's token, creating one on first login
func (r *TokenRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (string, error) {
	var token string
	err := r.db.QueryRowContext(ctx,
		`SELECT token FROM auth_tokens WHERE user_id = $1`, userID,
	).Scan(&token)
	if err == nil {
		return token, nil
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("failed to look up token: %w", err)
	}

	token, err = generateToken()
	if err != nil {
		return "", err
	}

	// A concurrent first login may win the insert; the reselect below
	// returns whichever token landed.
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO auth_tokens (token, user_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING
	`, token, userID)
	if err != nil {
		return "", fmt.Errorf("failed to create token: %w", err)
	}

	err = r.db.QueryRowContext(ctx,
		`SELECT token FROM auth_tokens WHERE user_id = $1`, userID,
	).Scan(&token)
	if err != nil {
		return "", fmt.Errorf("failed to reselect token: %w", err)
	}

	return token, nil
}

// Resolve returns the user a token is bound to
func (r *TokenRepository) Resolve(ctx context.Context, token string) (*user.User, error) {
	var u user.User
	err := r.db.QueryRowContext(ctx, `
		SELECT u.id, u.username, u.email, u.password_hash, u.created_at, u.updated_at
		FROM auth_tokens t
		JOIN users u ON u.id = t.user_id
		WHERE t.token = $1
	`, token).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve token: %w", err)
	}
	return &u, nil
}

func generateToken() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
