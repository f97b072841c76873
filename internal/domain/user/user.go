package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUsernameTaken   = errors.New("username is already taken")
	ErrInvalidUsername = errors.New("invalid username")
	ErrInvalidEmail    = errors.New("invalid email")
)

// User represents a registered account. PasswordHash is never serialized.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Repository defines the interface for user data access
type Repository interface {
	// Create creates a new user. Returns ErrUsernameTaken on a
	// duplicate username.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetByUsername retrieves a user by username
	GetByUsername(ctx context.Context, username string) (*User, error)
}

// TokenRepository persists the one-per-user opaque bearer tokens
type TokenRepository interface {
	// GetOrCreate returns the user's token, creating one on first login
	GetOrCreate(ctx context.Context, userID uuid.UUID) (string, error)

	// Resolve returns the user a token is bound to, or ErrUserNotFound
	Resolve(ctx context.Context, token string) (*User, error)
}
