package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/govoyage/trip-sharing/internal/domain/user"
	"github.com/govoyage/trip-sharing/pkg/cache"
	"github.com/govoyage/trip-sharing/pkg/logger"
)

var (
	// ErrInvalidPassword is returned by Login on a bcrypt mismatch
	ErrInvalidPassword = errors.New("invalid password")
)

// Service handles registration, login and bearer-token resolution.
// Password hashing and token issuance live here; handlers only translate
// errors to HTTP responses.
type Service struct {
	users    user.Repository
	tokens   user.TokenRepository
	redis    *redis.Client
	logger   *logger.Logger
	cacheTTL time.Duration
}

// Config holds auth service configuration
type Config struct {
	TokenCacheTTL time.Duration
}

// NewService creates a new auth service. The Redis client is optional;
// without it every token lookup goes to the database.
func NewService(users user.Repository, tokens user.TokenRepository, redisClient *redis.Client, log *logger.Logger, cfg Config) *Service {
	return &Service{
		users:    users,
		tokens:   tokens,
		redis:    redisClient,
		logger:   log,
		cacheTTL: cfg.TokenCacheTTL,
	}
}

// Register creates a new account with a bcrypt-hashed password
func (s *Service) Register(ctx context.Context, username, email, password string) (*user.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &user.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("User registered",
		logger.String("user_id", u.ID.String()),
		logger.String("username", u.Username),
	)

	return u, nil
}

// Login verifies the credentials and returns the user's bearer token,
// creating one on first login.
func (s *Service) Login(ctx context.Context, username, password string) (string, *user.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("Login failed",
			logger.String("username", username),
		)
		return "", nil, ErrInvalidPassword
	}

	token, err := s.tokens.GetOrCreate(ctx, u.ID)
	if err != nil {
		return "", nil, err
	}

	s.cacheToken(ctx, token, u.ID)

	s.logger.Info("User logged in",
		logger.String("user_id", u.ID.String()),
	)

	return token, u, nil
}

// Authenticate resolves a bearer token to its user. The Redis cache is
// consulted first; misses fall back to the database and repopulate it.
func (s *Service) Authenticate(ctx context.Context, token string) (*user.User, error) {
	if token == "" {
		return nil, user.ErrUserNotFound
	}

	if s.redis != nil {
		if cached, err := cache.Get(ctx, s.redis, cache.TokenKey(token)); err == nil {
			if userID, err := uuid.Parse(cached); err == nil {
				return s.users.GetByID(ctx, userID)
			}
		}
	}

	u, err := s.tokens.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	s.cacheToken(ctx, token, u.ID)

	return u, nil
}

func (s *Service) cacheToken(ctx context.Context, token string, userID uuid.UUID) {
	if s.redis == nil {
		return
	}
	if err := cache.SetWithExpiry(ctx, s.redis, cache.TokenKey(token), userID.String(), s.cacheTTL); err != nil {
		// Cache failures are not fatal; the database remains authoritative
		s.logger.Warn("Failed to cache token", logger.Err(err))
	}
}
