package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/govoyage/trip-sharing/internal/api/dto"
	"github.com/govoyage/trip-sharing/internal/config"
	"github.com/govoyage/trip-sharing/internal/domain/profile"
	"github.com/govoyage/trip-sharing/internal/domain/review"
	"github.com/govoyage/trip-sharing/internal/domain/trip"
	"github.com/govoyage/trip-sharing/internal/domain/user"
	"github.com/govoyage/trip-sharing/internal/service/auth"
	"github.com/govoyage/trip-sharing/internal/service/membership"
	apperrors "github.com/govoyage/trip-sharing/pkg/errors"
	"github.com/govoyage/trip-sharing/pkg/logger"
	"github.com/govoyage/trip-sharing/pkg/monitoring"
	"github.com/govoyage/trip-sharing/pkg/websocket"
)

// Handlers holds all handler dependencies
type Handlers struct {
	Logger     *logger.Logger
	Hub        *websocket.Hub
	Monitor    *monitoring.NewRelicApp
	Auth       *auth.Service
	Membership *membership.Service
	Trips      trip.Repository
	Users      user.Repository
	Profiles   profile.Repository
	Reviews    review.Repository
	Pagination config.PaginationConfig
	WebSocket  config.WebSocketConfig
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	log *logger.Logger,
	hub *websocket.Hub,
	monitor *monitoring.NewRelicApp,
	authSvc *auth.Service,
	membershipSvc *membership.Service,
	trips trip.Repository,
	users user.Repository,
	profiles profile.Repository,
	reviews review.Repository,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		Logger:     log,
		Hub:        hub,
		Monitor:    monitor,
		Auth:       authSvc,
		Membership: membershipSvc,
		Trips:      trips,
		Users:      users,
		Profiles:   profiles,
		Reviews:    reviews,
		Pagination: cfg.Pagination,
		WebSocket:  cfg.WebSocket,
	}
}

// respondError translates domain errors to the JSON error shape.
// Unrecognized errors become a 500 and are logged with their cause.
func (h *Handlers) respondError(c *gin.Context, err error) {
	appErr := h.toAppError(err)
	if appErr.Status >= 500 {
		h.Logger.Error("Request failed",
			logger.String("path", c.FullPath()),
			logger.Err(err),
		)
	}
	c.JSON(appErr.Status, dto.ErrorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Fields:  appErr.Fields,
	})
}

func (h *Handlers) toAppError(err error) *apperrors.AppError {
	switch {
	case errors.Is(err, trip.ErrTripNotFound):
		return apperrors.ErrTripNotFound
	case errors.Is(err, trip.ErrAlreadyMember):
		return apperrors.ErrAlreadyMember
	case errors.Is(err, trip.ErrNoCapacity):
		return apperrors.ErrNoCapacity
	case errors.Is(err, trip.ErrNotMember):
		return apperrors.ErrNotMember
	case errors.Is(err, user.ErrUserNotFound):
		return apperrors.ErrUserNotFound
	case errors.Is(err, user.ErrUsernameTaken):
		return apperrors.Validation("Validation failed", map[string]string{
			"username": "This username is already taken",
		})
	case errors.Is(err, profile.ErrProfileNotFound):
		return apperrors.ErrProfileNotFound
	case errors.Is(err, profile.ErrProfileExists):
		return apperrors.ErrProfileExists
	case errors.Is(err, review.ErrInvalidRating):
		return apperrors.Validation("Validation failed", map[string]string{
			"rating": "Rating must be between 1 and 5",
		})
	case errors.Is(err, auth.ErrInvalidPassword):
		return apperrors.ErrInvalidCredentials
	}
	return apperrors.GetAppError(err)
}

// respondValidation sends a 400 carrying per-field messages from the
// gin binding error.
func (h *Handlers) respondValidation(c *gin.Context, err error) {
	appErr := apperrors.Validation("Validation failed", dto.FieldErrors(err))
	c.JSON(appErr.Status, dto.ErrorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Fields:  appErr.Fields,
	})
}
