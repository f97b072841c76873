package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/govoyage/trip-sharing/internal/api/dto"
	"github.com/govoyage/trip-sharing/internal/api/middleware"
	apperrors "github.com/govoyage/trip-sharing/pkg/errors"
)

// ListMyTrips handles GET /trips/mytrip/
func (h *Handlers) ListMyTrips(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		h.respondError(c, apperrors.ErrInvalidToken)
		return
	}

	trips, err := h.Membership.ListMine(c.Request.Context(), u.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, trips)
}

// JoinTrip handles POST /trips/mytrip/
func (h *Handlers) JoinTrip(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		h.respondError(c, apperrors.ErrInvalidToken)
		return
	}

	var req dto.JoinTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondValidation(c, err)
		return
	}
	tripID, err := uuid.Parse(req.TripID)
	if err != nil {
		h.respondError(c, apperrors.ErrTripNotFound)
		return
	}

	t, err := h.Membership.Join(c.Request.Context(), tripID, u.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, t)
}

// LeaveTrip handles DELETE /trips/mytrip/
func (h *Handlers) LeaveTrip(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		h.respondError(c, apperrors.ErrInvalidToken)
		return
	}

	var req dto.JoinTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondValidation(c, err)
		return
	}
	tripID, err := uuid.Parse(req.TripID)
	if err != nil {
		h.respondError(c, apperrors.ErrTripNotFound)
		return
	}

	t, err := h.Membership.Leave(c.Request.Context(), tripID, u.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, t)
}
