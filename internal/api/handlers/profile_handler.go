package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/govoyage/trip-sharing/internal/api/dto"
	"github.com/govoyage/trip-sharing/internal/api/middleware"
	"github.com/govoyage/trip-sharing/internal/domain/profile"
	apperrors "github.com/govoyage/trip-sharing/pkg/errors"
)

// GetProfile handles GET /user/profile/
func (h *Handlers) GetProfile(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		h.respondError(c, apperrors.ErrInvalidToken)
		return
	}

	p, err := h.Profiles.GetByUser(c.Request.Context(), u.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// CreateProfile handles POST /user/profile/
func (h *Handlers) CreateProfile(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		h.respondError(c, apperrors.ErrInvalidToken)
		return
	}

	var req dto.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondValidation(c, err)
		return
	}

	p := &profile.Profile{
		UserID:      u.ID,
		DisplayName: req.DisplayName,
		Phone:       req.Phone,
		About:       req.About,
		Avatar:      req.Avatar,
	}

	if err := h.Profiles.Create(c.Request.Context(), p); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

// UpdateProfile handles PUT /user/profile/
func (h *Handlers) UpdateProfile(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		h.respondError(c, apperrors.ErrInvalidToken)
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondValidation(c, err)
		return
	}

	p, err := h.Profiles.Update(c.Request.Context(), u.ID, profile.Update{
		DisplayName: req.DisplayName,
		Phone:       req.Phone,
		About:       req.About,
		Avatar:      req.Avatar,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}
