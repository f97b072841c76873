package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/govoyage/trip-sharing/internal/api/dto"
)

// Register handles POST /register/
func (h *Handlers) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondValidation(c, err)
		return
	}

	u, err := h.Auth.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if h.Monitor != nil {
		h.Monitor.RecordUserRegistered(u.ID.String())
	}

	c.JSON(http.StatusCreated, dto.UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	})
}

// Login handles POST /login/
func (h *Handlers) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondValidation(c, err)
		return
	}

	token, u, err := h.Auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:  token,
		UserID: u.ID,
	})
}
