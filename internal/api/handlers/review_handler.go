package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/govoyage/trip-sharing/internal/api/dto"
	"github.com/govoyage/trip-sharing/internal/api/middleware"
	"github.com/govoyage/trip-sharing/internal/domain/review"
	apperrors "github.com/govoyage/trip-sharing/pkg/errors"
	"github.com/govoyage/trip-sharing/pkg/logger"
)

// ListReviews handles GET /user/reviews/?user_id=
func (h *Handlers) ListReviews(c *gin.Context) {
	userID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		h.respondError(c, apperrors.Validation("Validation failed", map[string]string{
			"user_id": "Must be a valid UUID",
		}))
		return
	}

	// 404 on an unknown user rather than an empty list
	if _, err := h.Users.GetByID(c.Request.Context(), userID); err != nil {
		h.respondError(c, err)
		return
	}

	reviews, err := h.Reviews.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// CreateReview handles POST /user/reviews/
func (h *Handlers) CreateReview(c *gin.Context) {
	author, ok := middleware.CurrentUser(c)
	if !ok {
		h.respondError(c, apperrors.ErrInvalidToken)
		return
	}

	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondValidation(c, err)
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		h.respondError(c, apperrors.ErrUserNotFound)
		return
	}
	if _, err := h.Users.GetByID(c.Request.Context(), userID); err != nil {
		h.respondError(c, err)
		return
	}

	rv := &review.Review{
		ID:       uuid.New(),
		UserID:   userID,
		AuthorID: author.ID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	}
	if err := rv.IsValid(); err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.Reviews.Create(c.Request.Context(), rv); err != nil {
		h.respondError(c, err)
		return
	}

	h.Logger.Info("Review submitted",
		logger.String("user_id", userID.String()),
		logger.String("author_id", author.ID.String()),
		logger.Int("rating", rv.Rating),
	)
	if h.Monitor != nil {
		h.Monitor.RecordReviewSubmitted(userID.String(), rv.Rating)
	}

	c.JSON(http.StatusCreated, rv)
}
