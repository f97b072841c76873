package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/govoyage/trip-sharing/internal/api/dto"
	"github.com/govoyage/trip-sharing/internal/api/middleware"
	"github.com/govoyage/trip-sharing/internal/domain/trip"
	apperrors "github.com/govoyage/trip-sharing/pkg/errors"
	"github.com/govoyage/trip-sharing/pkg/logger"
)

// ListTrips handles GET /trips/
//
// Query parameters: start_point, end_point (finish_point accepted as an
// alias), departure_date (YYYY-MM-DD), transport_type, search, ordering
// (departure_date or -departure_date), page, page_size.
func (h *Handlers) ListTrips(c *gin.Context) {
	filter, err := h.parseTripFilter(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	trips, total, err := h.Trips.List(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PaginatedResponse{
		Count:    total,
		Next:     h.pageURL(c, filter, total, filter.Page+1),
		Previous: h.pageURL(c, filter, total, filter.Page-1),
		Results:  trips,
	})
}

// CreateTrip handles POST /trip/detail/
func (h *Handlers) CreateTrip(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		h.respondError(c, apperrors.ErrInvalidToken)
		return
	}

	var req dto.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondValidation(c, err)
		return
	}

	creatorID := u.ID
	t := &trip.Trip{
		ID:             uuid.New(),
		Name:           req.Name,
		StartPoint:     req.StartPoint,
		EndPoint:       req.EndPoint,
		DepartureDate:  req.DepartureDate,
		TransportType:  req.TransportType,
		TotalSeats:     req.TotalSeats,
		AvailableSeats: req.TotalSeats,
		Status:         trip.StatusNew,
		CreatorID:      &creatorID,
	}

	if err := h.Trips.Create(c.Request.Context(), t); err != nil {
		h.respondError(c, err)
		return
	}

	h.Logger.Info("Trip created",
		logger.String("trip_id", t.ID.String()),
		logger.String("creator_id", creatorID.String()),
		logger.Int("total_seats", t.TotalSeats),
	)
	if h.Monitor != nil {
		h.Monitor.RecordTripCreated(t.ID.String(), t.TransportType, t.TotalSeats)
	}

	c.JSON(http.StatusCreated, t)
}

// GetTrip handles GET /trip/detail/:id
func (h *Handlers) GetTrip(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.respondError(c, apperrors.ErrTripNotFound)
		return
	}

	t, err := h.Trips.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, t)
}

// UpdateTrip handles PUT /trip/detail/:id
//
// Fields absent from the body are left untouched. Changing total_seats
// recomputes available_seats so the taken-seat count is preserved.
func (h *Handlers) UpdateTrip(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.respondError(c, apperrors.ErrTripNotFound)
		return
	}

	var req dto.UpdateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondValidation(c, err)
		return
	}

	t, err := h.Trips.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.StartPoint != nil {
		t.StartPoint = *req.StartPoint
	}
	if req.EndPoint != nil {
		t.EndPoint = *req.EndPoint
	}
	if req.DepartureDate != nil {
		t.DepartureDate = *req.DepartureDate
	}
	if req.TransportType != nil {
		t.TransportType = *req.TransportType
	}
	if req.TotalSeats != nil {
		taken := t.SeatsTaken()
		t.TotalSeats = *req.TotalSeats
		t.AvailableSeats = t.TotalSeats - taken
		if t.AvailableSeats < 0 {
			t.AvailableSeats = 0
		}
	}

	if err := t.IsValid(); err != nil {
		h.respondError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	if err := h.Trips.Update(c.Request.Context(), t); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, t)
}

// DeleteTrip handles DELETE /trip/detail/:id
func (h *Handlers) DeleteTrip(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.respondError(c, apperrors.ErrTripNotFound)
		return
	}

	if err := h.Trips.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	h.Logger.Info("Trip deleted", logger.String("trip_id", id.String()))

	c.Status(http.StatusNoContent)
}

func (h *Handlers) parseTripFilter(c *gin.Context) (trip.Filter, error) {
	filter := trip.Filter{
		StartPoint:    c.Query("start_point"),
		EndPoint:      c.Query("end_point"),
		TransportType: c.Query("transport_type"),
		Search:        c.Query("search"),
		Page:          1,
		PageSize:      h.Pagination.PageSize,
	}

	// finish_point is the legacy alias for end_point
	if filter.EndPoint == "" {
		filter.EndPoint = c.Query("finish_point")
	}

	if raw := c.Query("departure_date"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, apperrors.Validation("Validation failed", map[string]string{
				"departure_date": "Must be a date in YYYY-MM-DD format",
			})
		}
		filter.DepartureDate = &d
	}

	switch ordering := c.Query("ordering"); ordering {
	case "", trip.OrderDepartureAsc, trip.OrderDepartureDesc:
		filter.Ordering = ordering
	default:
		return filter, apperrors.Validation("Validation failed", map[string]string{
			"ordering": "Must be departure_date or -departure_date",
		})
	}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return filter, apperrors.Validation("Validation failed", map[string]string{
				"page": "Must be a positive integer",
			})
		}
		filter.Page = page
	}

	if raw := c.Query("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			return filter, apperrors.Validation("Validation failed", map[string]string{
				"page_size": "Must be a positive integer",
			})
		}
		if size > h.Pagination.MaxPageSize {
			size = h.Pagination.MaxPageSize
		}
		filter.PageSize = size
	}

	return filter, nil
}

// pageURL builds the next/previous link for the pagination envelope,
// or nil when the page is out of range.
func (h *Handlers) pageURL(c *gin.Context, filter trip.Filter, total, page int) *string {
	if page < 1 {
		return nil
	}
	lastPage := (total + filter.PageSize - 1) / filter.PageSize
	if page > lastPage {
		return nil
	}

	u := *c.Request.URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	link := u.String()
	return &link
}
