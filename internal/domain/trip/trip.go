package trip

import (
	"time"

	"github.com/google/uuid"
)

// Status represents trip lifecycle status
type Status string

const (
	// StatusNew is the initial status of every trip.
	StatusNew Status = "new"
	// StatusInProgress is set once the first member joins.
	StatusInProgress Status = "progress"
)

// IsValid validates the status
func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusInProgress:
		return true
	}
	return false
}

// Ordering values accepted by List
const (
	OrderDepartureAsc  = "departure_date"
	OrderDepartureDesc = "-departure_date"
)

// Trip represents a shareable journey with fixed capacity and a member set
type Trip struct {
	ID             uuid.UUID   `json:"id"`
	Name           string      `json:"name"`
	StartPoint     string      `json:"start_point"`
	EndPoint       string      `json:"end_point"`
	DepartureDate  time.Time   `json:"departure_date"`
	TransportType  string      `json:"transport_type"`
	TotalSeats     int         `json:"total_seats"`
	AvailableSeats int         `json:"available_seats"`
	Status         Status      `json:"status"`
	CreatorID      *uuid.UUID  `json:"creator_id,omitempty"`
	MemberIDs      []uuid.UUID `json:"member_ids,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// Filter restricts and orders trip listings
type Filter struct {
	StartPoint    string
	EndPoint      string
	DepartureDate *time.Time // matched on the date component
	TransportType string
	Search        string // substring match on name, start and end point
	Ordering      string // OrderDepartureAsc or OrderDepartureDesc
	Page          int
	PageSize      int
}

// IsValid validates the trip entity
func (t *Trip) IsValid() error {
	if t.Name == "" {
		return ErrInvalidTripName
	}
	if t.StartPoint == "" || t.EndPoint == "" {
		return ErrInvalidRoute
	}
	if t.TransportType == "" {
		return ErrInvalidTransportType
	}
	if t.TotalSeats < 0 {
		return ErrInvalidSeatCount
	}
	if t.AvailableSeats < 0 || t.AvailableSeats > t.TotalSeats {
		return ErrInvalidSeatCount
	}
	if !t.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}

// HasCapacity returns true if at least one seat is free
func (t *Trip) HasCapacity() bool {
	return t.AvailableSeats > 0
}

// HasMember reports whether the user is in the member set
func (t *Trip) HasMember(userID uuid.UUID) bool {
	for _, id := range t.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// SeatsTaken returns the number of occupied seats
func (t *Trip) SeatsTaken() int {
	return t.TotalSeats - t.AvailableSeats
}
