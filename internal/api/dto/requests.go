package dto

import (
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// RegisterRequest represents a new account registration
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CreateProfileRequest represents the first-time profile submission
type CreateProfileRequest struct {
	DisplayName string `json:"display_name" binding:"required,max=100"`
	Phone       string `json:"phone" binding:"omitempty,max=20"`
	About       string `json:"about"`
	Avatar      string `json:"avatar" binding:"omitempty,url"`
}

// UpdateProfileRequest carries a partial profile update; omitted fields
// stay as they are
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name" binding:"omitempty,max=100"`
	Phone       *string `json:"phone" binding:"omitempty,max=20"`
	About       *string `json:"about"`
	Avatar      *string `json:"avatar" binding:"omitempty,url"`
}

// CreateTripRequest represents a request to publish a new trip
type CreateTripRequest struct {
	Name          string    `json:"name" binding:"required,max=200"`
	StartPoint    string    `json:"start_point" binding:"required,max=200"`
	EndPoint      string    `json:"end_point" binding:"required,max=200"`
	DepartureDate time.Time `json:"departure_date" binding:"required"`
	TransportType string    `json:"transport_type" binding:"required,max=50"`
	TotalSeats    int       `json:"total_seats" binding:"gte=0"`
}

// UpdateTripRequest carries a partial trip update
type UpdateTripRequest struct {
	Name          *string    `json:"name" binding:"omitempty,max=200"`
	StartPoint    *string    `json:"start_point" binding:"omitempty,max=200"`
	EndPoint      *string    `json:"end_point" binding:"omitempty,max=200"`
	DepartureDate *time.Time `json:"departure_date"`
	TransportType *string    `json:"transport_type" binding:"omitempty,max=50"`
	TotalSeats    *int       `json:"total_seats" binding:"omitempty,gte=0"`
}

// JoinTripRequest identifies the trip to join or leave
type JoinTripRequest struct {
	TripID string `json:"trip_id" binding:"required,uuid"`
}

// CreateReviewRequest represents feedback about a user
type CreateReviewRequest struct {
	UserID  string `json:"user_id" binding:"required,uuid"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=2000"`
}

// UserResponse is the public view of an account
type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// LoginResponse carries the bearer token issued on login
type LoginResponse struct {
	Token  string    `json:"token"`
	UserID uuid.UUID `json:"user_id"`
}

// PaginatedResponse is the page envelope for list endpoints
type PaginatedResponse struct {
	Count    int         `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// ErrorResponse is the JSON error shape
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// SuccessResponse wraps an informational message
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// FieldErrors flattens validator errors into a field → message map for
// the 400 response body. Non-validator errors get a single generic entry.
func FieldErrors(err error) map[string]string {
	fields := make(map[string]string)

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		fields["body"] = "Invalid request payload"
		return fields
	}

	for _, fe := range validationErrs {
		fields[fieldName(fe)] = fieldMessage(fe)
	}
	return fields
}

func fieldName(fe validator.FieldError) string {
	// Gin registers a json-tag name func on its validator, so Field()
	// already carries the wire name.
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "uuid":
		return "Must be a valid UUID"
	case "url":
		return "Must be a valid URL"
	case "min":
		if fe.Kind().String() == "string" {
			return "Must be at least " + fe.Param() + " characters"
		}
		return "Must be at least " + fe.Param()
	case "max":
		if fe.Kind().String() == "string" {
			return "Must be at most " + fe.Param() + " characters"
		}
		return "Must be at most " + fe.Param()
	case "gte":
		return "Must be " + fe.Param() + " or greater"
	default:
		return "Invalid value"
	}
}

// RegisterFieldNameFunc makes the validator report json tag names instead
// of Go struct field names. Called once at startup.
func RegisterFieldNameFunc() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}
