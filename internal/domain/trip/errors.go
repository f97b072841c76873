package trip

import "errors"

var (
	ErrTripNotFound         = errors.New("trip not found")
	ErrAlreadyMember        = errors.New("user is already a member of this trip")
	ErrNoCapacity           = errors.New("no available seats")
	ErrNotMember            = errors.New("user is not a member of this trip")
	ErrInvalidTripName      = errors.New("invalid trip name")
	ErrInvalidRoute         = errors.New("start and end point are required")
	ErrInvalidTransportType = errors.New("invalid transport type")
	ErrInvalidSeatCount     = errors.New("invalid seat count")
	ErrInvalidStatus        = errors.New("invalid trip status")
)
