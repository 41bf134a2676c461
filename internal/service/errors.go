package service

import "errors"

// Sentinel errors returned by the services.  Handlers map them to HTTP
// statuses with errors.Is.
var (
	ErrReservationNotFound = errors.New("reservation not found")
	ErrRoomsUnavailable    = errors.New("rooms not available for the selected dates")
	ErrInvalidInput        = errors.New("invalid input")
	ErrForbidden           = errors.New("forbidden")
)
