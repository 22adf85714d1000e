package domain

import "errors"

var (
	ErrAccommodationNotFound = errors.New("accommodation not found")
	ErrMemberNotFound        = errors.New("member not found")
	ErrReservationNotFound   = errors.New("reservation not found")
	ErrInvalidDateRange      = errors.New("check-in date must be before check-out date")
	ErrAlreadyReserved       = errors.New("dates are already reserved")

	// ErrHoldNotFound is returned by confirm when the full set of PENDING
	// reserved dates for the range does not exist, e.g. confirm without a
	// prior tentative reservation or after the hold was swept.
	ErrHoldNotFound = errors.New("no tentative hold for the requested dates")
)
