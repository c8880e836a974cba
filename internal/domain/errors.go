// Package domain defines the entities of the booking platform along with
// the sentinel errors shared across repositories, services and HTTP
// handlers. Higher layers compare against these values with errors.Is to
// translate failures into transport responses; every failure is a typed
// outcome returned synchronously, none is fatal to the process.
package domain

import "errors"

var (
	// Validation failures, rejected before any mutation.
	ErrInvalidRange = errors.New("invalid date range")
	ErrMinStay      = errors.New("minimum stay not met")

	// Missing resources.
	ErrListingNotFound  = errors.New("listing not found")
	ErrSessionNotFound  = errors.New("session not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrTemplateNotFound = errors.New("template not found")

	// Conflicts, rejected with no partial state change.
	ErrBlackoutConflict    = errors.New("dates include a blackout date")
	ErrUserOverlapConflict = errors.New("overlapping booking for this listing")
	ErrCapacityExceeded    = errors.New("no remaining capacity on requested dates")
	ErrDuplicateBooking    = errors.New("already booked on this session")
	ErrSessionFull         = errors.New("session is full or unavailable")
	ErrAlreadyCancelled    = errors.New("booking already cancelled")
	ErrPastBooking         = errors.New("booking already started or in the past")
	ErrSpotsAvailable      = errors.New("spots available, book directly")
	ErrAlreadyWaitlisted   = errors.New("already on the waitlist")
	ErrWaitlistEmpty       = errors.New("waitlist is empty")

	// ErrForbidden is returned when a user acts on a booking they do not own.
	ErrForbidden = errors.New("forbidden")
)
