package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	// BookingStatusPending is reserved for a future payment flow; no
	// exposed operation currently produces it.
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// BookingKind tags which resource variant a booking references. A booking
// references exactly one resource: a listing for stays, a class session
// otherwise.
type BookingKind string

const (
	BookingKindStay    BookingKind = "stay"
	BookingKindSession BookingKind = "session"
)

// Booking records a confirmed claim on a resource. StartAt/EndAt and
// TotalCents are snapshots taken at creation time; later changes to the
// resource do not retroactively update existing bookings.
type Booking struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Kind       BookingKind
	ResourceID uuid.UUID
	StartAt    time.Time
	EndAt      time.Time
	TotalCents int64
	Status     BookingStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (b *Booking) IsCancelled() bool { return b.Status == BookingStatusCancelled }

// HasStarted reports whether the booked period is already in progress or
// over; such bookings can no longer be cancelled.
func (b *Booking) HasStarted(now time.Time) bool { return !b.StartAt.After(now) }
