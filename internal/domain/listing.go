package domain

import (
	"time"

	"github.com/google/uuid"
)

// Listing is a date-range bookable stay. Capacity is the number of
// concurrent units available on any single day.
type Listing struct {
	ID                uuid.UUID
	Title             string
	Description       string
	Location          string
	NightlyPriceCents int64
	Capacity          int
	MinStayNights     int
	BlackoutDates     []time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
