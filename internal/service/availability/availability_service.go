// Package availability computes per-day remaining capacity for stay
// listings. It is a pure read over a single bookings snapshot; nothing
// here mutates state.
package availability

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kseleznev/stayfit/internal/calendar"
	"github.com/kseleznev/stayfit/internal/domain"
	"github.com/kseleznev/stayfit/internal/repository"
)

type AvailabilityUseCase interface {
	ListingAvailability(ctx context.Context, listingID uuid.UUID, start, end time.Time) (*Report, error)
}

// Report maps every day in the requested range to its remaining capacity.
// Blackout days are listed separately so callers can mark them
// unavailable regardless of the count.
type Report struct {
	Capacity      int            `json:"capacity"`
	Days          map[string]int `json:"days"`
	BlackoutDates []string       `json:"blackout_dates"`
}

type AvailabilityService struct {
	listings repository.ListingRepository
	bookings repository.BookingRepository
}

func NewAvailabilityService(listings repository.ListingRepository, bookings repository.BookingRepository) *AvailabilityService {
	return &AvailabilityService{listings: listings, bookings: bookings}
}

func (s *AvailabilityService) ListingAvailability(ctx context.Context, listingID uuid.UUID, start, end time.Time) (*Report, error) {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !start.Before(end) {
		return nil, domain.ErrInvalidRange
	}

	// One query for all overlapping bookings: the per-day picture is built
	// from a single consistent snapshot rather than per-day lookups.
	periods, err := s.bookings.ListOverlappingStays(ctx, listingID, start, end)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, p := range periods {
		for d := range calendar.EachDayUTC(p.StartAt, p.EndAt) {
			counts[calendar.DateKey(d)]++
		}
	}

	days := make(map[string]int)
	for d := range calendar.EachDayUTC(start, end) {
		key := calendar.DateKey(d)
		remaining := listing.Capacity - counts[key]
		if remaining < 0 {
			remaining = 0
		}
		days[key] = remaining
	}

	blackouts := make([]string, 0, len(listing.BlackoutDates))
	for _, d := range listing.BlackoutDates {
		blackouts = append(blackouts, calendar.DateKey(d))
	}

	return &Report{Capacity: listing.Capacity, Days: days, BlackoutDates: blackouts}, nil
}

var _ AvailabilityUseCase = (*AvailabilityService)(nil)
