// Package booking is the lifecycle orchestrator: it validates and
// creates stay and session bookings, cancels them, and drives the
// cancellation-to-promotion cascade for session bookings.
package booking

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kseleznev/stayfit/internal/calendar"
	"github.com/kseleznev/stayfit/internal/clock"
	"github.com/kseleznev/stayfit/internal/domain"
	"github.com/kseleznev/stayfit/internal/kafka"
	"github.com/kseleznev/stayfit/internal/metrics"
	"github.com/kseleznev/stayfit/internal/repository"
	"github.com/kseleznev/stayfit/internal/service/availability"
	"github.com/kseleznev/stayfit/internal/service/waitlist"
)

type BookingUseCase interface {
	CreateStayBooking(ctx context.Context, userID, listingID uuid.UUID, start, end time.Time) (*domain.Booking, error)
	CreateSessionBooking(ctx context.Context, userID, sessionID uuid.UUID) (*domain.Booking, error)
	Cancel(ctx context.Context, userID, bookingID uuid.UUID) (*domain.Booking, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	listings           repository.ListingRepository
	sessions           repository.SessionRepository
	availability       availability.AvailabilityUseCase
	waitlist           waitlist.WaitlistUseCase
	producer           Producer
	eventsTopic        string
	notificationsTopic string
	clock              clock.Clock
}

type BookingServiceOption func(*BookingService)

func WithProducer(producer Producer, eventsTopic, notificationsTopic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.eventsTopic = eventsTopic
		s.notificationsTopic = notificationsTopic
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	listings repository.ListingRepository,
	sessions repository.SessionRepository,
	availabilitySvc availability.AvailabilityUseCase,
	waitlistSvc waitlist.WaitlistUseCase,
	clk clock.Clock,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:     bookings,
		listings:     listings,
		sessions:     sessions,
		availability: availabilitySvc,
		waitlist:     waitlistSvc,
		clock:        clk,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) CreateStayBooking(ctx context.Context, userID, listingID uuid.UUID, start, end time.Time) (*domain.Booking, error) {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !start.Before(end) {
		return nil, domain.ErrInvalidRange
	}

	nights := int(math.Ceil(end.Sub(start).Hours() / 24))
	minStay := listing.MinStayNights
	if minStay < 1 {
		minStay = 1
	}
	if nights < minStay {
		return nil, domain.ErrMinStay
	}

	blackouts := calendar.DateKeySet(listing.BlackoutDates)
	for d := range calendar.EachDayUTC(start, end) {
		if _, blocked := blackouts[calendar.DateKey(d)]; blocked {
			return nil, domain.ErrBlackoutConflict
		}
	}

	overlap, err := s.bookings.HasUserOverlapStay(ctx, userID, listingID, start, end)
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, domain.ErrUserOverlapConflict
	}

	report, err := s.availability.ListingAvailability(ctx, listingID, start, end)
	if err != nil {
		return nil, err
	}
	for _, remaining := range report.Days {
		if remaining <= 0 {
			return nil, domain.ErrCapacityExceeded
		}
	}

	booking := &domain.Booking{
		UserID:     userID,
		Kind:       domain.BookingKindStay,
		ResourceID: listingID,
		StartAt:    start,
		EndAt:      end,
		TotalCents: int64(nights) * listing.NightlyPriceCents,
		Status:     domain.BookingStatusConfirmed,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	metrics.IncBookingCreated(string(domain.BookingKindStay))
	s.publish(ctx, kafka.EventBookingCreated, booking)
	return booking, nil
}

func (s *BookingService) CreateSessionBooking(ctx context.Context, userID, sessionID uuid.UUID) (*domain.Booking, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	dup, err := s.bookings.HasActiveSessionBooking(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, domain.ErrDuplicateBooking
	}

	// The capacity precondition and the increment are evaluated together
	// by the store; this is the only gate against overbooking.
	if err := s.sessions.ClaimSpot(ctx, sessionID); err != nil {
		if errors.Is(err, domain.ErrSessionFull) {
			metrics.IncClaim("full")
		}
		return nil, err
	}
	metrics.IncClaim("ok")

	booking := &domain.Booking{
		UserID:     userID,
		Kind:       domain.BookingKindSession,
		ResourceID: sessionID,
		StartAt:    session.StartAt,
		EndAt:      session.EndAt,
		TotalCents: session.PriceCents,
		Status:     domain.BookingStatusConfirmed,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		// Give the claimed spot back; the unique index may have rejected a
		// concurrent duplicate from the same user.
		if relErr := s.sessions.ReleaseSpot(ctx, sessionID); relErr != nil {
			log.Warn().Err(relErr).Stringer("session_id", sessionID).Msg("failed to release spot after booking rollback")
		}
		return nil, err
	}

	metrics.IncBookingCreated(string(domain.BookingKindSession))
	s.publish(ctx, kafka.EventBookingCreated, booking)
	return booking, nil
}

func (s *BookingService) Cancel(ctx context.Context, userID, bookingID uuid.UUID) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, domain.ErrForbidden
	}
	if booking.IsCancelled() {
		return nil, domain.ErrAlreadyCancelled
	}
	if booking.HasStarted(s.clock.Now()) {
		return nil, domain.ErrPastBooking
	}

	ok, err := s.bookings.Cancel(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !ok {
		// A concurrent cancel won; the transition is one-way.
		return nil, domain.ErrAlreadyCancelled
	}
	booking.Status = domain.BookingStatusCancelled

	if booking.Kind == domain.BookingKindSession {
		if err := s.sessions.ReleaseSpot(ctx, booking.ResourceID); err != nil {
			log.Warn().Err(err).Stringer("session_id", booking.ResourceID).Msg("failed to release spot on cancellation")
		} else if _, err := s.waitlist.PromoteNext(ctx, booking.ResourceID); err != nil {
			// Promotion is best-effort and independently retryable; the
			// cancellation itself has already succeeded.
			if !errors.Is(err, domain.ErrWaitlistEmpty) {
				log.Warn().Err(err).Stringer("session_id", booking.ResourceID).Msg("waitlist promotion failed, will retry on next trigger")
			}
		}
	}

	metrics.IncBookingCancelled()
	s.publish(ctx, kafka.EventBookingCancelled, booking)
	return booking, nil
}

func (s *BookingService) ListMine(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:       eventType,
		BookingID:  booking.ID.String(),
		UserID:     booking.UserID.String(),
		Kind:       string(booking.Kind),
		ResourceID: booking.ResourceID.String(),
		StartAt:    booking.StartAt,
		EndAt:      booking.EndAt,
		TotalCents: booking.TotalCents,
		Status:     string(booking.Status),
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, booking.ID.String(), event); err != nil {
		log.Warn().Err(err).Str("type", eventType).Msg("failed to publish booking event")
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, booking.ID.String(), event); err != nil {
			log.Warn().Err(err).Str("type", eventType).Msg("failed to publish notification event")
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
