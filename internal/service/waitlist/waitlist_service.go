// Package waitlist queues users for full sessions and promotes the
// oldest entry when capacity frees up. Promotion goes through the same
// atomic claim as external bookings, so a freed spot is granted to
// whichever request reaches the store first; when promotion loses that
// race the entry stays queued for the next opportunity.
package waitlist

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kseleznev/stayfit/internal/domain"
	"github.com/kseleznev/stayfit/internal/kafka"
	"github.com/kseleznev/stayfit/internal/metrics"
	"github.com/kseleznev/stayfit/internal/repository"
)

type WaitlistUseCase interface {
	Join(ctx context.Context, userID, sessionID uuid.UUID) (*domain.WaitlistEntry, error)
	Leave(ctx context.Context, userID, sessionID uuid.UUID) error
	ListMine(ctx context.Context, userID uuid.UUID) ([]domain.WaitlistView, error)
	// PromoteNext converts the oldest waitlist entry for the session into
	// a confirmed booking. Returns domain.ErrWaitlistEmpty when nobody is
	// queued and domain.ErrSessionFull when the freed spot was claimed by
	// someone else first; in the latter case the entry is preserved.
	PromoteNext(ctx context.Context, sessionID uuid.UUID) (*domain.Booking, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type WaitlistService struct {
	sessions           repository.SessionRepository
	waitlist           repository.WaitlistRepository
	bookings           repository.BookingRepository
	producer           Producer
	notificationsTopic string
}

type WaitlistServiceOption func(*WaitlistService)

func WithProducer(producer Producer, notificationsTopic string) WaitlistServiceOption {
	return func(s *WaitlistService) {
		s.producer = producer
		s.notificationsTopic = notificationsTopic
	}
}

func NewWaitlistService(
	sessions repository.SessionRepository,
	waitlist repository.WaitlistRepository,
	bookings repository.BookingRepository,
	opts ...WaitlistServiceOption,
) *WaitlistService {
	service := &WaitlistService{
		sessions: sessions,
		waitlist: waitlist,
		bookings: bookings,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *WaitlistService) Join(ctx context.Context, userID, sessionID uuid.UUID) (*domain.WaitlistEntry, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.SessionStatusScheduled {
		return nil, domain.ErrSessionNotFound
	}
	if session.SpotsRemaining() > 0 {
		return nil, domain.ErrSpotsAvailable
	}

	entry := &domain.WaitlistEntry{SessionID: sessionID, UserID: userID}
	if err := s.waitlist.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *WaitlistService) Leave(ctx context.Context, userID, sessionID uuid.UUID) error {
	return s.waitlist.Delete(ctx, sessionID, userID)
}

func (s *WaitlistService) ListMine(ctx context.Context, userID uuid.UUID) ([]domain.WaitlistView, error) {
	return s.waitlist.ListByUser(ctx, userID)
}

func (s *WaitlistService) PromoteNext(ctx context.Context, sessionID uuid.UUID) (*domain.Booking, error) {
	entry, err := s.waitlist.Oldest(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrWaitlistEmpty) {
			metrics.IncPromotion("empty")
		}
		return nil, err
	}

	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// Same atomic claim as direct bookings; losing the race leaves the
	// entry untouched for a later trigger.
	if err := s.sessions.ClaimSpot(ctx, sessionID); err != nil {
		if errors.Is(err, domain.ErrSessionFull) {
			metrics.IncPromotion("lost_race")
		}
		return nil, err
	}

	booking := &domain.Booking{
		UserID:     entry.UserID,
		Kind:       domain.BookingKindSession,
		ResourceID: session.ID,
		StartAt:    session.StartAt,
		EndAt:      session.EndAt,
		TotalCents: session.PriceCents,
		Status:     domain.BookingStatusConfirmed,
	}
	// The entry is only removed in the same transaction that makes the
	// replacement booking durable; it can never be silently lost.
	if err := s.bookings.CreateWithWaitlistRemoval(ctx, booking, entry.ID); err != nil {
		if relErr := s.sessions.ReleaseSpot(ctx, sessionID); relErr != nil {
			log.Warn().Err(relErr).Stringer("session_id", sessionID).Msg("failed to release spot after promotion rollback")
		}
		if errors.Is(err, domain.ErrDuplicateBooking) {
			// The queued user already holds a live booking for this
			// session; their entry is stale and would block the queue.
			if delErr := s.waitlist.Delete(ctx, sessionID, entry.UserID); delErr != nil {
				log.Warn().Err(delErr).Stringer("session_id", sessionID).Msg("failed to drop stale waitlist entry")
			}
		}
		metrics.IncPromotion("failed")
		return nil, err
	}

	metrics.IncPromotion("promoted")
	s.publishPromoted(ctx, booking)
	return booking, nil
}

func (s *WaitlistService) publishPromoted(ctx context.Context, booking *domain.Booking) {
	if s.producer == nil || s.notificationsTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:       kafka.EventWaitlistPromoted,
		BookingID:  booking.ID.String(),
		UserID:     booking.UserID.String(),
		Kind:       string(booking.Kind),
		ResourceID: booking.ResourceID.String(),
		StartAt:    booking.StartAt,
		EndAt:      booking.EndAt,
		TotalCents: booking.TotalCents,
		Status:     string(booking.Status),
	}
	if err := s.producer.Publish(ctx, s.notificationsTopic, booking.ResourceID.String(), event); err != nil {
		log.Warn().Err(err).Msg("failed to publish waitlist_promoted event")
	}
}

var _ WaitlistUseCase = (*WaitlistService)(nil)
