package email

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/kseleznev/stayfit/internal/kafka"
)

// Sender delivers booking notifications. The current implementation only
// logs; it keeps the worker's delivery path in place for a real provider.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	log.Info().
		Str("type", event.Type).
		Str("user_id", event.UserID).
		Str("kind", event.Kind).
		Str("resource_id", event.ResourceID).
		Time("start_at", event.StartAt).
		Msg("sending booking notification")
	return nil
}
