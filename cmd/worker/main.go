package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"

	"github.com/kseleznev/stayfit/config"
	"github.com/kseleznev/stayfit/internal/cache"
	"github.com/kseleznev/stayfit/internal/calendar"
	"github.com/kseleznev/stayfit/internal/clock"
	"github.com/kseleznev/stayfit/internal/domain"
	"github.com/kseleznev/stayfit/internal/email"
	"github.com/kseleznev/stayfit/internal/kafka"
	"github.com/kseleznev/stayfit/internal/metrics"
	"github.com/kseleznev/stayfit/internal/repository"
	"github.com/kseleznev/stayfit/internal/service/schedule"
	"github.com/kseleznev/stayfit/internal/service/waitlist"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	metrics.Register()

	redisCache := cache.NewRedisCache(
		cfg.Redis,
		time.Duration(cfg.Booking.ListingsCacheTTLSec)*time.Second,
		time.Duration(cfg.Booking.SessionsCacheTTLSec)*time.Second,
	)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	templateRepo := repository.NewTemplateRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	waitlistRepo := repository.NewWaitlistRepository(pool)

	policy := calendar.Policy{
		BookAheadDays:   cfg.Booking.BookAheadDays,
		CloseBeforeMins: cfg.Booking.CloseBeforeMinutes,
	}
	clk := clock.NewRealClock()

	scheduleSvc := schedule.NewScheduleService(templateRepo, sessionRepo, redisCache, policy, clk)
	waitlistSvc := waitlist.NewWaitlistService(
		sessionRepo,
		waitlistRepo,
		bookingRepo,
		waitlist.WithProducer(producer, cfg.Kafka.NotificationsTopic),
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender()

	go func() {
		err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.BookingEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Warn().Err(err).Msg("decode notification event")
				return nil
			}
			return emailSender.Send(ctx, event)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("consumer stopped")
		}
	}()

	materializeTicker := time.NewTicker(time.Duration(cfg.Worker.MaterializeSweepMinutes) * time.Minute)
	defer materializeTicker.Stop()
	promoteTicker := time.NewTicker(time.Duration(cfg.Worker.PromotionSweepMinutes) * time.Minute)
	defer promoteTicker.Stop()

	materialize := func() {
		now := clk.Now()
		horizon := now.AddDate(0, 0, cfg.Worker.MaterializeHorizonDays)
		created, err := scheduleSvc.GenerateSessions(ctx, now, horizon)
		if err != nil {
			log.Error().Err(err).Msg("materialize sweep")
			return
		}
		if created > 0 {
			log.Info().Int("created", created).Msg("materialized sessions")
		}
	}

	promoteSweep := func() {
		ids, err := sessionRepo.ListPromotable(ctx)
		if err != nil {
			log.Error().Err(err).Msg("list promotable sessions")
			return
		}
		for _, id := range ids {
			for {
				_, err := waitlistSvc.PromoteNext(ctx, id)
				if err != nil {
					if !errors.Is(err, domain.ErrWaitlistEmpty) && !errors.Is(err, domain.ErrSessionFull) {
						log.Error().Err(err).Stringer("session_id", id).Msg("promotion sweep")
					}
					break
				}
			}
		}
	}

	// Fill the schedule immediately on startup, then keep sweeping.
	materialize()

	for {
		select {
		case <-materializeTicker.C:
			materialize()
		case <-promoteTicker.C:
			promoteSweep()
		case <-ctx.Done():
			log.Info().Msg("shutting down")
			return
		}
	}
}
