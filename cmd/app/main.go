package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kseleznev/stayfit/config"
	"github.com/kseleznev/stayfit/internal/bootstrap"
	"github.com/kseleznev/stayfit/internal/cache"
	"github.com/kseleznev/stayfit/internal/calendar"
	"github.com/kseleznev/stayfit/internal/clock"
	"github.com/kseleznev/stayfit/internal/kafka"
	"github.com/kseleznev/stayfit/internal/metrics"
	"github.com/kseleznev/stayfit/internal/repository"
	"github.com/kseleznev/stayfit/internal/service/availability"
	"github.com/kseleznev/stayfit/internal/service/booking"
	"github.com/kseleznev/stayfit/internal/service/listings"
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

	listingRepo := repository.NewListingRepository(pool)
	templateRepo := repository.NewTemplateRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	waitlistRepo := repository.NewWaitlistRepository(pool)

	policy := calendar.Policy{
		BookAheadDays:   cfg.Booking.BookAheadDays,
		CloseBeforeMins: cfg.Booking.CloseBeforeMinutes,
	}
	clk := clock.NewRealClock()

	availabilitySvc := availability.NewAvailabilityService(listingRepo, bookingRepo)
	listingSvc := listings.NewListingService(listingRepo, redisCache)
	scheduleSvc := schedule.NewScheduleService(templateRepo, sessionRepo, redisCache, policy, clk)
	waitlistSvc := waitlist.NewWaitlistService(
		sessionRepo,
		waitlistRepo,
		bookingRepo,
		waitlist.WithProducer(producer, cfg.Kafka.NotificationsTopic),
	)
	bookingSvc := booking.NewBookingService(
		bookingRepo,
		listingRepo,
		sessionRepo,
		availabilitySvc,
		waitlistSvc,
		clk,
		booking.WithProducer(producer, cfg.Kafka.BookingEventsTopic, cfg.Kafka.NotificationsTopic),
	)

	err = bootstrap.Run(ctx, cfg, bootstrap.Services{
		Listings:     listingSvc,
		Availability: availabilitySvc,
		Schedule:     scheduleSvc,
		Bookings:     bookingSvc,
		Waitlist:     waitlistSvc,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
