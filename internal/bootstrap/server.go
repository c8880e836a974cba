package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kseleznev/stayfit/api"
	"github.com/kseleznev/stayfit/config"
	"github.com/kseleznev/stayfit/internal/middleware"
	"github.com/kseleznev/stayfit/internal/service/availability"
	"github.com/kseleznev/stayfit/internal/service/booking"
	"github.com/kseleznev/stayfit/internal/service/listings"
	"github.com/kseleznev/stayfit/internal/service/schedule"
	"github.com/kseleznev/stayfit/internal/service/waitlist"
)

type Services struct {
	Listings     listings.ListingUseCase
	Availability availability.AvailabilityUseCase
	Schedule     schedule.ScheduleUseCase
	Bookings     booking.BookingUseCase
	Waitlist     waitlist.WaitlistUseCase
}

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
func Run(ctx context.Context, cfg *config.Config, svc Services) error {
	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: NewRouter(cfg, svc),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func NewRouter(cfg *config.Config, svc Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")

	api.NewListingHandler(svc.Listings, svc.Availability).Register(v1.Group("/listings"))
	api.NewSessionHandler(svc.Schedule).Register(v1.Group("/classes"))

	auth := v1.Group("/")
	auth.Use(middleware.Auth(cfg.Auth.JWTSecret))
	api.NewBookingHandler(svc.Bookings).Register(auth)
	api.NewWaitlistHandler(svc.Waitlist).Register(auth.Group("/waitlist"))

	return router
}
