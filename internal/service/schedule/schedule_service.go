// Package schedule materializes class sessions from recurring templates
// and serves the session listing with computed remaining spots and the
// advisory bookable flag.
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kseleznev/stayfit/internal/calendar"
	"github.com/kseleznev/stayfit/internal/clock"
	"github.com/kseleznev/stayfit/internal/domain"
	"github.com/kseleznev/stayfit/internal/metrics"
	"github.com/kseleznev/stayfit/internal/repository"
)

type ScheduleUseCase interface {
	// GenerateSessions expands every active template over [from, to) and
	// returns how many sessions were newly created. Idempotent: a second
	// call over the same range creates nothing and resets nothing.
	GenerateSessions(ctx context.Context, from, to time.Time) (int, error)
	ListSessions(ctx context.Context, from, to time.Time, instructor string) ([]domain.SessionView, error)
	ListTemplates(ctx context.Context) ([]domain.ClassTemplate, error)
}

// Cache is the session-listing read cache; nil disables caching.
type Cache interface {
	GetSessions(ctx context.Context, key string) ([]domain.SessionView, error)
	SetSessions(ctx context.Context, key string, views []domain.SessionView) error
	InvalidateSessions(ctx context.Context) error
}

type ScheduleService struct {
	templates repository.TemplateRepository
	sessions  repository.SessionRepository
	cache     Cache
	policy    calendar.Policy
	clock     clock.Clock
}

func NewScheduleService(
	templates repository.TemplateRepository,
	sessions repository.SessionRepository,
	cache Cache,
	policy calendar.Policy,
	clk clock.Clock,
) *ScheduleService {
	return &ScheduleService{
		templates: templates,
		sessions:  sessions,
		cache:     cache,
		policy:    policy,
		clock:     clk,
	}
}

func (s *ScheduleService) GenerateSessions(ctx context.Context, from, to time.Time) (int, error) {
	templates, err := s.templates.ListActive(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, t := range templates {
		blackouts := calendar.DateKeySet(t.BlackoutDates)
		for day := range calendar.EachDayUTC(from, to) {
			if !t.RecursOn(day.Weekday()) {
				continue
			}
			if _, blocked := blackouts[calendar.DateKey(day)]; blocked {
				continue
			}
			start, err := calendar.CombineDateTime(day, t.StartTime)
			if err != nil {
				log.Warn().Err(err).Str("template", t.Name).Msg("skipping template with bad start time")
				break
			}
			session := &domain.ClassSession{
				TemplateID: t.ID,
				StartAt:    start,
				EndAt:      start.Add(time.Duration(t.DurationMins) * time.Minute),
				Capacity:   t.Capacity,
				PriceCents: t.PriceCents,
				Status:     domain.SessionStatusScheduled,
			}
			ok, err := s.sessions.Upsert(ctx, session)
			if err != nil {
				return created, err
			}
			if ok {
				created++
			}
		}
	}

	if created > 0 {
		metrics.AddSessionsMaterialized(created)
		if s.cache != nil {
			if err := s.cache.InvalidateSessions(ctx); err != nil {
				log.Warn().Err(err).Msg("failed to invalidate sessions cache")
			}
		}
	}
	return created, nil
}

func (s *ScheduleService) ListSessions(ctx context.Context, from, to time.Time, instructor string) ([]domain.SessionView, error) {
	if !from.Before(to) {
		return nil, domain.ErrInvalidRange
	}

	key := sessionsCacheKey(from, to, instructor)
	if s.cache != nil {
		if cached, err := s.cache.GetSessions(ctx, key); err == nil && cached != nil {
			return s.withBookable(cached), nil
		}
	}

	views, err := s.sessions.ListInRange(ctx, from, to, instructor)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetSessions(ctx, key, views)
	}
	return s.withBookable(views), nil
}

func (s *ScheduleService) ListTemplates(ctx context.Context) ([]domain.ClassTemplate, error) {
	return s.templates.List(ctx)
}

// withBookable recomputes the advisory window flag at read time, so
// cached entries cannot serve a stale bookable value.
func (s *ScheduleService) withBookable(views []domain.SessionView) []domain.SessionView {
	now := s.clock.Now()
	for i := range views {
		views[i].Bookable = calendar.WindowFor(views[i].StartAt, now, s.policy).Bookable
	}
	return views
}

func sessionsCacheKey(from, to time.Time, instructor string) string {
	return fmt.Sprintf("%d:%d:%s", from.Unix(), to.Unix(), instructor)
}

var _ ScheduleUseCase = (*ScheduleService)(nil)
