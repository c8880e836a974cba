package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kseleznev/stayfit/internal/domain"
)

type SessionRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ClassSession, error)
	// Upsert inserts a session keyed by (template_id, start_at) and reports
	// whether a new row was created. Existing sessions are left untouched,
	// including their spots_taken counter.
	Upsert(ctx context.Context, s *domain.ClassSession) (bool, error)
	ListInRange(ctx context.Context, from, to time.Time, instructor string) ([]domain.SessionView, error)
	// ListPromotable returns ids of scheduled sessions that have free
	// capacity and at least one waitlist entry. The worker uses it to retry
	// promotions that lost an earlier race.
	ListPromotable(ctx context.Context) ([]uuid.UUID, error)
	// ClaimSpot atomically takes one capacity unit. The capacity check and
	// the increment are a single conditional UPDATE so that two concurrent
	// claims against the last spot cannot both succeed. Returns
	// domain.ErrSessionFull when the session is full or not scheduled.
	ClaimSpot(ctx context.Context, id uuid.UUID) error
	// ReleaseSpot atomically returns one capacity unit, guarded by
	// spots_taken > 0.
	ReleaseSpot(ctx context.Context, id uuid.UUID) error
}

type PGSessionRepository struct {
	db *pgxpool.Pool
}

func NewSessionRepository(db *pgxpool.Pool) SessionRepository {
	return &PGSessionRepository{db: db}
}

const sessionColumns = `id, template_id, start_at, end_at, capacity, price_cents, spots_taken, status, created_at, updated_at`

func (r *PGSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ClassSession, error) {
	row := r.db.QueryRow(ctx, `SELECT `+sessionColumns+` FROM class_sessions WHERE id=$1`, id)
	var s domain.ClassSession
	if err := row.Scan(&s.ID, &s.TemplateID, &s.StartAt, &s.EndAt, &s.Capacity,
		&s.PriceCents, &s.SpotsTaken, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGSessionRepository) Upsert(ctx context.Context, s *domain.ClassSession) (bool, error) {
	// ON CONFLICT DO NOTHING makes concurrent materialization of the same
	// (template, start) pair safe: at most one row is created and the
	// losing caller simply observes created=false.
	tag, err := r.db.Exec(ctx, `
		INSERT INTO class_sessions (template_id, start_at, end_at, capacity, price_cents, spots_taken, status)
		VALUES ($1, $2, $3, $4, $5, 0, $6)
		ON CONFLICT (template_id, start_at) DO NOTHING`,
		s.TemplateID, s.StartAt, s.EndAt, s.Capacity, s.PriceCents, domain.SessionStatusScheduled)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PGSessionRepository) ListInRange(ctx context.Context, from, to time.Time, instructor string) ([]domain.SessionView, error) {
	query := `
		SELECT s.id, s.template_id, t.name, t.instructor, t.location, t.duration_mins,
		       s.start_at, s.end_at, s.capacity, s.price_cents, s.spots_taken
		FROM class_sessions s
		JOIN class_templates t ON t.id = s.template_id
		WHERE s.start_at >= $1 AND s.end_at <= $2 AND s.status = 'scheduled'`
	args := []any{from, to}
	if instructor != "" {
		query += ` AND t.instructor = $3`
		args = append(args, instructor)
	}
	query += ` ORDER BY s.start_at`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := make([]domain.SessionView, 0)
	for rows.Next() {
		var v domain.SessionView
		var spotsTaken int
		if err := rows.Scan(&v.ID, &v.TemplateID, &v.TemplateName, &v.Instructor, &v.Location,
			&v.DurationMins, &v.StartAt, &v.EndAt, &v.Capacity, &v.PriceCents, &spotsTaken); err != nil {
			return nil, err
		}
		v.SpotsRemaining = v.Capacity - spotsTaken
		if v.SpotsRemaining < 0 {
			v.SpotsRemaining = 0
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

func (r *PGSessionRepository) ListPromotable(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT s.id
		FROM class_sessions s
		JOIN waitlist_entries w ON w.session_id = s.id
		WHERE s.status = 'scheduled' AND s.spots_taken < s.capacity AND s.start_at > now()`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *PGSessionRepository) ClaimSpot(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE class_sessions
		SET spots_taken = spots_taken + 1, updated_at = now()
		WHERE id = $1 AND status = 'scheduled' AND spots_taken < capacity`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionFull
	}
	return nil
}

func (r *PGSessionRepository) ReleaseSpot(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
		UPDATE class_sessions
		SET spots_taken = spots_taken - 1, updated_at = now()
		WHERE id = $1 AND spots_taken > 0`, id)
	return err
}

var _ SessionRepository = (*PGSessionRepository)(nil)
