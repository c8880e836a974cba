package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kseleznev/stayfit/internal/domain"
)

type WaitlistRepository interface {
	Create(ctx context.Context, e *domain.WaitlistEntry) error
	// Delete removes the (session, user) entry if present; deleting an
	// absent entry is a no-op.
	Delete(ctx context.Context, sessionID, userID uuid.UUID) error
	// Oldest returns the entry with the earliest created_at for the
	// session, or domain.ErrWaitlistEmpty.
	Oldest(ctx context.Context, sessionID uuid.UUID) (*domain.WaitlistEntry, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.WaitlistView, error)
}

type PGWaitlistRepository struct {
	db *pgxpool.Pool
}

func NewWaitlistRepository(db *pgxpool.Pool) WaitlistRepository {
	return &PGWaitlistRepository{db: db}
}

func (r *PGWaitlistRepository) Create(ctx context.Context, e *domain.WaitlistEntry) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO waitlist_entries (session_id, user_id)
		VALUES ($1, $2)
		RETURNING id, created_at`, e.SessionID, e.UserID).
		Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		if isConstraintViolation(err, "waitlist_session_user_uniq") {
			return domain.ErrAlreadyWaitlisted
		}
		return err
	}
	return nil
}

func (r *PGWaitlistRepository) Delete(ctx context.Context, sessionID, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM waitlist_entries WHERE session_id=$1 AND user_id=$2`, sessionID, userID)
	return err
}

func (r *PGWaitlistRepository) Oldest(ctx context.Context, sessionID uuid.UUID) (*domain.WaitlistEntry, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, session_id, user_id, created_at
		FROM waitlist_entries
		WHERE session_id = $1
		ORDER BY created_at, id
		LIMIT 1`, sessionID)
	var e domain.WaitlistEntry
	if err := row.Scan(&e.ID, &e.SessionID, &e.UserID, &e.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWaitlistEmpty
		}
		return nil, err
	}
	return &e, nil
}

func (r *PGWaitlistRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.WaitlistView, error) {
	rows, err := r.db.Query(ctx, `
		SELECT w.id, w.session_id, w.user_id, w.created_at,
		       s.start_at, s.end_at, t.name, t.instructor, t.location
		FROM waitlist_entries w
		JOIN class_sessions s ON s.id = w.session_id
		JOIN class_templates t ON t.id = s.template_id
		WHERE w.user_id = $1
		ORDER BY w.created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := make([]domain.WaitlistView, 0)
	for rows.Next() {
		var v domain.WaitlistView
		if err := rows.Scan(&v.Entry.ID, &v.Entry.SessionID, &v.Entry.UserID, &v.Entry.CreatedAt,
			&v.SessionStart, &v.SessionEnd, &v.TemplateName, &v.Instructor, &v.Location); err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

var _ WaitlistRepository = (*PGWaitlistRepository)(nil)
