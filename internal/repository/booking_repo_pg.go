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

// BookingPeriod is the start/end slice of a booking used by the
// availability engine. Fetching only the window keeps the overlap query
// a single consistent snapshot.
type BookingPeriod struct {
	StartAt time.Time
	EndAt   time.Time
}

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	// CreateWithWaitlistRemoval inserts a promotion booking and deletes the
	// promoted waitlist entry in one transaction, so the entry only
	// disappears once its replacement booking is durable.
	CreateWithWaitlistRemoval(ctx context.Context, b *domain.Booking, entryID uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error)
	// ListOverlappingStays returns the periods of all non-cancelled stay
	// bookings for a listing whose [start_at, end_at) intersects [start, end).
	ListOverlappingStays(ctx context.Context, listingID uuid.UUID, start, end time.Time) ([]BookingPeriod, error)
	HasUserOverlapStay(ctx context.Context, userID, listingID uuid.UUID, start, end time.Time) (bool, error)
	HasActiveSessionBooking(ctx context.Context, userID, sessionID uuid.UUID) (bool, error)
	// Cancel flips a booking to cancelled, guarded so the transition is
	// one-way. Returns false when the row was already cancelled or missing.
	Cancel(ctx context.Context, id uuid.UUID) (bool, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, user_id, kind, resource_id, start_at, end_at, total_cents, status, created_at, updated_at`

const insertBookingSQL = `
	INSERT INTO bookings (user_id, kind, resource_id, start_at, end_at, total_cents, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, created_at, updated_at`

func (r *PGBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	err := r.db.QueryRow(ctx, insertBookingSQL,
		b.UserID, b.Kind, b.ResourceID, b.StartAt, b.EndAt, b.TotalCents, b.Status).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	return mapBookingInsertErr(err)
}

func (r *PGBookingRepository) CreateWithWaitlistRemoval(ctx context.Context, b *domain.Booking, entryID uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, insertBookingSQL,
		b.UserID, b.Kind, b.ResourceID, b.StartAt, b.EndAt, b.TotalCents, b.Status).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return mapBookingInsertErr(err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM waitlist_entries WHERE id=$1`, entryID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func mapBookingInsertErr(err error) error {
	if err == nil {
		return nil
	}
	// Constraint names from migrations/0001_init.sql; these back the
	// application-level checks so concurrent duplicates cannot slip through.
	if isConstraintViolation(err, "bookings_user_session_uniq") {
		return domain.ErrDuplicateBooking
	}
	if isConstraintViolation(err, "bookings_user_stay_no_overlap") {
		return domain.ErrUserOverlapConflict
	}
	return err
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE user_id=$1 ORDER BY start_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) ListOverlappingStays(ctx context.Context, listingID uuid.UUID, start, end time.Time) ([]BookingPeriod, error) {
	rows, err := r.db.Query(ctx, `
		SELECT start_at, end_at FROM bookings
		WHERE kind = 'stay' AND resource_id = $1 AND status <> 'cancelled'
		  AND start_at < $3 AND end_at > $2`, listingID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	periods := make([]BookingPeriod, 0)
	for rows.Next() {
		var p BookingPeriod
		if err := rows.Scan(&p.StartAt, &p.EndAt); err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

func (r *PGBookingRepository) HasUserOverlapStay(ctx context.Context, userID, listingID uuid.UUID, start, end time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE kind = 'stay' AND user_id = $1 AND resource_id = $2 AND status <> 'cancelled'
			  AND start_at < $4 AND end_at > $3
		)`, userID, listingID, start, end).Scan(&exists)
	return exists, err
}

func (r *PGBookingRepository) HasActiveSessionBooking(ctx context.Context, userID, sessionID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE kind = 'session' AND user_id = $1 AND resource_id = $2 AND status <> 'cancelled'
		)`, userID, sessionID).Scan(&exists)
	return exists, err
}

func (r *PGBookingRepository) Cancel(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE bookings SET status = 'cancelled', updated_at = now()
		WHERE id = $1 AND status <> 'cancelled'`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.UserID, &b.Kind, &b.ResourceID, &b.StartAt, &b.EndAt,
		&b.TotalCents, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
