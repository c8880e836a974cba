package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kseleznev/stayfit/internal/domain"
)

type TemplateRepository interface {
	List(ctx context.Context) ([]domain.ClassTemplate, error)
	ListActive(ctx context.Context) ([]domain.ClassTemplate, error)
}

type PGTemplateRepository struct {
	db *pgxpool.Pool
}

func NewTemplateRepository(db *pgxpool.Pool) TemplateRepository {
	return &PGTemplateRepository{db: db}
}

const templateColumns = `id, name, instructor, location, duration_mins, capacity, price_cents, recur_days, start_time, blackout_dates, active, created_at, updated_at`

func (r *PGTemplateRepository) List(ctx context.Context) ([]domain.ClassTemplate, error) {
	return r.list(ctx, `SELECT `+templateColumns+` FROM class_templates ORDER BY name`)
}

func (r *PGTemplateRepository) ListActive(ctx context.Context) ([]domain.ClassTemplate, error) {
	return r.list(ctx, `SELECT `+templateColumns+` FROM class_templates WHERE active ORDER BY name`)
}

func (r *PGTemplateRepository) list(ctx context.Context, query string) ([]domain.ClassTemplate, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := make([]domain.ClassTemplate, 0)
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

func scanTemplate(row pgx.Row) (*domain.ClassTemplate, error) {
	var t domain.ClassTemplate
	var recurDays []int32
	if err := row.Scan(&t.ID, &t.Name, &t.Instructor, &t.Location, &t.DurationMins,
		&t.Capacity, &t.PriceCents, &recurDays, &t.StartTime, &t.BlackoutDates,
		&t.Active, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.RecurDays = make([]time.Weekday, 0, len(recurDays))
	for _, d := range recurDays {
		t.RecurDays = append(t.RecurDays, time.Weekday(d))
	}
	return &t, nil
}

var _ TemplateRepository = (*PGTemplateRepository)(nil)
