package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error codes relied on for constraint mapping.
const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"
)

// isConstraintViolation reports whether err is a unique or exclusion
// constraint violation, optionally matching a specific constraint name.
// Repositories use this to translate store-enforced invariants (duplicate
// session booking, same-user stay overlap, double waitlist join) into
// domain sentinels.
func isConstraintViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	if pgErr.Code != pgUniqueViolation && pgErr.Code != pgExclusionViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
