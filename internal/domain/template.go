package domain

import (
	"time"

	"github.com/google/uuid"
)

// ClassTemplate describes a recurring class. Sessions are materialized
// from it for concrete calendar days; capacity and price are copied onto
// each session at creation time and later template edits do not touch
// already-materialized sessions.
type ClassTemplate struct {
	ID            uuid.UUID
	Name          string
	Instructor    string
	Location      string
	DurationMins  int
	Capacity      int
	PriceCents    int64
	RecurDays     []time.Weekday
	StartTime     string // 24h "HH:MM", local wall clock
	BlackoutDates []time.Time
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RecursOn reports whether the template produces a session on the given weekday.
func (t *ClassTemplate) RecursOn(day time.Weekday) bool {
	for _, d := range t.RecurDays {
		if d == day {
			return true
		}
	}
	return false
}
