package domain

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionStatusScheduled SessionStatus = "scheduled"
	SessionStatusCancelled SessionStatus = "cancelled"
)

// ClassSession is a materialized instance of a ClassTemplate. At most one
// session exists per (template, start) pair. SpotsTaken is only ever
// mutated through the repository's atomic claim/release statements.
type ClassSession struct {
	ID         uuid.UUID
	TemplateID uuid.UUID
	StartAt    time.Time
	EndAt      time.Time
	Capacity   int
	PriceCents int64
	SpotsTaken int
	Status     SessionStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SpotsRemaining never goes below zero even if the stored counter is at capacity.
func (s *ClassSession) SpotsRemaining() int {
	rem := s.Capacity - s.SpotsTaken
	if rem < 0 {
		return 0
	}
	return rem
}

// SessionView is a session joined with template display fields, as returned
// by session listing. Bookable reflects the advisory booking window only;
// claims are gated by capacity.
type SessionView struct {
	ID             uuid.UUID
	TemplateID     uuid.UUID
	TemplateName   string
	Instructor     string
	Location       string
	DurationMins   int
	StartAt        time.Time
	EndAt          time.Time
	Capacity       int
	PriceCents     int64
	SpotsRemaining int
	Bookable       bool
}
