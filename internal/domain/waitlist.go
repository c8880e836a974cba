package domain

import (
	"time"

	"github.com/google/uuid"
)

// WaitlistEntry queues a user for a full session. One entry per
// (session, user); promotion always picks the oldest CreatedAt first.
type WaitlistEntry struct {
	ID        uuid.UUID
	SessionID uuid.UUID
	UserID    uuid.UUID
	CreatedAt time.Time
}

// WaitlistView is an entry joined with its session and template detail
// for the "my waitlist" listing.
type WaitlistView struct {
	Entry        WaitlistEntry
	SessionStart time.Time
	SessionEnd   time.Time
	TemplateName string
	Instructor   string
	Location     string
}
