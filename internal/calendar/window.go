package calendar

import "time"

// Policy configures the booking window for class sessions: bookings open
// BookAheadDays before a session starts and close CloseBeforeMins before.
type Policy struct {
	BookAheadDays   int
	CloseBeforeMins int
}

// DefaultPolicy mirrors the product defaults: open a week ahead, close an
// hour before start.
var DefaultPolicy = Policy{BookAheadDays: 7, CloseBeforeMins: 60}

// Window is the computed open/close interval for a session. Bookable is
// advisory: it feeds the session listing's bookable flag, while the
// authoritative gate on a claim is capacity.
type Window struct {
	OpenAt   time.Time
	CloseAt  time.Time
	Bookable bool
}

// WindowFor computes the booking window for a session starting at start,
// evaluated at now. Pure function, no side effects.
func WindowFor(start, now time.Time, p Policy) Window {
	openAt := start.Add(-time.Duration(p.BookAheadDays) * 24 * time.Hour)
	closeAt := start.Add(-time.Duration(p.CloseBeforeMins) * time.Minute)
	return Window{
		OpenAt:   openAt,
		CloseAt:  closeAt,
		Bookable: !now.Before(openAt) && !now.After(closeAt),
	}
}
