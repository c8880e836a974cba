package api

import (
	"fmt"
	"time"
)

// parseDateParam accepts either a calendar date ("2006-01-02", taken as
// midnight UTC) or a full RFC 3339 timestamp.
func parseDateParam(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q, want 2006-01-02 or RFC3339", value)
}
