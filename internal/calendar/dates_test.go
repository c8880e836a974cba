package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func collectDays(start, end time.Time) []time.Time {
	var out []time.Time
	for d := range EachDayUTC(start, end) {
		out = append(out, d)
	}
	return out
}

func TestDayUTC(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	// 02:30 on Jan 2 in UTC+5 is still Jan 1 in UTC.
	in := time.Date(2026, 1, 2, 2, 30, 0, 0, loc)
	assert.Equal(t, day(2026, 1, 1), DayUTC(in))
}

func TestEachDayUTC(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  []time.Time
	}{
		{
			name:  "three nights",
			start: day(2026, 3, 10),
			end:   day(2026, 3, 13),
			want:  []time.Time{day(2026, 3, 10), day(2026, 3, 11), day(2026, 3, 12)},
		},
		{
			name:  "single night excludes checkout day",
			start: day(2026, 3, 10),
			end:   day(2026, 3, 11),
			want:  []time.Time{day(2026, 3, 10)},
		},
		{
			name:  "mid-day end still covers its day",
			start: day(2026, 3, 10),
			end:   time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC),
			want:  []time.Time{day(2026, 3, 10), day(2026, 3, 11)},
		},
		{
			name:  "partial hours within one day",
			start: time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC),
			end:   time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC),
			want:  []time.Time{day(2026, 3, 10)},
		},
		{
			name:  "empty range",
			start: day(2026, 3, 10),
			end:   day(2026, 3, 10),
			want:  nil,
		},
		{
			name:  "inverted range",
			start: day(2026, 3, 12),
			end:   day(2026, 3, 10),
			want:  nil,
		},
		{
			name:  "month boundary",
			start: day(2026, 1, 30),
			end:   day(2026, 2, 2),
			want:  []time.Time{day(2026, 1, 30), day(2026, 1, 31), day(2026, 2, 1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, collectDays(tt.start, tt.end))
		})
	}
}

func TestEachDayUTC_restartable(t *testing.T) {
	seq := EachDayUTC(day(2026, 3, 10), day(2026, 3, 12))

	first := collectDays(day(2026, 3, 10), day(2026, 3, 12))
	var second []time.Time
	for d := range seq {
		second = append(second, d)
	}
	for d := range seq {
		_ = d
		break // early exit must not panic or leak
	}
	assert.Equal(t, first, second)
}

func TestDateKey(t *testing.T) {
	loc := time.FixedZone("UTC-8", -8*3600)
	// 22:00 on Jun 30 in UTC-8 is Jul 1 in UTC.
	assert.Equal(t, "2026-07-01", DateKey(time.Date(2026, 6, 30, 22, 0, 0, 0, loc)))
	assert.Equal(t, "2026-03-05", DateKey(day(2026, 3, 5)))
}

func TestCombineDateTime(t *testing.T) {
	base := day(2026, 4, 20)

	got, err := CombineDateTime(base, "18:30")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 4, 20, 18, 30, 0, 0, time.UTC), got)

	got, err = CombineDateTime(base, "00:00")
	assert.NoError(t, err)
	assert.Equal(t, base, got)

	for _, bad := range []string{"25:00", "12:70", "-1:30", "noon", "", "18:00xyz"} {
		_, err := CombineDateTime(base, bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestDateKeySet(t *testing.T) {
	set := DateKeySet([]time.Time{day(2026, 5, 1), day(2026, 5, 2)})
	_, ok := set["2026-05-01"]
	assert.True(t, ok)
	_, ok = set["2026-05-03"]
	assert.False(t, ok)
}
