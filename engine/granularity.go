package engine

import (
	"fmt"
	"strings"
	"time"
)

// Granularity is the bucket width of a time series.
type Granularity string

const (
	Day   Granularity = "day"
	Week  Granularity = "week"
	Month Granularity = "month"
)

// ParseGranularity accepts day/week/month, their -ly forms and the
// single-letter aliases D/W/M. Empty input means Day.
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "day", "daily", "d":
		return Day, nil
	case "week", "weekly", "w":
		return Week, nil
	case "month", "monthly", "m":
		return Month, nil
	}
	return "", fmt.Errorf("%w: unknown granularity %q (expected day, week or month)", ErrInvalidParams, s)
}

// Window is the look-back span used for period-over-period comparison.
func (g Granularity) Window() time.Duration {
	switch g {
	case Week:
		return 28 * 24 * time.Hour
	case Month:
		return 90 * 24 * time.Hour
	default:
		return 7 * 24 * time.Hour
	}
}

// Floor truncates t (in UTC) to the start of its bucket.
// Weeks start on Monday; months on the 1st.
func (g Granularity) Floor(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	switch g {
	case Week:
		day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case Month:
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
}

// Label renders a bucket start for display.
func (g Granularity) Label(t time.Time) string {
	if g == Month {
		return t.Format("Jan-2006")
	}
	return t.Format(time.DateOnly)
}

// Title is the adjective used in chart titles.
func (g Granularity) Title() string {
	switch g {
	case Week:
		return "Weekly"
	case Month:
		return "Monthly"
	default:
		return "Daily"
	}
}
