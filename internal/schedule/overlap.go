package schedule

import (
	"fmt"
	"time"
)

// Interval is a half-open [start, end) time-of-day window on one calendar
// date, in minutes since midnight.
type Interval struct {
	Date         time.Time
	StartMinutes int
	EndMinutes   int
}

// Overlaps reports whether two intervals intersect. Intervals on different
// dates never overlap, and touching endpoints (one ends at 10:00, the other
// starts at 10:00) do not count as overlap.
func Overlaps(a, b Interval) bool {
	if !SameDate(a.Date, b.Date) {
		return false
	}
	return a.StartMinutes < b.EndMinutes && a.EndMinutes > b.StartMinutes
}

func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// ParseClock converts "HH:MM" to minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseDate converts "YYYY-MM-DD" to a civil date at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
