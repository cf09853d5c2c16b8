package domain

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date format exchanged with the core.
const DateLayout = "2006-01-02"

// FormatDate renders t as a calendar date in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD calendar date at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// DaysBetween returns the number of calendar days from a to b (b - a).
// Both dates are anchored at UTC midnight so DST shifts never skew the count.
func DaysBetween(a, b string) (int, error) {
	ta, err := ParseDate(a)
	if err != nil {
		return 0, err
	}
	tb, err := ParseDate(b)
	if err != nil {
		return 0, err
	}
	return int(tb.Sub(ta).Hours() / 24), nil
}

// IsWeekend reports whether t falls on Saturday or Sunday in its location.
func IsWeekend(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return true
	default:
		return false
	}
}

// IsWeekendDate reports whether a YYYY-MM-DD date is a Saturday or Sunday.
// Invalid dates are never weekends.
func IsWeekendDate(s string) bool {
	t, err := ParseDate(s)
	if err != nil {
		return false
	}
	return IsWeekend(t)
}
