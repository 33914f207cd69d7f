package domain

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the calendar date format used by entries (no timezone).
	DateLayout = "2006-01-02"
	// ClockLayout is the wall-clock format used by entry start and end times.
	ClockLayout = "15:04"

	minutesPerDay = 24 * 60
)

// ParseClock parses an HH:MM value and returns minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, NewValidationError("time", fmt.Sprintf("invalid time %q, expected HH:MM", s))
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, NewValidationError("date", fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", s))
	}
	return t, nil
}

// Duration returns the whole minutes between two HH:MM clock times on a
// common day. An end before the start is treated as an overnight shift.
func Duration(start, end string) (int, error) {
	s, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return 0, err
	}

	diff := e - s
	if diff < 0 {
		diff += minutesPerDay
	}
	return diff, nil
}

// SyntheticWindow returns an HH:MM window that ends at now and starts the
// given number of minutes earlier.
func SyntheticWindow(now time.Time, minutes int) (start, end string) {
	end = now.Format(ClockLayout)
	start = now.Add(-time.Duration(minutes) * time.Minute).Format(ClockLayout)
	return start, end
}

// DateOf formats the calendar date of t in t's location.
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}
