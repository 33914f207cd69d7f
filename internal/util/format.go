package util

import (
	"fmt"
	"strconv"
	"time"
)

// FormatMinutes formats a minute count as "Xh Ym".
// Examples: 0 -> "0h 0m", 90 -> "1h 30m", 605 -> "10h 5m"
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// FormatMinutesOrDash formats like FormatMinutes but returns "-" for zero.
func FormatMinutesOrDash(minutes int) string {
	if minutes <= 0 {
		return "-"
	}
	return FormatMinutes(minutes)
}

// FormatStopwatch formats elapsed seconds as HH:MM:SS.
// Examples: 0 -> "00:00:00", 3725 -> "01:02:05"
func FormatStopwatch(totalSeconds int64) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// FormatHours formats an already rounded hour value with one decimal,
// dropping a trailing ".0".
// Examples: 1.5 -> "1.5", 2 -> "2"
func FormatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

// FormatDateShort formats a YYYY-MM-DD date as "Jan 2".
// Returns the original string if parsing fails.
func FormatDateShort(s string) string {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return s
	}
	return t.Format("Jan 2")
}

// FormatDateLong formats a YYYY-MM-DD date as "Monday, January 2, 2006".
// Returns the original string if parsing fails.
func FormatDateLong(s string) string {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return s
	}
	return t.Format("Monday, January 2, 2006")
}

// FormatDateHuman formats an instant as "Jan 2, 2006".
func FormatDateHuman(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// FormatMonthYear formats the month of t as "January 2006".
func FormatMonthYear(t time.Time) string {
	return t.Format("January 2006")
}
