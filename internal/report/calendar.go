package report

import (
	"time"

	"github.com/emiliopalmerini/mtrack/internal/domain"
)

// Day is one cell of the calendar grid.
type Day struct {
	Date     string
	Day      int
	InMonth  bool
	Today    bool
	Selected bool
	Minutes  int
}

// Calendar returns the weeks of a month, Sunday first, padded with the
// trailing days of the previous month and the leading days of the next.
// Today and Selected are only flagged on days of the month itself.
func Calendar(year int, month time.Month, today, selected string, minutes map[string]int) [][]Day {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	start := first.AddDate(0, 0, -int(first.Weekday()))
	end := last.AddDate(0, 0, 6-int(last.Weekday()))

	var weeks [][]Day
	var week []Day
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		date := domain.DateOf(d)
		inMonth := d.Month() == month
		week = append(week, Day{
			Date:     date,
			Day:      d.Day(),
			InMonth:  inMonth,
			Today:    inMonth && date == today,
			Selected: inMonth && date == selected,
			Minutes:  minutes[date],
		})
		if len(week) == 7 {
			weeks = append(weeks, week)
			week = nil
		}
	}
	return weeks
}
