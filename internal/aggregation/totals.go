// Package aggregation computes derived views over ledger snapshots. Every
// function is pure; callers recompute on each query.
package aggregation

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/emiliopalmerini/mtrack/internal/domain"
)

// ProjectTotals groups entries by project name. Projects with a last-worked
// instant come first, newest first; projects without one follow, largest
// total first.
func ProjectTotals(entries []domain.TimeEntry, selectedDate string) []domain.ProjectTotal {
	index := map[string]int{}
	var totals []domain.ProjectTotal

	for _, e := range entries {
		i, ok := index[e.Project]
		if !ok {
			i = len(totals)
			index[e.Project] = i
			totals = append(totals, domain.ProjectTotal{Project: e.Project})
		}

		t := &totals[i]
		t.Total += e.TimeSpent
		if e.Date == selectedDate {
			t.SelectedDay += e.TimeSpent
		}
		if !e.Timestamp.IsZero() && (t.LastWorked == nil || e.Timestamp.After(*t.LastWorked)) {
			ts := e.Timestamp
			t.LastWorked = &ts
		}
	}

	slices.SortStableFunc(totals, compareTotals)
	return totals
}

func compareTotals(a, b domain.ProjectTotal) int {
	switch {
	case a.LastWorked != nil && b.LastWorked != nil:
		if c := b.LastWorked.Compare(*a.LastWorked); c != 0 {
			return c
		}
	case a.LastWorked != nil:
		return -1
	case b.LastWorked != nil:
		return 1
	default:
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
	}
	return cmp.Compare(a.Project, b.Project)
}

// PeriodBounds returns the inclusive date bounds of r relative to ref.
func PeriodBounds(r domain.Range, ref time.Time) (domain.Bounds, error) {
	y, m, _ := ref.Date()
	loc := ref.Location()

	switch r {
	case domain.RangeThisMonth:
		return monthBounds(y, m, loc), nil
	case domain.RangeLastMonth:
		prev := time.Date(y, m-1, 1, 0, 0, 0, 0, loc)
		return monthBounds(prev.Year(), prev.Month(), loc), nil
	case domain.RangeThisYear:
		return domain.Bounds{
			Start: domain.DateOf(time.Date(y, time.January, 1, 0, 0, 0, 0, loc)),
			End:   domain.DateOf(time.Date(y, time.December, 31, 0, 0, 0, 0, loc)),
		}, nil
	default:
		return domain.Bounds{}, domain.NewValidationError("range", "unknown range "+string(r))
	}
}

// MonthBounds returns the first and last day of the month.
func MonthBounds(year int, month time.Month) domain.Bounds {
	return monthBounds(year, month, time.UTC)
}

func monthBounds(year int, month time.Month, loc *time.Location) domain.Bounds {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)
	return domain.Bounds{Start: domain.DateOf(first), End: domain.DateOf(last)}
}

// RoundHours converts minutes to hours rounded half away from zero to one
// decimal place.
func RoundHours(minutes int) float64 {
	return round1(float64(minutes) / 60)
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// MinutesByDate sums entry minutes per date.
func MinutesByDate(entries []domain.TimeEntry) map[string]int {
	out := map[string]int{}
	for _, e := range entries {
		out[e.Date] += e.TimeSpent
	}
	return out
}

// TotalMinutes sums the minutes of entries.
func TotalMinutes(entries []domain.TimeEntry) int {
	total := 0
	for _, e := range entries {
		total += e.TimeSpent
	}
	return total
}

// InBounds keeps the entries whose date falls within b.
func InBounds(entries []domain.TimeEntry, b domain.Bounds) []domain.TimeEntry {
	var out []domain.TimeEntry
	for _, e := range entries {
		if b.Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out
}
