// Package report formats ledger data for people: the month text report,
// entry exports and the calendar grid.
package report

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/emiliopalmerini/mtrack/internal/aggregation"
	"github.com/emiliopalmerini/mtrack/internal/domain"
	"github.com/emiliopalmerini/mtrack/internal/util"
)

const (
	noEntries = "No entries for this month."
	rule      = "------------------------------"
)

// FileName returns the suggested file name of a month report.
func FileName(year int, month time.Month) string {
	return fmt.Sprintf("TimeTracker_%s_%d.txt", month, year)
}

// Month renders the text report of the entries dated in the given month.
func Month(entries []domain.TimeEntry, year int, month time.Month) string {
	inMonth := aggregation.InBounds(entries, aggregation.MonthBounds(year, month))

	var b strings.Builder
	fmt.Fprintf(&b, "# Time Tracking Report: %s %d\n\n", month, year)

	b.WriteString("## Project Totals\n\n")
	totals := monthTotals(inMonth)
	if len(totals) == 0 {
		b.WriteString(noEntries)
	}
	for i, t := range totals {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s: %s", t.Label, util.FormatMinutes(t.Minutes))
	}

	b.WriteString("\n\n## Daily Entries")
	if len(inMonth) == 0 {
		b.WriteString("\n\n" + noEntries)
		return b.String()
	}

	byDate := map[string][]domain.TimeEntry{}
	for _, e := range inMonth {
		byDate[e.Date] = append(byDate[e.Date], e)
	}
	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	slices.Sort(dates)

	for _, d := range dates {
		fmt.Fprintf(&b, "\n\n%s\n%s\n", util.FormatDateLong(d), rule)
		for _, e := range byDate[d] {
			fmt.Fprintf(&b, "%s (%d minutes)", e.Project, e.TimeSpent)
			if e.HasWindow() {
				fmt.Fprintf(&b, " [%s - %s]", e.StartTime, e.EndTime)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// monthTotals sums minutes per project, largest first; equal totals keep
// the order in which the projects first appear.
func monthTotals(entries []domain.TimeEntry) []domain.Share {
	index := map[string]int{}
	var totals []domain.Share
	for _, e := range entries {
		i, ok := index[e.Project]
		if !ok {
			i = len(totals)
			index[e.Project] = i
			totals = append(totals, domain.Share{Label: e.Project})
		}
		totals[i].Minutes += e.TimeSpent
	}
	slices.SortStableFunc(totals, func(a, b domain.Share) int { return b.Minutes - a.Minutes })
	return totals
}
