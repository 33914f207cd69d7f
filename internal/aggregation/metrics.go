package aggregation

import (
	"cmp"
	"slices"

	"github.com/emiliopalmerini/mtrack/internal/domain"
)

// WithUser tags entries with their owner.
func WithUser(userID string, entries []domain.TimeEntry) []domain.UserEntry {
	out := make([]domain.UserEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, domain.UserEntry{TimeEntry: e, UserID: userID})
	}
	return out
}

// Collect flattens every user's ledger into one entry set, ordered by user
// id and then by ledger order.
func Collect(ledgers map[string]domain.LedgerData) []domain.UserEntry {
	users := make([]string, 0, len(ledgers))
	for id := range ledgers {
		users = append(users, id)
	}
	slices.Sort(users)

	var out []domain.UserEntry
	for _, id := range users {
		out = append(out, WithUser(id, ledgers[id].Entries)...)
	}
	return out
}

// UserMetrics summarises userID's entries within b. It returns
// domain.ErrEmptyResult when no entry matches.
func UserMetrics(entries []domain.UserEntry, userID string, b domain.Bounds) (domain.UserMetrics, error) {
	var (
		total    int
		projects = map[string]struct{}{}
		byDay    = map[string]int{}
		dayOrder []string
	)

	for _, e := range entries {
		if e.UserID != userID || !b.Contains(e.Date) {
			continue
		}
		total += e.TimeSpent
		projects[e.Project] = struct{}{}
		if _, seen := byDay[e.Date]; !seen {
			dayOrder = append(dayOrder, e.Date)
		}
		byDay[e.Date] += e.TimeSpent
	}

	if len(dayOrder) == 0 {
		return domain.UserMetrics{}, domain.ErrEmptyResult
	}

	m := domain.UserMetrics{
		TotalMinutes:      total,
		TotalHours:        RoundHours(total),
		ProjectCount:      len(projects),
		ActiveDays:        len(dayOrder),
		DailyAverageHours: round1(float64(total) / float64(len(dayOrder)) / 60),
	}
	for _, day := range dayOrder {
		if m.MostActiveDay == "" || byDay[day] > m.MostActiveMinutes {
			m.MostActiveDay = day
			m.MostActiveMinutes = byDay[day]
		}
	}
	return m, nil
}

// ProjectMetrics summarises every user's entries for the registry project
// within b. Entries match by project name. It returns domain.ErrEmptyResult
// when no entry matches.
func ProjectMetrics(entries []domain.UserEntry, project domain.Project, b domain.Bounds) (domain.ProjectMetrics, error) {
	m := domain.ProjectMetrics{Project: project.Name, Status: project.Status()}
	contributors := map[string]struct{}{}

	for _, e := range entries {
		if e.Project != project.Name || !b.Contains(e.Date) {
			continue
		}
		m.TotalMinutes += e.TimeSpent
		contributors[e.UserID] = struct{}{}
		if e.Timestamp.After(m.LastActivity) {
			m.LastActivity = e.Timestamp
		}
	}

	if len(contributors) == 0 {
		return domain.ProjectMetrics{}, domain.ErrEmptyResult
	}

	m.TotalHours = RoundHours(m.TotalMinutes)
	m.ContributorCount = len(contributors)
	for id := range contributors {
		m.Contributors = append(m.Contributors, id)
	}
	slices.Sort(m.Contributors)
	return m, nil
}

// ProjectDistribution returns hours per project, largest first.
func ProjectDistribution(entries []domain.TimeEntry) []domain.Share {
	byProject := map[string]int{}
	for _, e := range entries {
		byProject[e.Project] += e.TimeSpent
	}
	return shares(byProject)
}

// TeamContribution returns minutes per user, largest first. Labels are
// user ids.
func TeamContribution(entries []domain.UserEntry) []domain.Share {
	byUser := map[string]int{}
	for _, e := range entries {
		byUser[e.UserID] += e.TimeSpent
	}
	return shares(byUser)
}

func shares(minutes map[string]int) []domain.Share {
	out := make([]domain.Share, 0, len(minutes))
	for label, m := range minutes {
		out = append(out, domain.Share{Label: label, Minutes: m, Hours: RoundHours(m)})
	}
	slices.SortFunc(out, func(a, b domain.Share) int {
		if c := cmp.Compare(b.Minutes, a.Minutes); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	return out
}

// DailySeries returns minutes per date in ascending date order. Dates
// without entries are omitted.
func DailySeries(entries []domain.TimeEntry) []domain.DailyPoint {
	byDay := MinutesByDate(entries)
	out := make([]domain.DailyPoint, 0, len(byDay))
	for date, m := range byDay {
		out = append(out, domain.DailyPoint{Date: date, Minutes: m})
	}
	slices.SortFunc(out, func(a, b domain.DailyPoint) int { return cmp.Compare(a.Date, b.Date) })
	return out
}

// PerUserDailySeries returns minutes per (date, user) ordered by date and
// then user id. Empty cells are omitted.
func PerUserDailySeries(entries []domain.UserEntry) []domain.UserDailyPoint {
	type cell struct{ date, user string }
	byCell := map[cell]int{}
	for _, e := range entries {
		byCell[cell{e.Date, e.UserID}] += e.TimeSpent
	}

	out := make([]domain.UserDailyPoint, 0, len(byCell))
	for c, m := range byCell {
		out = append(out, domain.UserDailyPoint{Date: c.date, UserID: c.user, Minutes: m})
	}
	slices.SortFunc(out, func(a, b domain.UserDailyPoint) int {
		if c := cmp.Compare(a.Date, b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.UserID, b.UserID)
	})
	return out
}

// ForProject keeps the entries of one project name within b.
func ForProject(entries []domain.UserEntry, project string, b domain.Bounds) []domain.UserEntry {
	var out []domain.UserEntry
	for _, e := range entries {
		if e.Project == project && b.Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out
}

// Plain drops the owner tag.
func Plain(entries []domain.UserEntry) []domain.TimeEntry {
	out := make([]domain.TimeEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.TimeEntry)
	}
	return out
}
