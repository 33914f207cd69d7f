package aggregation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emiliopalmerini/mtrack/internal/domain"
)

var march = domain.Bounds{Start: "2024-03-01", End: "2024-03-31"}

func userEntry(user, project, date string, minutes int, ts time.Time) domain.UserEntry {
	return domain.UserEntry{
		UserID:    user,
		TimeEntry: domain.TimeEntry{Project: project, Date: date, TimeSpent: minutes, Timestamp: ts},
	}
}

func TestUserMetrics(t *testing.T) {
	entries := []domain.UserEntry{
		userEntry("u1", "X", "2024-03-02", 60, at(9)),
		userEntry("u1", "Y", "2024-03-01", 30, at(10)),
		userEntry("u1", "X", "2024-03-01", 30, at(11)),
		userEntry("u1", "X", "2024-04-01", 600, at(12)),
		userEntry("u2", "X", "2024-03-05", 900, at(12)),
	}

	m, err := UserMetrics(entries, "u1", march)
	require.NoError(t, err)
	assert.Equal(t, 120, m.TotalMinutes)
	assert.Equal(t, 2.0, m.TotalHours)
	assert.Equal(t, 2, m.ProjectCount)
	assert.Equal(t, 2, m.ActiveDays)
	assert.Equal(t, 1.0, m.DailyAverageHours)
	assert.Equal(t, "2024-03-02", m.MostActiveDay, "ties go to the first date seen")
	assert.Equal(t, 60, m.MostActiveMinutes)
}

func TestUserMetrics_Empty(t *testing.T) {
	entries := []domain.UserEntry{
		userEntry("u1", "X", "2024-02-28", 60, at(9)),
		userEntry("u2", "X", "2024-03-02", 60, at(9)),
	}

	m, err := UserMetrics(entries, "u1", march)
	assert.ErrorIs(t, err, domain.ErrEmptyResult)
	assert.Equal(t, domain.UserMetrics{}, m)
}

func TestProjectMetrics(t *testing.T) {
	entries := []domain.UserEntry{
		userEntry("u2", "Apollo", "2024-03-01", 45, at(9)),
		userEntry("u1", "Apollo", "2024-03-03", 45, at(15)),
		userEntry("u1", "apollo", "2024-03-03", 500, at(16)),
		userEntry("u3", "Apollo", "2024-02-01", 500, at(17)),
	}
	project := domain.Project{Name: "Apollo", Completed: true}

	m, err := ProjectMetrics(entries, project, march)
	require.NoError(t, err)
	assert.Equal(t, 90, m.TotalMinutes)
	assert.Equal(t, 1.5, m.TotalHours)
	assert.Equal(t, 2, m.ContributorCount)
	assert.Equal(t, []string{"u1", "u2"}, m.Contributors)
	assert.True(t, m.LastActivity.Equal(at(15)))
	assert.Equal(t, "Completed", m.Status)

	_, err = ProjectMetrics(entries, domain.Project{Name: "Gemini"}, march)
	assert.ErrorIs(t, err, domain.ErrEmptyResult)
}

func TestCollect(t *testing.T) {
	ledgers := map[string]domain.LedgerData{
		"u2": {Entries: []domain.TimeEntry{{ID: "c"}}},
		"u1": {Entries: []domain.TimeEntry{{ID: "a"}, {ID: "b"}}},
	}

	all := Collect(ledgers)
	require.Len(t, all, 3)
	assert.Equal(t, "u1", all[0].UserID)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "b", all[1].ID)
	assert.Equal(t, "u2", all[2].UserID)

	assert.Equal(t, []domain.TimeEntry{{ID: "a"}, {ID: "b"}, {ID: "c"}}, Plain(all))
}

func TestDistributionAndContribution(t *testing.T) {
	entries := []domain.UserEntry{
		userEntry("u1", "X", "2024-03-01", 30, at(9)),
		userEntry("u2", "Y", "2024-03-01", 90, at(9)),
		userEntry("u1", "X", "2024-03-02", 30, at(9)),
		userEntry("u2", "Z", "2024-03-02", 60, at(9)),
	}

	assert.Equal(t, []domain.Share{
		{Label: "Y", Minutes: 90, Hours: 1.5},
		{Label: "X", Minutes: 60, Hours: 1},
		{Label: "Z", Minutes: 60, Hours: 1},
	}, ProjectDistribution(Plain(entries)))

	assert.Equal(t, []domain.Share{
		{Label: "u2", Minutes: 150, Hours: 2.5},
		{Label: "u1", Minutes: 60, Hours: 1},
	}, TeamContribution(entries))
}

func TestSeries(t *testing.T) {
	entries := []domain.UserEntry{
		userEntry("u2", "X", "2024-03-05", 10, at(9)),
		userEntry("u1", "X", "2024-03-01", 20, at(9)),
		userEntry("u1", "Y", "2024-03-05", 30, at(9)),
		userEntry("u1", "Y", "2024-03-01", 40, at(9)),
	}

	assert.Equal(t, []domain.DailyPoint{
		{Date: "2024-03-01", Minutes: 60},
		{Date: "2024-03-05", Minutes: 40},
	}, DailySeries(Plain(entries)), "sparse, no zero-filled days")

	assert.Equal(t, []domain.UserDailyPoint{
		{Date: "2024-03-01", UserID: "u1", Minutes: 60},
		{Date: "2024-03-05", UserID: "u1", Minutes: 30},
		{Date: "2024-03-05", UserID: "u2", Minutes: 10},
	}, PerUserDailySeries(entries))

	assert.Equal(t, []domain.UserDailyPoint{
		{Date: "2024-03-01", UserID: "u1", Minutes: 20},
		{Date: "2024-03-05", UserID: "u2", Minutes: 10},
	}, PerUserDailySeries(ForProject(entries, "X", march)))
}
