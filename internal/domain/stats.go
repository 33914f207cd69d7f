package domain

import "time"

// ProjectTotal is the derived rollup of one project name.
type ProjectTotal struct {
	Project     string
	Total       int
	SelectedDay int
	LastWorked  *time.Time
}

// Range names a reporting period relative to a reference date.
type Range string

const (
	RangeThisMonth Range = "thisMonth"
	RangeLastMonth Range = "lastMonth"
	RangeThisYear  Range = "thisYear"
)

// Bounds is an inclusive range of calendar dates in DateLayout.
type Bounds struct {
	Start string
	End   string
}

// Contains reports whether date falls within the bounds, both ends included.
func (b Bounds) Contains(date string) bool {
	return date >= b.Start && date <= b.End
}

// UserMetrics summarises one user's entries over a period.
type UserMetrics struct {
	TotalMinutes      int
	TotalHours        float64
	ProjectCount      int
	ActiveDays        int
	DailyAverageHours float64
	MostActiveDay     string
	MostActiveMinutes int
}

// ProjectMetrics summarises all users' entries for one project over a period.
type ProjectMetrics struct {
	Project          string
	TotalMinutes     int
	TotalHours       float64
	ContributorCount int
	Contributors     []string
	LastActivity     time.Time
	Status           string
}

// DailyPoint is one date of a sparse daily series.
type DailyPoint struct {
	Date    string
	Minutes int
}

// UserDailyPoint is one (date, user) cell of a sparse per-user daily series.
type UserDailyPoint struct {
	Date    string
	UserID  string
	Minutes int
}

// Share is one slice of a distribution chart.
type Share struct {
	Label   string
	Minutes int
	Hours   float64
}
