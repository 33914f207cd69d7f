package domain

import "time"

// TimeEntry is one discrete block of tracked time.
type TimeEntry struct {
	ID        string    `json:"id"`
	Project   string    `json:"project"`
	Date      string    `json:"date"`
	StartTime string    `json:"startTime,omitempty"`
	EndTime   string    `json:"endTime,omitempty"`
	TimeSpent int       `json:"timeSpent"`
	Timestamp time.Time `json:"timestamp"`
}

// HasWindow reports whether both start and end times are set.
func (e TimeEntry) HasWindow() bool {
	return e.StartTime != "" && e.EndTime != ""
}

// EntryInput carries the fields of a new entry. Minutes of zero means
// "not given".
type EntryInput struct {
	Project   string
	Date      string
	StartTime string
	EndTime   string
	Minutes   int
}

// EntryPatch carries the fields to change on an existing entry. Nil fields
// are left untouched.
type EntryPatch struct {
	Project   *string
	Date      *string
	StartTime *string
	EndTime   *string
	Minutes   *int
}

// LedgerData is the persisted ledger of a single user.
type LedgerData struct {
	Projects []string    `json:"projects"`
	Entries  []TimeEntry `json:"entries"`
}

// UserEntry is a TimeEntry tagged with the user that owns it.
type UserEntry struct {
	TimeEntry
	UserID string `json:"userId"`
}
