package domain

import (
	"slices"
	"time"
)

// Project is a formal team project from the shared registry. It is not
// referenced by TimeEntry; entries carry a free-text project name, and
// project metrics match the two by name.
type Project struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	ManagerID     string    `json:"managerId"`
	Liaison       string    `json:"liaison"`
	AssignedUsers []string  `json:"assignedUsers"`
	Completed     bool      `json:"completed"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Status returns the display status of the project.
func (p Project) Status() string {
	if p.Completed {
		return "Completed"
	}
	return "Active"
}

func (p Project) IsAssigned(userID string) bool {
	return slices.Contains(p.AssignedUsers, userID)
}

// ProjectInput holds the editable fields of a Project.
type ProjectInput struct {
	Name          string
	ManagerID     string
	Liaison       string
	AssignedUsers []string
}
