package cli

import (
	"fmt"
	"time"

	"github.com/emiliopalmerini/mtrack/internal/domain"
)

const monthLayout = "2006-01"

// ViewState is what the user is looking at: a selected date and the month
// shown around it. Commands build it from flags instead of sharing globals.
type ViewState struct {
	Today        string
	SelectedDate string
	CurrentMonth time.Time
}

// newViewState resolves the --date and --month flags against now. The month
// follows the selected date unless given explicitly.
func newViewState(now time.Time, date, month string) (ViewState, error) {
	v := ViewState{Today: domain.DateOf(now), SelectedDate: domain.DateOf(now)}

	if date != "" {
		d, err := domain.ParseDate(date)
		if err != nil {
			return ViewState{}, err
		}
		v.SelectedDate = date
		now = d
	}
	v.CurrentMonth = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	if month != "" {
		m, err := time.Parse(monthLayout, month)
		if err != nil {
			return ViewState{}, domain.NewValidationError("month", fmt.Sprintf("invalid month %q, expected YYYY-MM", month))
		}
		v.CurrentMonth = m
	}
	return v, nil
}

func (v ViewState) Year() int {
	return v.CurrentMonth.Year()
}

func (v ViewState) Month() time.Month {
	return v.CurrentMonth.Month()
}
