package cli

import (
	"errors"
	"testing"
	"time"

	"github.com/emiliopalmerini/mtrack/internal/domain"
)

func TestNewViewState(t *testing.T) {
	tests := []struct {
		name         string
		date         string
		month        string
		wantSelected string
		wantMonth    string
	}{
		{name: "defaults to today", wantSelected: "2024-03-15", wantMonth: "2024-03"},
		{name: "month follows date", date: "2023-12-31", wantSelected: "2023-12-31", wantMonth: "2023-12"},
		{name: "explicit month", month: "2024-02", wantSelected: "2024-03-15", wantMonth: "2024-02"},
		{name: "date and month", date: "2024-01-10", month: "2024-05", wantSelected: "2024-01-10", wantMonth: "2024-05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := newViewState(testNow, tt.date, tt.month)
			if err != nil {
				t.Fatalf("newViewState: %v", err)
			}
			if v.Today != "2024-03-15" {
				t.Errorf("Today = %s", v.Today)
			}
			if v.SelectedDate != tt.wantSelected {
				t.Errorf("SelectedDate = %s, want %s", v.SelectedDate, tt.wantSelected)
			}
			if got := v.CurrentMonth.Format(monthLayout); got != tt.wantMonth {
				t.Errorf("CurrentMonth = %s, want %s", got, tt.wantMonth)
			}
		})
	}
}

func TestNewViewState_Invalid(t *testing.T) {
	if _, err := newViewState(testNow, "15/03/2024", ""); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("bad date: got %v", err)
	}
	if _, err := newViewState(testNow, "", "2024-13"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("bad month: got %v", err)
	}
}

func TestViewState_YearMonth(t *testing.T) {
	v, err := newViewState(testNow, "", "2015-02")
	if err != nil {
		t.Fatalf("newViewState: %v", err)
	}
	if v.Year() != 2015 || v.Month() != time.February {
		t.Errorf("got %d %s", v.Year(), v.Month())
	}
}
