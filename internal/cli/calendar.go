package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/mtrack/internal/aggregation"
	"github.com/emiliopalmerini/mtrack/internal/report"
	"github.com/emiliopalmerini/mtrack/internal/util"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show a month calendar with logged time",
	Long: `Show a month calendar. Days with logged time are highlighted; today and
the selected date are marked. The entries of the selected date follow.

Examples:
  mtrack calendar
  mtrack calendar --date 2024-03-01
  mtrack calendar --month 2024-02`,
	Args: cobra.NoArgs,
	RunE: runCalendar,
}

// Flags
var (
	calendarDate  string
	calendarMonth string
)

func init() {
	rootCmd.AddCommand(calendarCmd)

	calendarCmd.Flags().StringVarP(&calendarDate, "date", "d", "", "Selected date YYYY-MM-DD (default: today)")
	calendarCmd.Flags().StringVar(&calendarMonth, "month", "", "Month YYYY-MM (default: month of the selected date)")
}

func runCalendar(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	user, err := app.CurrentUser(ctx)
	if err != nil {
		return err
	}

	view, err := newViewState(app.Clock.Now(), calendarDate, calendarMonth)
	if err != nil {
		return err
	}

	entries, err := app.Ledger.Entries(ctx, user.ID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	s := styles()
	printTitle(out, util.FormatMonthYear(view.CurrentMonth))
	fmt.Fprintln(out, s.Muted.Render(" Su  Mo  Tu  We  Th  Fr  Sa"))

	weeks := report.Calendar(view.Year(), view.Month(), view.Today, view.SelectedDate, aggregation.MinutesByDate(entries))
	for _, week := range weeks {
		var line strings.Builder
		for _, d := range week {
			cell := fmt.Sprintf("%3d", d.Day)
			marker := " "
			switch {
			case !d.InMonth:
				cell = s.OtherMonth.Render(cell)
			case d.Selected:
				cell = s.Selected.Render(cell)
				marker = "<"
			case d.Today:
				cell = s.Today.Render(cell)
				marker = "*"
			case d.Minutes > 0:
				cell = s.Logged.Render(cell)
				marker = "."
			}
			line.WriteString(cell + marker)
		}
		fmt.Fprintln(out, line.String())
	}

	fmt.Fprintln(out)
	groups, err := app.Ledger.EntriesForDate(ctx, user.ID, view.SelectedDate)
	if err != nil {
		return err
	}
	printSection(out, util.FormatDateLong(view.SelectedDate))
	if len(groups) == 0 {
		printEmpty(out, " for this date")
		return nil
	}
	printGroups(out, groups)
	return nil
}
