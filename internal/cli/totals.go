package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/mtrack/internal/aggregation"
	"github.com/emiliopalmerini/mtrack/internal/util"
)

var totalsCmd = &cobra.Command{
	Use:   "totals",
	Short: "Show per-project totals",
	Long: `Show total minutes per project, the minutes on the selected date and when
each project was last worked on. Recently worked projects come first.

Examples:
  mtrack totals
  mtrack totals --date 2024-03-01`,
	Args: cobra.NoArgs,
	RunE: runTotals,
}

var totalsDate string

func init() {
	rootCmd.AddCommand(totalsCmd)
	totalsCmd.Flags().StringVarP(&totalsDate, "date", "d", "", "Selected date YYYY-MM-DD (default: today)")
}

func runTotals(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	user, err := app.CurrentUser(ctx)
	if err != nil {
		return err
	}

	view, err := newViewState(app.Clock.Now(), totalsDate, "")
	if err != nil {
		return err
	}

	entries, err := app.Ledger.Entries(ctx, user.ID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	totals := aggregation.ProjectTotals(entries, view.SelectedDate)
	printTitle(out, "Project Totals")
	if len(totals) == 0 {
		printEmpty(out, "")
		return nil
	}

	s := styles()
	fmt.Fprintf(out, "%-24s %10s %10s  %s\n",
		s.Muted.Render("Project"), s.Muted.Render("Total"),
		s.Muted.Render(util.FormatDateShort(view.SelectedDate)), s.Muted.Render("Last worked"))
	for _, t := range totals {
		last := "-"
		if t.LastWorked != nil {
			last = util.FormatDateHuman(t.LastWorked.Local())
		}
		fmt.Fprintf(out, "%-24s %10s %10s  %s\n",
			truncate(t.Project, 24), util.FormatMinutes(t.Total), util.FormatMinutesOrDash(t.SelectedDay), last)
	}
	return nil
}
