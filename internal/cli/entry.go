package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/mtrack/internal/domain"
	"github.com/emiliopalmerini/mtrack/internal/ledger"
	"github.com/emiliopalmerini/mtrack/internal/util"
)

var entryCmd = &cobra.Command{
	Use:     "entry",
	Aliases: []string{"entries"},
	Short:   "Manage time entries",
}

var entryAddCmd = &cobra.Command{
	Use:   "add <project>",
	Short: "Record a time entry",
	Long: `Record a time entry for a project.

Give either a start and end time, or the minutes spent. When minutes are
given they win; a missing time window is filled in as ending now.

Examples:
  mtrack entry add "Website" --start 09:00 --end 10:30
  mtrack entry add "Website" --minutes 45 --date 2024-03-01`,
	Args: cobra.ExactArgs(1),
	RunE: runEntryAdd,
}

var entryEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a time entry",
	Long: `Edit a time entry. Only the flags you pass are changed.

Passing --minutes sets the minutes explicitly. Passing --start or --end
without --minutes recomputes the minutes from the time window.`,
	Args: cobra.ExactArgs(1),
	RunE: runEntryEdit,
}

var entryDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a time entry",
	Args:    cobra.ExactArgs(1),
	RunE:    runEntryDelete,
}

var entryListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the entries of a date grouped by project",
	Args:    cobra.NoArgs,
	RunE:    runEntryList,
}

var entryProjectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List recently used project names",
	Args:  cobra.NoArgs,
	RunE:  runEntryProjects,
}

// Flags
var (
	entryDate    string
	entryStart   string
	entryEnd     string
	entryMinutes int
	entryProject string
)

func init() {
	rootCmd.AddCommand(entryCmd)
	entryCmd.AddCommand(entryAddCmd)
	entryCmd.AddCommand(entryEditCmd)
	entryCmd.AddCommand(entryDeleteCmd)
	entryCmd.AddCommand(entryListCmd)
	entryCmd.AddCommand(entryProjectsCmd)

	entryAddCmd.Flags().StringVarP(&entryDate, "date", "d", "", "Entry date YYYY-MM-DD (default: today)")
	entryAddCmd.Flags().StringVar(&entryStart, "start", "", "Start time HH:MM")
	entryAddCmd.Flags().StringVar(&entryEnd, "end", "", "End time HH:MM")
	entryAddCmd.Flags().IntVarP(&entryMinutes, "minutes", "m", 0, "Minutes spent")

	entryEditCmd.Flags().StringVarP(&entryProject, "project", "p", "", "Project name")
	entryEditCmd.Flags().StringVarP(&entryDate, "date", "d", "", "Entry date YYYY-MM-DD")
	entryEditCmd.Flags().StringVar(&entryStart, "start", "", "Start time HH:MM")
	entryEditCmd.Flags().StringVar(&entryEnd, "end", "", "End time HH:MM")
	entryEditCmd.Flags().IntVarP(&entryMinutes, "minutes", "m", 0, "Minutes spent")

	entryListCmd.Flags().StringVarP(&entryDate, "date", "d", "", "Date YYYY-MM-DD (default: today)")
}

func runEntryAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	user, err := app.CurrentUser(ctx)
	if err != nil {
		return err
	}

	entry, err := app.Ledger.Create(ctx, user.ID, domain.EntryInput{
		Project:   args[0],
		Date:      entryDate,
		StartTime: entryStart,
		EndTime:   entryEnd,
		Minutes:   entryMinutes,
	})
	if err != nil {
		return err
	}

	printSuccess(cmd.OutOrStdout(), "Added %s to %s on %s", util.FormatMinutes(entry.TimeSpent), entry.Project, entry.Date)
	fmt.Fprintln(cmd.OutOrStdout(), styles().Muted.Render("id: "+entry.ID))
	return nil
}

func runEntryEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	user, err := app.CurrentUser(ctx)
	if err != nil {
		return err
	}

	var patch domain.EntryPatch
	flags := cmd.Flags()
	if flags.Changed("project") {
		patch.Project = &entryProject
	}
	if flags.Changed("date") {
		patch.Date = &entryDate
	}
	if flags.Changed("start") {
		patch.StartTime = &entryStart
	}
	if flags.Changed("end") {
		patch.EndTime = &entryEnd
	}
	if flags.Changed("minutes") {
		patch.Minutes = &entryMinutes
	}

	entry, err := app.Ledger.Edit(ctx, user.ID, args[0], patch)
	if err != nil {
		return err
	}

	printSuccess(cmd.OutOrStdout(), "Updated %s: %s on %s", entry.Project, util.FormatMinutes(entry.TimeSpent), entry.Date)
	return nil
}

func runEntryDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	user, err := app.CurrentUser(ctx)
	if err != nil {
		return err
	}

	if err := app.Ledger.Delete(ctx, user.ID, args[0]); err != nil {
		return err
	}
	printSuccess(cmd.OutOrStdout(), "Deleted entry %s", args[0])
	return nil
}

func runEntryList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	user, err := app.CurrentUser(ctx)
	if err != nil {
		return err
	}

	view, err := newViewState(app.Clock.Now(), entryDate, "")
	if err != nil {
		return err
	}

	groups, err := app.Ledger.EntriesForDate(ctx, user.ID, view.SelectedDate)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printTitle(out, util.FormatDateLong(view.SelectedDate))
	if len(groups) == 0 {
		printEmpty(out, " for this date")
		return nil
	}
	printGroups(out, groups)
	return nil
}

func printGroups(out io.Writer, groups []ledger.Group) {
	s := styles()
	for _, g := range groups {
		total := 0
		for _, e := range g.Entries {
			total += e.TimeSpent
		}
		fmt.Fprintf(out, "%s %s\n", s.Subtitle.Render(g.Project), s.Muted.Render(util.FormatMinutes(total)))
		for _, e := range g.Entries {
			window := ""
			if e.HasWindow() {
				window = fmt.Sprintf("%s - %s", e.StartTime, e.EndTime)
			}
			fmt.Fprintf(out, "  %-13s %8s  %s\n", window, util.FormatMinutes(e.TimeSpent), s.Muted.Render(e.ID))
		}
	}
}

func runEntryProjects(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	user, err := app.CurrentUser(ctx)
	if err != nil {
		return err
	}

	names, err := app.Ledger.Projects(ctx, user.ID)
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Fprintln(cmd.OutOrStdout(), n)
	}
	return nil
}
