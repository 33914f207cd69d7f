package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/mtrack/internal/aggregation"
	"github.com/emiliopalmerini/mtrack/internal/domain"
	"github.com/emiliopalmerini/mtrack/internal/util"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show user, project and team metrics",
}

var metricsUserCmd = &cobra.Command{
	Use:   "user",
	Short: "Show your metrics for a period",
	Long: `Show total hours, project count, daily average and most active day.

Examples:
  mtrack metrics user
  mtrack metrics user --range lastMonth`,
	Args: cobra.NoArgs,
	RunE: runMetricsUser,
}

var metricsProjectCmd = &cobra.Command{
	Use:   "project <name>",
	Short: "Show metrics of a registered project across all users",
	Long: `Show metrics of a registered project. Entries from every user are
matched to the project by exact name.`,
	Args: cobra.ExactArgs(1),
	RunE: runMetricsProject,
}

var metricsTeamCmd = &cobra.Command{
	Use:   "team",
	Short: "Show project distribution and team contribution",
	Args:  cobra.NoArgs,
	RunE:  runMetricsTeam,
}

var metricsRange string

func init() {
	rootCmd.AddCommand(metricsCmd)
	metricsCmd.AddCommand(metricsUserCmd)
	metricsCmd.AddCommand(metricsProjectCmd)
	metricsCmd.AddCommand(metricsTeamCmd)

	metricsCmd.PersistentFlags().StringVarP(&metricsRange, "range", "r", string(domain.RangeThisMonth), "Period: thisMonth, lastMonth, thisYear")
}

// allEntries collects every user's entries.
func allEntries(ctx context.Context) ([]domain.UserEntry, error) {
	ledgers, err := app.Repos.Ledgers.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledgers: %w", err)
	}
	return aggregation.Collect(ledgers), nil
}

func metricsBounds() (domain.Bounds, error) {
	return aggregation.PeriodBounds(domain.Range(metricsRange), app.Clock.Now())
}

func runMetricsUser(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	user, err := app.CurrentUser(ctx)
	if err != nil {
		return err
	}

	bounds, err := metricsBounds()
	if err != nil {
		return err
	}

	entries, err := app.Ledger.Entries(ctx, user.ID)
	if err != nil {
		return err
	}
	tagged := aggregation.WithUser(user.ID, entries)

	out := cmd.OutOrStdout()
	printTitle(out, fmt.Sprintf("Metrics for %s (%s to %s)", user.Name, bounds.Start, bounds.End))

	m, err := aggregation.UserMetrics(tagged, user.ID, bounds)
	if errors.Is(err, domain.ErrEmptyResult) {
		printEmpty(out, " for this period")
		return nil
	}
	if err != nil {
		return err
	}

	printRow(out, "Total hours", util.FormatHours(m.TotalHours))
	printRow(out, "Projects", fmt.Sprintf("%d", m.ProjectCount))
	printRow(out, "Active days", fmt.Sprintf("%d", m.ActiveDays))
	printRow(out, "Daily average (hours)", util.FormatHours(m.DailyAverageHours))
	printRow(out, "Most active day", fmt.Sprintf("%s (%s)", util.FormatDateShort(m.MostActiveDay), util.FormatMinutes(m.MostActiveMinutes)))

	fmt.Fprintln(out)
	printSection(out, "Daily")
	printSeries(out, aggregation.DailySeries(aggregation.InBounds(entries, bounds)))
	return nil
}

func runMetricsProject(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if _, err := app.CurrentUser(ctx); err != nil {
		return err
	}

	project, err := app.Projects.FindByName(ctx, args[0])
	if err != nil {
		return err
	}

	bounds, err := metricsBounds()
	if err != nil {
		return err
	}

	entries, err := allEntries(ctx)
	if err != nil {
		return err
	}
	names, err := app.Identity.UserNames(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printTitle(out, fmt.Sprintf("%s (%s to %s)", project.Name, bounds.Start, bounds.End))

	m, err := aggregation.ProjectMetrics(entries, *project, bounds)
	if errors.Is(err, domain.ErrEmptyResult) {
		printEmpty(out, " for this period")
		return nil
	}
	if err != nil {
		return err
	}

	contributors := make([]string, 0, len(m.Contributors))
	for _, id := range m.Contributors {
		contributors = append(contributors, displayName(names, id))
	}

	printRow(out, "Status", m.Status)
	printRow(out, "Total hours", util.FormatHours(m.TotalHours))
	printRow(out, "Contributors", fmt.Sprintf("%d", m.ContributorCount))
	for _, c := range contributors {
		printRow(out, "", c)
	}
	printRow(out, "Last activity", util.FormatDateHuman(m.LastActivity.Local()))

	fmt.Fprintln(out)
	printSection(out, "Daily by user")
	for _, p := range aggregation.PerUserDailySeries(aggregation.ForProject(entries, project.Name, bounds)) {
		fmt.Fprintf(out, "  %s  %-20s %s\n", p.Date, truncate(displayName(names, p.UserID), 20), util.FormatMinutes(p.Minutes))
	}
	return nil
}

func runMetricsTeam(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if _, err := app.CurrentUser(ctx); err != nil {
		return err
	}

	bounds, err := metricsBounds()
	if err != nil {
		return err
	}

	all, err := allEntries(ctx)
	if err != nil {
		return err
	}
	names, err := app.Identity.UserNames(ctx)
	if err != nil {
		return err
	}

	var inRange []domain.UserEntry
	for _, e := range all {
		if bounds.Contains(e.Date) {
			inRange = append(inRange, e)
		}
	}

	out := cmd.OutOrStdout()
	printTitle(out, fmt.Sprintf("Team (%s to %s)", bounds.Start, bounds.End))
	if len(inRange) == 0 {
		printEmpty(out, " for this period")
		return nil
	}

	printSection(out, "Project distribution")
	printShares(out, aggregation.ProjectDistribution(aggregation.Plain(inRange)), nil)

	fmt.Fprintln(out)
	printSection(out, "Team contribution")
	printShares(out, aggregation.TeamContribution(inRange), names)

	fmt.Fprintln(out)
	printSection(out, "Daily")
	printSeries(out, aggregation.DailySeries(aggregation.Plain(inRange)))
	return nil
}

func printShares(out io.Writer, shares []domain.Share, names map[string]string) {
	peak := 0
	for _, s := range shares {
		if s.Minutes > peak {
			peak = s.Minutes
		}
	}
	for _, s := range shares {
		label := s.Label
		if names != nil {
			label = displayName(names, label)
		}
		fmt.Fprintf(out, "  %-20s %6sh %s\n", truncate(label, 20), util.FormatHours(s.Hours), bar(s.Minutes, peak, 30))
	}
}

func printSeries(out io.Writer, points []domain.DailyPoint) {
	peak := 0
	for _, p := range points {
		if p.Minutes > peak {
			peak = p.Minutes
		}
	}
	for _, p := range points {
		fmt.Fprintf(out, "  %s %8s %s\n", p.Date, util.FormatMinutes(p.Minutes), bar(p.Minutes, peak, 30))
	}
}

func displayName(names map[string]string, id string) string {
	if n, ok := names[id]; ok {
		return n
	}
	return id
}
