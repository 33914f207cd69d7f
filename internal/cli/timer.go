package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/mtrack/internal/domain"
	"github.com/emiliopalmerini/mtrack/internal/util"
)

var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Run per-project stopwatches",
	Long: `Run per-project stopwatches. Only one timer runs at a time: starting a
timer finishes the running one. Finishing a timer records its time, rounded
up to whole minutes, as an entry for today.`,
}

var timerStartCmd = &cobra.Command{
	Use:   "start <project>",
	Short: "Start or resume a timer",
	Args:  cobra.ExactArgs(1),
	RunE:  runTimerStart,
}

var timerPauseCmd = &cobra.Command{
	Use:   "pause <project>",
	Short: "Pause a running timer",
	Args:  cobra.ExactArgs(1),
	RunE:  runTimerPause,
}

var timerFinishCmd = &cobra.Command{
	Use:     "finish <project>",
	Aliases: []string{"stop"},
	Short:   "Finish a timer and record its time",
	Args:    cobra.ExactArgs(1),
	RunE:    runTimerFinish,
}

var timerStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show all timers",
	Args:  cobra.NoArgs,
	RunE:  runTimerStatus,
}

func init() {
	rootCmd.AddCommand(timerCmd)
	timerCmd.AddCommand(timerStartCmd)
	timerCmd.AddCommand(timerPauseCmd)
	timerCmd.AddCommand(timerFinishCmd)
	timerCmd.AddCommand(timerStatusCmd)
}

func runTimerStart(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	user, err := app.CurrentUser(ctx)
	if err != nil {
		return err
	}

	res, err := app.Timers.Start(ctx, user.ID, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if res.Finished != "" {
		printFinished(cmd, res.Finished, res.Entry)
	}
	printSuccess(out, "Timer running for %s (%s)", args[0], util.FormatStopwatch(res.State.ElapsedSeconds))
	return nil
}

func runTimerPause(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	user, err := app.CurrentUser(ctx)
	if err != nil {
		return err
	}

	status, _, err := app.Timers.Status(ctx, user.ID, args[0])
	if err != nil {
		return err
	}
	if status != domain.TimerRunning {
		fmt.Fprintf(cmd.OutOrStdout(), "No running timer for %s\n", args[0])
		return nil
	}

	state, err := app.Timers.Pause(ctx, user.ID, args[0])
	if err != nil {
		return err
	}
	printSuccess(cmd.OutOrStdout(), "Paused %s at %s", args[0], util.FormatStopwatch(state.ElapsedSeconds))
	return nil
}

func runTimerFinish(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	user, err := app.CurrentUser(ctx)
	if err != nil {
		return err
	}

	status, _, err := app.Timers.Status(ctx, user.ID, args[0])
	if err != nil {
		return err
	}
	if status == domain.TimerAbsent {
		fmt.Fprintf(cmd.OutOrStdout(), "No timer for %s\n", args[0])
		return nil
	}

	entry, err := app.Timers.Finish(ctx, user.ID, args[0])
	if err != nil {
		return err
	}
	printFinished(cmd, args[0], entry)
	return nil
}

func printFinished(cmd *cobra.Command, project string, entry *domain.TimeEntry) {
	if entry == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Finished %s with no time recorded\n", project)
		return
	}
	printSuccess(cmd.OutOrStdout(), "Finished %s: recorded %s (%s - %s)",
		project, util.FormatMinutes(entry.TimeSpent), entry.StartTime, entry.EndTime)
}

func runTimerStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	user, err := app.CurrentUser(ctx)
	if err != nil {
		return err
	}

	timers, err := app.Timers.Timers(ctx, user.ID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(timers) == 0 {
		fmt.Fprintln(out, "No timers")
		return nil
	}

	projects := make([]string, 0, len(timers))
	for p := range timers {
		projects = append(projects, p)
	}
	slices.Sort(projects)

	s := styles()
	for _, p := range projects {
		state := timers[p]
		label := s.Paused.Render("paused ")
		if state.IsRunning {
			label = s.Running.Render("running")
		}
		fmt.Fprintf(out, "%s  %s  %s\n", label, s.Stopwatch.Render(util.FormatStopwatch(app.Timers.Elapsed(state))), p)
	}
	return nil
}
