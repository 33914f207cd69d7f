package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/mtrack/internal/domain"
	"github.com/emiliopalmerini/mtrack/internal/pkg/tui/theme"
	"github.com/emiliopalmerini/mtrack/internal/timer"
	"github.com/emiliopalmerini/mtrack/internal/util"
)

var timerWatchCmd = &cobra.Command{
	Use:   "watch <project>",
	Short: "Show a live timer display",
	Long: `Show a live display of a running timer, refreshed every second.

Keys: p pauses, f finishes and records the entry, q leaves the timer running.`,
	Args: cobra.ExactArgs(1),
	RunE: runTimerWatch,
}

func init() {
	timerCmd.AddCommand(timerWatchCmd)
}

type elapsedMsg int64

type displayDoneMsg struct{}

// timerActions is the part of the engine the watch model drives.
type timerActions interface {
	Pause(ctx context.Context, userID, project string) (domain.TimerState, error)
	Finish(ctx context.Context, userID, project string) (*domain.TimeEntry, error)
}

type watchModel struct {
	ctx     context.Context
	timers  timerActions
	userID  string
	project string

	ticks <-chan int64
	done  <-chan struct{}

	elapsed int64
	status  domain.TimerStatus
	entry   *domain.TimeEntry
	err     error
}

func newWatchModel(ctx context.Context, timers timerActions, userID, project string, ticks <-chan int64, done <-chan struct{}) watchModel {
	return watchModel{
		ctx:     ctx,
		timers:  timers,
		userID:  userID,
		project: project,
		ticks:   ticks,
		done:    done,
		status:  domain.TimerRunning,
	}
}

func (m watchModel) Init() tea.Cmd {
	return m.wait()
}

// wait delivers the next tick, or displayDoneMsg once the display ended.
func (m watchModel) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case s := <-m.ticks:
			return elapsedMsg(s)
		case <-m.done:
			return displayDoneMsg{}
		}
	}
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case elapsedMsg:
		m.elapsed = int64(msg)
		return m, m.wait()

	case displayDoneMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "p":
			state, err := m.timers.Pause(m.ctx, m.userID, m.project)
			if err != nil {
				m.err = err
				return m, tea.Quit
			}
			m.elapsed = state.ElapsedSeconds
			m.status = domain.TimerPaused
			return m, tea.Quit
		case "f":
			entry, err := m.timers.Finish(m.ctx, m.userID, m.project)
			if err != nil {
				m.err = err
				return m, tea.Quit
			}
			m.entry = entry
			m.status = domain.TimerAbsent
			return m, tea.Quit
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m watchModel) View() string {
	s := styles()
	var b strings.Builder

	b.WriteString(s.Subtitle.Render(m.project))
	b.WriteString("\n\n")
	b.WriteString(s.Stopwatch.Render(util.FormatStopwatch(m.elapsed)))
	b.WriteString("  ")
	switch m.status {
	case domain.TimerRunning:
		b.WriteString(s.Running.Render("running"))
	case domain.TimerPaused:
		b.WriteString(s.Paused.Render("paused"))
	default:
		b.WriteString(s.Muted.Render("finished"))
	}
	b.WriteString("\n")
	b.WriteString(s.Help.Render(theme.HelpBar(
		theme.KeyBinding{Key: "p", Desc: "pause"},
		theme.KeyBinding{Key: "f", Desc: "finish"},
		theme.KeyBinding{Key: "q", Desc: "quit"},
	)))
	b.WriteString("\n")

	return s.Card.Render(b.String())
}

func runTimerWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	user, err := app.CurrentUser(ctx)
	if err != nil {
		return err
	}
	project := args[0]

	status, _, err := app.Timers.Status(ctx, user.ID, project)
	if err != nil {
		return err
	}
	if status != domain.TimerRunning {
		return fmt.Errorf("no running timer for %s: start it with 'mtrack timer start'", project)
	}

	ticks := make(chan int64, 1)
	display, err := app.Timers.Display(ctx, user.ID, project, latest(ticks))
	if err != nil {
		return err
	}
	defer display.Stop()

	model := newWatchModel(ctx, app.Timers, user.ID, project, ticks, display.Done())
	program := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)

	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("run timer display: %w", err)
	}

	m := final.(watchModel)
	if m.err != nil {
		return m.err
	}
	if m.status == domain.TimerAbsent {
		printFinished(cmd, project, m.entry)
	}
	return nil
}

// latest returns a render func that keeps only the newest value in ch.
func latest(ch chan int64) timer.RenderFunc {
	return func(s int64) {
		for {
			select {
			case ch <- s:
				return
			default:
			}
			select {
			case <-ch:
			default:
			}
		}
	}
}
