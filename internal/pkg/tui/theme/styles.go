package theme

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Styles contains the shared terminal styles.
type Styles struct {
	// Text styles
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Muted    lipgloss.Style

	// Help and hints
	Help    lipgloss.Style
	HelpKey lipgloss.Style

	// Layout
	Card lipgloss.Style

	// Timer display
	Stopwatch lipgloss.Style
	Running   lipgloss.Style
	Paused    lipgloss.Style

	// Calendar cells
	Today      lipgloss.Style
	Selected   lipgloss.Style
	OtherMonth lipgloss.Style
	Logged     lipgloss.Style

	// Bars
	ProgressActive   lipgloss.Style
	ProgressInactive lipgloss.Style

	// Status indicators
	Success lipgloss.Style
	Error   lipgloss.Style
}

var (
	defaultStyles *Styles
	once          sync.Once
)

// Default returns the singleton default Styles instance
func Default() *Styles {
	once.Do(func() {
		defaultStyles = newStyles()
	})
	return defaultStyles
}

func newStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(Text),

		Subtitle: lipgloss.NewStyle().
			Foreground(Teal).
			Bold(true),

		Muted: lipgloss.NewStyle().
			Foreground(Faint),

		Help: lipgloss.NewStyle().
			Foreground(Faint).
			MarginTop(1),

		HelpKey: lipgloss.NewStyle().
			Foreground(Subtle).
			Bold(true),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(1, 2),

		Stopwatch: lipgloss.NewStyle().
			Bold(true).
			Foreground(BrightTeal),

		Running: lipgloss.NewStyle().
			Foreground(Success),

		Paused: lipgloss.NewStyle().
			Foreground(Warning),

		Today: lipgloss.NewStyle().
			Foreground(Today).
			Bold(true),

		Selected: lipgloss.NewStyle().
			Foreground(BrightTeal).
			Underline(true),

		OtherMonth: lipgloss.NewStyle().
			Foreground(Border),

		Logged: lipgloss.NewStyle().
			Foreground(Teal),

		ProgressActive: lipgloss.NewStyle().
			Foreground(Teal),

		ProgressInactive: lipgloss.NewStyle().
			Foreground(Faint),

		Success: lipgloss.NewStyle().
			Foreground(Success),

		Error: lipgloss.NewStyle().
			Foreground(Error),
	}
}
