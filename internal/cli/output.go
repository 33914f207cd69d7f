package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/emiliopalmerini/mtrack/internal/pkg/tui/theme"
)

func styles() *theme.Styles {
	return theme.Default()
}

func printTitle(w io.Writer, title string) {
	fmt.Fprintln(w, styles().Title.Render(title))
}

func printSection(w io.Writer, title string) {
	fmt.Fprintln(w, styles().Subtitle.Render(title))
}

func printRow(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-22s %s\n", styles().Muted.Render(label), value)
}

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styles().Success.Render(fmt.Sprintf(format, args...)))
}

func printEmpty(w io.Writer, what string) {
	fmt.Fprintln(w, styles().Muted.Render("No data"+what))
}

// bar renders a proportional bar of width cells for value out of peak on
// a dimmed track.
func bar(value, peak, width int) string {
	if peak <= 0 {
		return ""
	}
	n := 0
	if value > 0 {
		n = max(value*width/peak, 1)
	}
	s := styles()
	return s.ProgressActive.Render(strings.Repeat("█", n)) + s.ProgressInactive.Render(strings.Repeat("░", width-n))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
