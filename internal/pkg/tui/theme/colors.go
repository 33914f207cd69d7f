package theme

import "github.com/charmbracelet/lipgloss"

// Palette. Light variants keep contrast on light terminal backgrounds.
var (
	Teal       = lipgloss.AdaptiveColor{Light: "#0F766E", Dark: "#14B8A6"}
	BrightTeal = lipgloss.AdaptiveColor{Light: "#0D9488", Dark: "#2DD4BF"}

	Text   = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#F9FAFB"}
	Subtle = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#9CA3AF"}
	Faint  = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6B7280"}
	Border = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#374151"}

	Success = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#22C55E"}
	Warning = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#F59E0B"}
	Error   = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#EF4444"}

	// Today marks the current day in the calendar.
	Today = lipgloss.AdaptiveColor{Light: "#C2410C", Dark: "#F97316"}
)
