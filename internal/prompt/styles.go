package prompt

import "github.com/charmbracelet/lipgloss"

// Colors used by the console. Terminals without color support fall back to
// plain text automatically.
var (
	PrimaryColor = lipgloss.Color("#7C3AED")
	GreenColor   = lipgloss.Color("#10B981")
	YellowColor  = lipgloss.Color("#F59E0B")
	RedColor     = lipgloss.Color("#EF4444")
	MutedColor   = lipgloss.Color("#9CA3AF")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor)
	labelStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(MutedColor)
	successStyle = lipgloss.NewStyle().Foreground(GreenColor)
	warningStyle = lipgloss.NewStyle().Foreground(YellowColor)
	errorStyle   = lipgloss.NewStyle().Foreground(RedColor)

	reviewBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(PrimaryColor).
			Padding(0, 1)
)
