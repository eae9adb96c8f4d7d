package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Color palette
	Primary    = lipgloss.Color("#7AA2F7")
	Secondary  = lipgloss.Color("#BB9AF7")
	Success    = lipgloss.Color("#9ECE6A")
	Warning    = lipgloss.Color("#E0AF68")
	Error      = lipgloss.Color("#F7768E")
	Muted      = lipgloss.Color("#565F89")
	Foreground = lipgloss.Color("#C0CAF5")

	RoundedBorder = lipgloss.RoundedBorder()
	ThickBorder   = lipgloss.ThickBorder()
)

var (
	// Title style for headings
	TitleStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Italic(true)

	TextStyle = lipgloss.NewStyle().
			Foreground(Foreground)

	MutedStyle = lipgloss.NewStyle().
			Foreground(Muted)

	// Chapter card
	CardStyle = lipgloss.NewStyle().
			Border(RoundedBorder).
			BorderForeground(Secondary).
			Padding(0, 2)

	// Selected chapter card
	ActiveCardStyle = lipgloss.NewStyle().
			Border(ThickBorder).
			BorderForeground(Primary).
			Padding(0, 2)

	// Status styles
	StatusConverting = lipgloss.NewStyle().
				Foreground(Warning).
				Bold(true)

	StatusDone = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	StatusError = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	ProgressBarStyle = lipgloss.NewStyle().
				Foreground(Primary)

	HelpStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true).
			MarginTop(1)
)

// StatusStyle maps a chapter state to its display style.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case "loading", "composing":
		return StatusConverting
	case "done":
		return StatusDone
	case "failed":
		return StatusError
	default:
		return MutedStyle
	}
}
