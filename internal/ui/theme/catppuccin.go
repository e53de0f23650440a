package theme

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha.
var (
	Base     = lipgloss.Color("#1e1e2e")
	Mantle   = lipgloss.Color("#181825")
	Surface1 = lipgloss.Color("#45475a")
	Text     = lipgloss.Color("#cdd6f4")
	Subtext0 = lipgloss.Color("#a6adc8")
	Lavender = lipgloss.Color("#b4befe")
	Sapphire = lipgloss.Color("#74c7ec")
	Green    = lipgloss.Color("#a6e3a1")
	Yellow   = lipgloss.Color("#f9e2af")
	Peach    = lipgloss.Color("#fab387")
	Red      = lipgloss.Color("#f38ba8")

	Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Surface1).
		Background(Mantle).
		Foreground(Text).
		Padding(1, 2)

	Title = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Hot   = lipgloss.NewStyle().Foreground(Peach).Bold(true)
	Done  = lipgloss.NewStyle().Foreground(Green).Strikethrough(true)

	Clock = lipgloss.NewStyle().Foreground(Lavender).Bold(true).Padding(1, 4)
)

// ForState colours a timer state label.
func ForState(state string) lipgloss.Style {
	switch state {
	case "running":
		return lipgloss.NewStyle().Foreground(Green).Bold(true)
	case "paused":
		return lipgloss.NewStyle().Foreground(Yellow).Bold(true)
	case "completed":
		return lipgloss.NewStyle().Foreground(Peach).Bold(true)
	default:
		return Muted
	}
}

// DND renders the do-not-disturb indicator.
func DND(blocked bool) string {
	if blocked {
		return lipgloss.NewStyle().Foreground(Red).Bold(true).Render("● DND")
	}
	return Muted.Render("○ alerts")
}
