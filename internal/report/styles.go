package report

import "github.com/charmbracelet/lipgloss"

var (
	colorTitle = lipgloss.Color("#7C3AED")
	colorGood  = lipgloss.Color("#10B981")
	colorBad   = lipgloss.Color("#EF4444")
	colorMuted = lipgloss.Color("#6B7280")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorTitle)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	goodStyle = lipgloss.NewStyle().
			Foreground(colorGood).
			Bold(true)

	badStyle = lipgloss.NewStyle().
			Foreground(colorBad).
			Bold(true)
)

// delta styles a saving: positive is good, negative is bad.
func delta(v float64, text string) string {
	switch {
	case v > 0:
		return goodStyle.Render(text)
	case v < 0:
		return badStyle.Render(text)
	}
	return text
}
