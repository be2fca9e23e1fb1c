package progress

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette of progress output.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Secondary is the secondary accent colour.
	Secondary lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Success indicates positive outcomes.
	Success lipgloss.Color

	// Warning indicates caution.
	Warning lipgloss.Color

	// Border is the border colour.
	Border lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#7C3AED"), // Purple
		Secondary:  lipgloss.Color("#06B6D4"), // Cyan
		Foreground: lipgloss.Color("#CDD6F4"), // Light gray
		Muted:      lipgloss.Color("#6C7086"), // Medium gray
		Success:    lipgloss.Color("#A6E3A1"), // Green
		Warning:    lipgloss.Color("#F9E2AF"), // Yellow
		Border:     lipgloss.Color("#45475A"), // Border gray
	}
}

// Styles contains the lipgloss styles used by the reporter.
type Styles struct {
	theme *Theme

	// Title style for stage headers.
	Title lipgloss.Style

	// Detail style for the per-unit detail text.
	Detail lipgloss.Style

	// Key style for summary labels.
	Key lipgloss.Style

	// Value style for summary counters.
	Value lipgloss.Style

	// Warning style for failure counters.
	Warning lipgloss.Style

	// Box style for the summary block.
	Box lipgloss.Style
}

// NewStyles creates styles from a theme bound to a renderer. The renderer
// decides the colour profile, so output to a pipe or buffer stays plain.
func NewStyles(theme *Theme, r *lipgloss.Renderer) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}

	return &Styles{
		theme: theme,

		Title: r.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Detail: r.NewStyle().
			Foreground(theme.Muted),

		Key: r.NewStyle().
			Foreground(theme.Foreground).
			Width(summaryKeyWidth),

		Value: r.NewStyle().
			Bold(true).
			Foreground(theme.Success),

		Warning: r.NewStyle().
			Bold(true).
			Foreground(theme.Warning),

		Box: r.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
	}
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
