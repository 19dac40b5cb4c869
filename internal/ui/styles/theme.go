// Package styles holds the terminal color palette and shared lipgloss styles.
package styles

import "github.com/charmbracelet/lipgloss"

// Theme is the color palette.
type Theme struct {
	Accent     lipgloss.Color // scrub bar head, playing state
	AccentDim  lipgloss.Color // scrub bar tail
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Track      lipgloss.Color // unfilled part of the bar
	Border     lipgloss.Color
	Error      lipgloss.Color
	Warning    lipgloss.Color

	styles *Styles
}

// Styles contains pre-built lipgloss styles.
type Styles struct {
	Base    lipgloss.Style
	Muted   lipgloss.Style
	Title   lipgloss.Style
	Playing lipgloss.Style
	Paused  lipgloss.Style
	Track   lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
}

var defaultTheme = Theme{
	Accent:     lipgloss.Color("#5fd7ff"),
	AccentDim:  lipgloss.Color("#875fff"),
	Foreground: lipgloss.Color("#d0d0d0"),
	Muted:      lipgloss.Color("#808080"),
	Track:      lipgloss.Color("#3a3a3a"),
	Border:     lipgloss.Color("#585858"),
	Error:      lipgloss.Color("#ff5f5f"),
	Warning:    lipgloss.Color("#ffaf00"),
}

// T returns the default theme.
func T() *Theme {
	return &defaultTheme
}

// S returns the pre-built styles for this theme.
func (t *Theme) S() *Styles {
	if t.styles == nil {
		base := lipgloss.NewStyle().Foreground(t.Foreground)
		t.styles = &Styles{
			Base:    base,
			Muted:   lipgloss.NewStyle().Foreground(t.Muted),
			Title:   base.Bold(true),
			Playing: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
			Paused:  lipgloss.NewStyle().Foreground(t.Warning),
			Track:   lipgloss.NewStyle().Foreground(t.Track),
			Error:   lipgloss.NewStyle().Foreground(t.Error),
			Warning: lipgloss.NewStyle().Foreground(t.Warning),
		}
	}
	return t.styles
}
