package styles

import "github.com/charmbracelet/lipgloss"

// Frame returns the rounded border drawn around the player.
func Frame(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(T().Border).
		Padding(0, 1).
		Width(max(width-2, 0))
}
