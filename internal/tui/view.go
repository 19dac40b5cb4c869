package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/x/ansi"

	"github.com/llehouerou/scrub/internal/keymap"
	"github.com/llehouerou/scrub/internal/pipeline"
	"github.com/llehouerou/scrub/internal/ui/styles"
)

// View implements tea.Model.
func (m Model) View() string {
	t := styles.T()
	inner := max(m.width-4, 10)

	lines := []string{
		t.S().Title.Render(fit(m.title(), inner)),
		t.S().Muted.Render(ansi.Truncate(m.details(), inner, "…")),
		"",
		m.bar.Render(inner, m.state == pipeline.StatePlaying),
	}
	if m.errorMsg != "" {
		lines = append(lines, "", t.S().Error.Render(ansi.Truncate(m.errorMsg, inner, "…")))
	}
	if m.showHelp {
		lines = append(lines, "", m.help.FullHelpView(helpKeys()))
	} else {
		lines = append(lines, "", m.help.ShortHelpView(keymap.Help(keymap.ByContext("global"))))
	}

	return styles.Frame(m.width).Render(strings.Join(lines, "\n"))
}

func (m Model) title() string {
	switch {
	case m.session.Path != "":
		return filepath.Base(m.session.Path)
	case m.session.URI != "":
		return m.session.URI
	default:
		return "no source"
	}
}

// details renders "1920x1080 · 29.970 fps · 1.00x · PLAYING".
func (m Model) details() string {
	parts := make([]string, 0, 4)
	if m.frameW > 0 && m.frameH > 0 {
		parts = append(parts, fmt.Sprintf("%dx%d", m.frameW, m.frameH))
	} else {
		parts = append(parts, "no video")
	}
	if m.framerate > 0 {
		parts = append(parts, fmt.Sprintf("%.3f fps", m.framerate))
	}
	parts = append(parts, fmt.Sprintf("%.2fx", m.rate), m.state.String())
	return strings.Join(parts, " · ")
}

func helpKeys() [][]key.Binding {
	return [][]key.Binding{
		keymap.Help(keymap.ByContext("playback")),
		keymap.Help(keymap.ByContext("rate")),
		keymap.Help(keymap.ByContext("global")),
	}
}
