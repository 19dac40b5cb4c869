package styles

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// Gradient renders text with its foreground blended from one color to
// another, one step per grapheme cluster.
func Gradient(text string, from, to lipgloss.Color) string {
	clusters := graphemes(text)
	switch len(clusters) {
	case 0:
		return ""
	case 1:
		return lipgloss.NewStyle().Foreground(from).Render(text)
	}

	var b strings.Builder
	for i, hex := range Blend(len(clusters), from, to) {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render(clusters[i]))
	}
	return b.String()
}

// Blend returns n hex colors from one color to another, in HCL space.
// Non-hex colors blend from neutral gray.
func Blend(n int, from, to lipgloss.Color) []string {
	if n <= 0 {
		return nil
	}
	c1 := toColorful(from)
	if n == 1 {
		return []string{c1.Hex()}
	}
	c2 := toColorful(to)
	out := make([]string, n)
	for i := range n {
		out[i] = c1.BlendHcl(c2, float64(i)/float64(n-1)).Clamped().Hex()
	}
	return out
}

func graphemes(text string) []string {
	var out []string
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		out = append(out, gr.Str())
	}
	return out
}

func toColorful(c lipgloss.Color) colorful.Color {
	if col, err := colorful.Hex(string(c)); err == nil {
		return col
	}
	col, _ := colorful.MakeColor(color.Gray{Y: 128})
	return col
}
