package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func TestBlend(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want []string
	}{
		{"zero", 0, nil},
		{"single uses from", 1, []string{"#000000"}},
		{"endpoints are exact", 2, []string{"#000000", "#ffffff"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Blend(tt.n, lipgloss.Color("#000000"), lipgloss.Color("#ffffff"))
			if len(got) != len(tt.want) {
				t.Fatalf("Blend(%d) = %v, want %v", tt.n, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Blend(%d)[%d] = %q, want %q", tt.n, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBlend_NonHexFallsBackToGray(t *testing.T) {
	got := Blend(1, lipgloss.Color("39"), lipgloss.Color("#ffffff"))
	if got[0] != "#808080" {
		t.Errorf("Blend(ansi) = %q, want %q", got[0], "#808080")
	}
}

func TestGradient_KeepsText(t *testing.T) {
	tests := []string{"", "x", "▓▓▓▓", "héllo"}
	for _, in := range tests {
		out := Gradient(in, T().Accent, T().AccentDim)
		if got := ansi.Strip(out); got != in {
			t.Errorf("Gradient(%q) stripped = %q", in, got)
		}
	}
}

func TestFrame_Width(t *testing.T) {
	out := Frame(20).Render("abc")
	if w := lipgloss.Width(out); w != 20 {
		t.Errorf("Frame(20) width = %d, want 20", w)
	}
	if w := Frame(1).GetWidth(); w != 0 {
		t.Errorf("Frame(1) inner width = %d, want 0", w)
	}
}
