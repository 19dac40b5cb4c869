package keymap

import "github.com/charmbracelet/bubbles/key"

// Binding describes a single key binding.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "playback", "rate"
}

// Bindings contains all key bindings.
var Bindings = []Binding{
	// Global
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
	{ActionHelp, []string{"?"}, "Toggle help", "global"},

	// Playback
	{ActionPlayPause, []string{" ", "space"}, "Play/pause", "playback"},
	{ActionSeekBack, []string{"left", "h"}, "Step back", "playback"},
	{ActionSeekForward, []string{"right", "l"}, "Step forward", "playback"},
	{ActionSeekBackLong, []string{"shift+left", "H"}, "Seek back", "playback"},
	{ActionSeekForwardLong, []string{"shift+right", "L"}, "Seek forward", "playback"},
	{ActionJumpStart, []string{"home", "0"}, "Go to start", "playback"},
	{ActionJumpEnd, []string{"end"}, "Go to end", "playback"},

	// Rate
	{ActionRateDown, []string{"["}, "Slower", "rate"},
	{ActionRateUp, []string{"]"}, "Faster", "rate"},
	{ActionRateReset, []string{"="}, "Normal speed", "rate"},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range Bindings {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}

// Help converts bindings to bubbles key bindings for the help view.
// The first key is shown; a literal space is shown as "space".
func Help(bindings []Binding) []key.Binding {
	out := make([]key.Binding, 0, len(bindings))
	for _, b := range bindings {
		shown := b.Keys[0]
		if shown == " " {
			shown = "space"
		}
		out = append(out, key.NewBinding(
			key.WithKeys(b.Keys...),
			key.WithHelp(shown, b.Description),
		))
	}
	return out
}
