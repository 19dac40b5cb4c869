package keymap

import (
	"errors"
	"testing"
)

var testBindings = []Binding{
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
	{ActionPlayPause, []string{" "}, "Play/pause", "playback"},
	{ActionSeekBack, []string{"left", "h"}, "Step back", "playback"},
	{ActionSeekForward, []string{"right", "l"}, "Step forward", "playback"},
}

func TestResolver_Resolve(t *testing.T) {
	r, err := NewResolver(testBindings)
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	tests := []struct {
		key    string
		want   Action
		wantOK bool
	}{
		{"q", ActionQuit, true},
		{"ctrl+c", ActionQuit, true},
		{" ", ActionPlayPause, true},
		{"h", ActionSeekBack, true},
		{"right", ActionSeekForward, true},
		{"x", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := r.Resolve(tt.key)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Resolve(%q) = (%q, %v), want (%q, %v)", tt.key, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestResolver_KeysForKeepsOrderAndDedupes(t *testing.T) {
	r, err := NewResolver([]Binding{
		{ActionRateReset, []string{"=", "backspace"}, "Normal speed", "rate"},
		{ActionRateReset, []string{"0", "="}, "Normal speed", "playback"},
	})
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	got := r.KeysFor(ActionRateReset)
	want := []string{"=", "backspace", "0"}
	if len(got) != len(want) {
		t.Fatalf("KeysFor() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("KeysFor()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if keys := r.KeysFor(ActionQuit); keys != nil {
		t.Errorf("KeysFor(unbound) = %v, want nil", keys)
	}
}

func TestNewResolver_Conflict(t *testing.T) {
	_, err := NewResolver([]Binding{
		{ActionQuit, []string{"q"}, "Quit", "global"},
		{ActionRateUp, []string{"q"}, "Faster", "rate"},
	})
	if !errors.Is(err, ErrKeyConflict) {
		t.Errorf("NewResolver() error = %v, want ErrKeyConflict", err)
	}
}

func TestDefault(t *testing.T) {
	r := Default()
	if r != Default() {
		t.Error("Default() should return the same resolver")
	}

	for key, want := range map[string]Action{
		"q":           ActionQuit,
		"[":           ActionRateDown,
		"=":           ActionRateReset,
		"shift+right": ActionSeekForwardLong,
		" ":           ActionPlayPause,
		"space":       ActionPlayPause,
		"end":         ActionJumpEnd,
	} {
		if got, _ := r.Resolve(key); got != want {
			t.Errorf("Resolve(%q) = %q, want %q", key, got, want)
		}
	}
}
