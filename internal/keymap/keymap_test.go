package keymap

import (
	"testing"
)

func TestByContext(t *testing.T) {
	tests := []struct {
		name            string
		context         string
		expectMinLength int
	}{
		{"global context", "global", 2},
		{"playback context", "playback", 7},
		{"rate context", "rate", 3},
		{"unknown context returns empty", "unknown", 0},
		{"empty context returns empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ByContext(tt.context)

			if tt.expectMinLength == 0 && len(result) != 0 {
				t.Errorf("ByContext(%q) returned %d items, expected empty", tt.context, len(result))
			}
			if len(result) < tt.expectMinLength {
				t.Errorf("ByContext(%q) returned %d items, expected at least %d", tt.context, len(result), tt.expectMinLength)
			}
			for _, binding := range result {
				if binding.Context != tt.context {
					t.Errorf("binding context = %q, want %q", binding.Context, tt.context)
				}
			}
		})
	}
}

func TestBindingsHaveRequiredFields(t *testing.T) {
	for i, b := range Bindings {
		if b.Action == "" {
			t.Errorf("binding[%d] has empty Action", i)
		}
		if len(b.Keys) == 0 {
			t.Errorf("binding[%d] (%s) has no Keys", i, b.Action)
		}
		if b.Description == "" {
			t.Errorf("binding[%d] (%s) has empty Description", i, b.Action)
		}
	}
}

func TestBindingsNoKeyConflicts(t *testing.T) {
	seen := map[string]Action{}
	for _, b := range Bindings {
		for _, k := range b.Keys {
			if prev, ok := seen[k]; ok && prev != b.Action {
				t.Errorf("key %q bound to both %q and %q", k, prev, b.Action)
			}
			seen[k] = b.Action
		}
	}
}

func TestHelp(t *testing.T) {
	help := Help(ByContext("playback"))

	if len(help) != len(ByContext("playback")) {
		t.Fatalf("Help() returned %d bindings, want %d", len(help), len(ByContext("playback")))
	}
	if got := help[0].Help().Key; got != "space" {
		t.Errorf("play/pause help key = %q, want %q", got, "space")
	}
	if got := help[0].Help().Desc; got != "Play/pause" {
		t.Errorf("play/pause help desc = %q, want %q", got, "Play/pause")
	}
	if keys := help[1].Keys(); len(keys) != 2 || keys[0] != "left" {
		t.Errorf("seek back keys = %v, want [left h]", keys)
	}
}
