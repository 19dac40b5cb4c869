//go:build !windows

package stderr

import (
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForward(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	forward(strings.NewReader("[vo/gpu] using EGL\n\n   \n[ffmpeg] Error while decoding frame\n"), log)

	entries := hook.AllEntries()
	require.Len(t, entries, 2, "blank lines are skipped")
	assert.Equal(t, logrus.DebugLevel, entries[0].Level)
	assert.Equal(t, "[vo/gpu] using EGL", entries[0].Message)
	assert.Equal(t, "stderr", entries[0].Data["source"])
	assert.Equal(t, logrus.WarnLevel, entries[1].Level)
}

func TestIsErrorLine(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"ALSA lib pcm.c: Failed to open", true},
		{"Fatal: no display", true},
		{"[ao] ERROR opening device", true},
		{"AO: [pulse] 48000Hz stereo", false},
	}
	for _, tt := range tests {
		if got := isErrorLine(tt.line); got != tt.want {
			t.Errorf("isErrorLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestStopWithoutStart(t *testing.T) {
	Stop()
	WriteOriginal("")
}
