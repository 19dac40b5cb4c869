package errmsg

import (
	"errors"
	"fmt"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpSeek,
			err:      nil,
			expected: "",
		},
		{
			name:     "load source",
			op:       OpLoadSource,
			err:      errors.New("engine did not reach PAUSED"),
			expected: "Failed to load source: engine did not reach PAUSED",
		},
		{
			name:     "set rate",
			op:       OpSetRate,
			err:      errors.New("seek rejected"),
			expected: "Failed to set playback rate: seek rejected",
		},
		{
			name:     "wrapped error keeps its chain text",
			op:       OpRecordHistory,
			err:      fmt.Errorf("record file:///a: %w", errors.New("disk full")),
			expected: "Failed to record history: record file:///a: disk full",
		},
		{
			name:     "engine error",
			op:       OpEngine,
			err:      errors.New("pipeline0: no decoder"),
			expected: "Failed to play media: pipeline0: no decoder",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.op, tt.err)
			if result != tt.expected {
				t.Errorf("Format(%q, %v) = %q, want %q", tt.op, tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatWith(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		context  string
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpProbe,
			context:  "/media/a.mkv",
			err:      nil,
			expected: "",
		},
		{
			name:     "context is quoted",
			op:       OpProbe,
			context:  "/media/a.mkv",
			err:      errors.New("is a directory"),
			expected: "Failed to probe file '/media/a.mkv': is a directory",
		},
		{
			name:     "empty context falls back to Format",
			op:       OpLoadConfig,
			context:  "",
			err:      errors.New("bad toml"),
			expected: "Failed to load config: bad toml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatWith(tt.op, tt.context, tt.err)
			if result != tt.expected {
				t.Errorf("FormatWith(%q, %q, %v) = %q, want %q", tt.op, tt.context, tt.err, result, tt.expected)
			}
		})
	}
}

var errDiskFull = errors.New("disk full")

type causeError struct{ code int }

func (e *causeError) Error() string { return fmt.Sprintf("code %d", e.code) }

func TestWrap(t *testing.T) {
	if err := Wrap(OpSeek, nil); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}

	err := Wrap(OpRecordHistory, fmt.Errorf("record: %w", errDiskFull))
	if got, want := err.Error(), "Failed to record history: record: disk full"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, errDiskFull) {
		t.Error("errors.Is should reach the cause")
	}
}

func TestWrapWith(t *testing.T) {
	err := WrapWith(OpLoadSource, "/media/a.mkv", &causeError{code: 3})
	if got, want := err.Error(), "Failed to load source '/media/a.mkv': code 3"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	var cause *causeError
	if !errors.As(err, &cause) || cause.code != 3 {
		t.Errorf("errors.As(%v) = %v, want the cause", err, cause)
	}
	var wrapped *Error
	if !errors.As(err, &wrapped) || wrapped.Op != OpLoadSource {
		t.Errorf("errors.As(*Error) = %v, want op %q", wrapped, OpLoadSource)
	}
}
