// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Playback operations
	OpLoadSource Op = "load source"
	OpPlay       Op = "play"
	OpPause      Op = "pause"
	OpSeek       Op = "seek"
	OpSetRate    Op = "set playback rate"

	// Engine
	OpStartEngine Op = "start engine"
	OpEngine      Op = "play media" // asynchronous engine errors

	// Probe
	OpProbe Op = "probe file"

	// History
	OpOpenHistory   Op = "open history"
	OpRecordHistory Op = "record history"
	OpReadHistory   Op = "read history"

	// Initialization
	OpLoadConfig Op = "load config"
	OpSetupLog   Op = "set up logging"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}

// Error is a failed operation. Its message is the user-facing text and it
// unwraps to the cause.
type Error struct {
	Op      Op
	Context string
	Err     error
}

func (e *Error) Error() string {
	return FormatWith(e.Op, e.Context, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap returns err as an *Error for op, nil if err is nil.
func Wrap(op Op, err error) error {
	return WrapWith(op, "", err)
}

// WrapWith is Wrap with additional context.
func WrapWith(op Op, context string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Context: context, Err: err}
}
