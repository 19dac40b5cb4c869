package playback

import "github.com/llehouerou/scrub/internal/pipeline"

// StateChange is emitted when the pipeline settles in a new state.
type StateChange struct {
	Previous pipeline.State
	Current  pipeline.State
}

// ErrorEvent is emitted when the engine reports an error. Errors are
// non-fatal: the controller stays usable and a new source can be loaded.
type ErrorEvent struct {
	Source string // element that posted the error
	Err    error
	Debug  string // engine debug detail, may be empty
}

// Error formats the event as "source: err (debug)".
func (e ErrorEvent) Error() string {
	msg := "unknown error"
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Source != "" {
		msg = e.Source + ": " + msg
	}
	if e.Debug != "" {
		msg += " (" + e.Debug + ")"
	}
	return msg
}

// Unwrap returns the engine error.
func (e ErrorEvent) Unwrap() error { return e.Err }
