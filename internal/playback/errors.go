package playback

import (
	"errors"
	"fmt"

	"github.com/llehouerou/scrub/internal/pipeline"
)

var (
	// ErrEngineStart is matched by every *EngineStartError.
	ErrEngineStart = errors.New("engine did not start")
	// ErrSeekRejected is returned when the engine refuses a seek or rate change.
	ErrSeekRejected = errors.New("seek rejected by engine")
	// ErrInvalidRate is returned for zero, NaN or infinite rates.
	ErrInvalidRate = errors.New("invalid playback rate")
	// ErrInvalidPosition is returned when seeking to NaN.
	ErrInvalidPosition = errors.New("invalid seek position")
	// ErrClosed is returned once the controller loop has stopped.
	ErrClosed = errors.New("playback controller closed")
	// ErrRunning is returned when Run is called twice.
	ErrRunning = errors.New("playback controller already running")
)

// EngineStartError reports a load whose state transition did not settle on
// the target state within the load timeout.
type EngineStartError struct {
	URI     string
	Target  pipeline.State
	Current pipeline.State
	Result  pipeline.StateChangeReturn
}

func (e *EngineStartError) Error() string {
	return fmt.Sprintf("engine did not reach %s for %s (state %s, result %s)",
		e.Target, e.URI, e.Current, e.Result)
}

// Unwrap allows errors.Is(err, ErrEngineStart).
func (e *EngineStartError) Unwrap() error {
	return ErrEngineStart
}
