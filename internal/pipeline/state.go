// internal/pipeline/state.go
package pipeline

// State is the engine state machine.
//
// Transitions always move one step at a time along
//
//	Null ⇄ Ready ⇄ Paused ⇄ Playing
//
// so a request from Null to Playing yields three state-changed messages.
// Every step except the last carries the final target as its pending state;
// the last step carries StateVoidPending.
//
// Ready → Paused is the preroll step: engines usually complete it
// asynchronously once the first buffers reach the sinks.
type State int

const (
	StateVoidPending State = iota
	StateNull
	StateReady
	StatePaused
	StatePlaying
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateVoidPending:
		return "VoidPending"
	case StateNull:
		return "Null"
	case StateReady:
		return "Ready"
	case StatePaused:
		return "Paused"
	case StatePlaying:
		return "Playing"
	default:
		return "Unknown"
	}
}

// IsActive returns true if a source is loaded (Paused or Playing).
func (s State) IsActive() bool {
	return s == StatePaused || s == StatePlaying
}

// next returns the state one step closer to target.
func (s State) next(target State) State {
	switch {
	case s < target:
		return s + 1
	case s > target:
		return s - 1
	default:
		return s
	}
}

// StateChangeReturn is the result of a state change request or query.
type StateChangeReturn int

const (
	StateChangeFailure StateChangeReturn = iota
	StateChangeSuccess
	StateChangeAsync
	StateChangeNoPreroll
)

// String returns the result name.
func (r StateChangeReturn) String() string {
	switch r {
	case StateChangeFailure:
		return "Failure"
	case StateChangeSuccess:
		return "Success"
	case StateChangeAsync:
		return "Async"
	case StateChangeNoPreroll:
		return "NoPreroll"
	default:
		return "Unknown"
	}
}

// SeekFlags modify how a seek is performed.
type SeekFlags uint

const (
	SeekFlagNone SeekFlags = 0
	// SeekFlagFlush discards queued data so the seek takes effect immediately.
	SeekFlagFlush SeekFlags = 1 << iota
	// SeekFlagAccurate lands exactly on the requested position instead of
	// the nearest keyframe.
	SeekFlagAccurate
	SeekFlagKeyUnit
)

// Has reports whether all bits of flag are set.
func (f SeekFlags) Has(flag SeekFlags) bool {
	return f&flag == flag
}

// SeekType says how a seek bound is interpreted.
type SeekType int

const (
	// SeekTypeNone keeps the current value of the bound.
	SeekTypeNone SeekType = iota
	// SeekTypeSet sets the bound to an absolute position.
	SeekTypeSet
	// SeekTypeEnd sets the bound relative to the end of the stream.
	SeekTypeEnd
)

// String returns the seek type name.
func (t SeekType) String() string {
	switch t {
	case SeekTypeNone:
		return "None"
	case SeekTypeSet:
		return "Set"
	case SeekTypeEnd:
		return "End"
	default:
		return "Unknown"
	}
}
