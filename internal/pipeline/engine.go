// internal/pipeline/engine.go
package pipeline

import (
	"time"

	"github.com/llehouerou/scrub/internal/caps"
)

// Engine is the contract of an external media pipeline. Decoding, rendering
// and demuxing all happen behind it.
type Engine interface {
	// Name identifies the top-level pipeline; it is the Source of the
	// messages the pipeline itself posts.
	Name() string

	// SetState requests a transition. Completion is reported through
	// state-changed messages.
	SetState(target State) StateChangeReturn
	// GetState waits up to timeout for a pending transition to settle and
	// returns the result with the current and pending states. A zero timeout
	// returns the last known state without waiting.
	GetState(timeout time.Duration) (StateChangeReturn, State, State)

	// SetURI sets the media source. Takes effect on the next Null → Paused.
	SetURI(uri string) error

	QueryDuration() (time.Duration, bool)
	QueryPosition() (time.Duration, bool)

	// Seek changes rate and/or position. SeekTypeNone on a bound keeps it.
	// It returns false if the engine refused the seek.
	Seek(rate float64, flags SeekFlags, startType SeekType, start time.Duration,
		stopType SeekType, stop time.Duration) bool

	// NegotiatedVideoFormat returns the caps currently negotiated on the
	// video sink input, false if no video format is negotiated.
	NegotiatedVideoFormat() (*caps.Structure, bool)

	// Messages delivers asynchronous notifications. The channel is closed by Close.
	Messages() <-chan Message
	// SetSyncHandler installs a handler called synchronously, from the
	// engine's own goroutine, for messages that must be answered before the
	// engine proceeds (window handle requests).
	SetSyncHandler(fn func(Message))

	Close() error
}

// StreamLister is implemented by engines that can report the caps of every
// decoded stream, not only the negotiated video one.
type StreamLister interface {
	StreamCaps() []*caps.Structure
}

// VideoOverlay is implemented by video sinks that can render into a
// foreign window.
type VideoOverlay interface {
	SetWindowHandle(handle uintptr)
}

// MessageType tags a Message.
type MessageType int

const (
	MessageStateChanged MessageType = iota
	MessageEOS
	MessageError
	MessagePrepareWindowHandle
)

// String returns the message type name.
func (t MessageType) String() string {
	switch t {
	case MessageStateChanged:
		return "state-changed"
	case MessageEOS:
		return "eos"
	case MessageError:
		return "error"
	case MessagePrepareWindowHandle:
		return "prepare-window-handle"
	default:
		return "unknown"
	}
}

// Message is a notification posted by the engine.
type Message struct {
	Type MessageType
	// Source names the posting element; equal to Engine.Name() for the
	// top-level pipeline.
	Source string

	// MessageStateChanged
	Old     State
	New     State
	Pending State

	// MessageError
	Err   error
	Debug string

	// MessagePrepareWindowHandle
	Overlay VideoOverlay
}

// StateChanged builds a state-changed message.
func StateChanged(source string, old, current, pending State) Message {
	return Message{
		Type:    MessageStateChanged,
		Source:  source,
		Old:     old,
		New:     current,
		Pending: pending,
	}
}
