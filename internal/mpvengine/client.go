package mpvengine

import "time"

// EventID is an mpv event the engine reacts to.
type EventID int

const (
	EventNone EventID = iota
	EventFileLoaded
	EventEndFile
	EventPropertyChange
	EventShutdown
	EventOther
)

func (id EventID) String() string {
	switch id {
	case EventNone:
		return "none"
	case EventFileLoaded:
		return "file-loaded"
	case EventEndFile:
		return "end-file"
	case EventPropertyChange:
		return "property-change"
	case EventShutdown:
		return "shutdown"
	default:
		return "other"
	}
}

// Client is the part of an initialized mpv handle the engine drives.
// Property names are mpv's. The handle must observe "pause" and
// "eof-reached" so that changes arrive as EventPropertyChange.
type Client interface {
	Command(args ...string) error
	SetFlag(name string, v bool) error
	SetDouble(name string, v float64) error
	SetInt64(name string, v int64) error
	GetFlag(name string) (bool, error)
	GetInt64(name string) (int64, error)
	GetDouble(name string) (float64, error)
	GetString(name string) (string, error)
	// WaitEvent blocks up to timeout and returns EventNone if nothing happened.
	WaitEvent(timeout time.Duration) EventID
	Destroy()
}
