// internal/pipeline/mock.go
package pipeline

import (
	"errors"
	"sync"
	"time"

	"github.com/llehouerou/scrub/internal/caps"
)

// ErrPreroll is posted by Mock when preroll is configured to fail.
var ErrPreroll = errors.New("could not preroll source")

// SeekCall records one Seek invocation on Mock.
type SeekCall struct {
	Rate      float64
	Flags     SeekFlags
	StartType SeekType
	Start     time.Duration
	StopType  SeekType
	Stop      time.Duration
}

// Mock is an in-memory Engine. Queries succeed only once the engine is at
// least Paused, like a real pipeline that has prerolled.
type Mock struct {
	tracker *Tracker

	mu            sync.Mutex
	uri           string
	duration      time.Duration
	position      time.Duration
	rate          float64
	video         *caps.Structure
	streams       []*caps.Structure
	asyncPreroll  bool
	failPreroll   bool
	rejectSeeks   bool
	seeks         []SeekCall
	stateRequests []State
	syncHandler   func(Message)
	windowHandle  uintptr
}

// NewMock creates a mock engine named "pipeline0".
func NewMock() *Mock {
	return NewNamedMock("pipeline0")
}

// NewNamedMock creates a mock engine with the given top-level name.
func NewNamedMock(name string) *Mock {
	return &Mock{
		tracker: NewTracker(name),
		rate:    1.0,
	}
}

// Tracker exposes the underlying state tracker.
func (m *Mock) Tracker() *Tracker { return m.tracker }

func (m *Mock) Name() string { return m.tracker.Source() }

func (m *Mock) SetState(target State) StateChangeReturn {
	current := m.tracker.Current()

	m.mu.Lock()
	m.stateRequests = append(m.stateRequests, target)
	prerolling := current < StatePaused && target >= StatePaused
	asyncPreroll := m.asyncPreroll
	failPreroll := m.failPreroll
	handler := m.syncHandler
	if target == StateNull || target == StateReady {
		m.position = 0
	}
	m.mu.Unlock()

	if prerolling && handler != nil {
		handler(Message{
			Type:    MessagePrepareWindowHandle,
			Source:  "videosink",
			Overlay: m,
		})
	}

	switch {
	case prerolling && failPreroll:
		m.tracker.Request(target, StatePaused)
		m.tracker.Fail()
		m.SimulateError(ErrPreroll, "mock: preroll failed")
		return StateChangeFailure
	case prerolling && asyncPreroll:
		return m.tracker.Request(target, StatePaused)
	default:
		return m.tracker.Request(target, StateVoidPending)
	}
}

func (m *Mock) GetState(timeout time.Duration) (StateChangeReturn, State, State) {
	return m.tracker.Wait(timeout)
}

func (m *Mock) SetURI(uri string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uri = uri
	return nil
}

func (m *Mock) QueryDuration() (time.Duration, bool) {
	if m.tracker.Current() < StatePaused {
		return 0, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration, m.duration > 0
}

func (m *Mock) QueryPosition() (time.Duration, bool) {
	if m.tracker.Current() < StatePaused {
		return 0, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position, true
}

func (m *Mock) Seek(rate float64, flags SeekFlags, startType SeekType, start time.Duration,
	stopType SeekType, stop time.Duration) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seeks = append(m.seeks, SeekCall{
		Rate:      rate,
		Flags:     flags,
		StartType: startType,
		Start:     start,
		StopType:  stopType,
		Stop:      stop,
	})
	if m.rejectSeeks || rate == 0 {
		return false
	}
	m.rate = rate
	switch startType {
	case SeekTypeSet:
		m.position = min(max(start, 0), m.duration)
	case SeekTypeEnd:
		m.position = min(max(m.duration+start, 0), m.duration)
	case SeekTypeNone:
	}
	return true
}

func (m *Mock) NegotiatedVideoFormat() (*caps.Structure, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.video, m.video != nil
}

// StreamCaps returns the configured stream caps, the negotiated video
// format first.
func (m *Mock) StreamCaps() []*caps.Structure {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*caps.Structure
	if m.video != nil {
		out = append(out, m.video)
	}
	return append(out, m.streams...)
}

func (m *Mock) Messages() <-chan Message { return m.tracker.Messages() }

func (m *Mock) SetSyncHandler(fn func(Message)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncHandler = fn
}

func (m *Mock) Close() error {
	m.tracker.Close()
	return nil
}

// SetWindowHandle implements VideoOverlay.
func (m *Mock) SetWindowHandle(handle uintptr) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.windowHandle = handle
}

// Test helpers.

// SetDuration sets the stream duration reported once prerolled.
func (m *Mock) SetDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duration = d
}

// SetPosition moves the playback position, as if the stream advanced.
func (m *Mock) SetPosition(p time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = p
}

// SetAsyncPreroll makes Ready → Paused pending until CompletePreroll.
func (m *Mock) SetAsyncPreroll(async bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.asyncPreroll = async
}

// SetFailPreroll makes Ready → Paused fail with an error message.
func (m *Mock) SetFailPreroll(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failPreroll = fail
}

// SetRejectSeeks makes every Seek return false.
func (m *Mock) SetRejectSeeks(reject bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejectSeeks = reject
}

// CompletePreroll completes a pending asynchronous preroll.
func (m *Mock) CompletePreroll() {
	m.tracker.Complete()
}

// NegotiateVideo sets the negotiated video format. Nil clears it.
func (m *Mock) NegotiateVideo(st *caps.Structure) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.video = st
}

// AddStream adds a non-video stream reported by StreamCaps.
func (m *Mock) AddStream(st *caps.Structure) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.streams = append(m.streams, st)
}

// SimulateStateChange posts a state-changed message from the pipeline
// without moving the tracked state.
func (m *Mock) SimulateStateChange(old, current, pending State) {
	m.tracker.Post(StateChanged(m.Name(), old, current, pending))
}

// SimulateEOS posts an end-of-stream message.
func (m *Mock) SimulateEOS() {
	m.tracker.Post(Message{Type: MessageEOS, Source: m.Name()})
}

// SimulateError posts an error message.
func (m *Mock) SimulateError(err error, debug string) {
	m.tracker.Post(Message{
		Type:   MessageError,
		Source: m.Name(),
		Err:    err,
		Debug:  debug,
	})
}

// Post posts an arbitrary message.
func (m *Mock) Post(msg Message) {
	m.tracker.Post(msg)
}

// URI returns the last URI set.
func (m *Mock) URI() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.uri
}

// EngineRate returns the rate of the last accepted seek.
func (m *Mock) EngineRate() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rate
}

// Seeks returns the recorded seek calls.
func (m *Mock) Seeks() []SeekCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SeekCall, len(m.seeks))
	copy(out, m.seeks)
	return out
}

// ResetSeeks clears the recorded seek calls.
func (m *Mock) ResetSeeks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seeks = nil
}

// StateRequests returns the recorded SetState targets.
func (m *Mock) StateRequests() []State {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]State, len(m.stateRequests))
	copy(out, m.stateRequests)
	return out
}

// WindowHandle returns the handle last set through VideoOverlay.
func (m *Mock) WindowHandle() uintptr {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.windowHandle
}
