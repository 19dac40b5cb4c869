package pipeline

import (
	"sync"
	"time"
)

// messageBuffer bounds the Messages channel. A full load posts at most a
// handful of messages, consumers are expected to keep draining.
const messageBuffer = 256

// Tracker drives the one-step-at-a-time state machine on behalf of an
// engine and posts the matching state-changed messages. It is safe for
// concurrent use.
//
// A request runs every step synchronously except, optionally, the step that
// lands on asyncStep: that one stays pending until Complete or Fail.
type Tracker struct {
	source string
	msgs   chan Message

	mu       sync.Mutex
	current  State
	target   State
	pending  bool
	result   StateChangeReturn
	settled  chan struct{}
	closed   bool
	sendLock sync.Mutex
}

// NewTracker creates a tracker in the Null state.
func NewTracker(source string) *Tracker {
	settled := make(chan struct{})
	close(settled)
	return &Tracker{
		source:  source,
		msgs:    make(chan Message, messageBuffer),
		current: StateNull,
		target:  StateNull,
		result:  StateChangeSuccess,
		settled: settled,
	}
}

// Messages returns the channel state-changed messages are posted on.
func (t *Tracker) Messages() <-chan Message {
	return t.msgs
}

// Source returns the source name used on posted messages.
func (t *Tracker) Source() string {
	return t.source
}

// Current returns the current state.
func (t *Tracker) Current() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Target returns the state the last request aims for.
func (t *Tracker) Target() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.target
}

// Request starts a transition to target. Steps run immediately unless the
// step's destination equals asyncStep, in which case the transition stops
// there and Async is returned. Pass StateVoidPending for a fully
// synchronous transition.
//
// A new request replaces any pending one.
func (t *Tracker) Request(target State, asyncStep State) StateChangeReturn {
	t.mu.Lock()
	t.target = target
	if !t.pending {
		t.settled = make(chan struct{})
		t.pending = true
	}
	out, ret := t.stepLocked(asyncStep)
	t.mu.Unlock()

	t.send(out)
	return ret
}

// Complete finishes a pending asynchronous step and runs the remaining
// steps to the target.
func (t *Tracker) Complete() {
	t.mu.Lock()
	if !t.pending {
		t.mu.Unlock()
		return
	}
	out, _ := t.stepLocked(StateVoidPending)
	t.mu.Unlock()

	t.send(out)
}

// Fail aborts a pending transition. The current state is kept.
func (t *Tracker) Fail() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.target = t.current
	t.result = StateChangeFailure
	t.settleLocked()
}

// Force sets the current state without posting any message, cancelling any
// pending transition.
func (t *Tracker) Force(s State) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = s
	t.target = s
	t.result = StateChangeSuccess
	t.settleLocked()
}

// Wait waits up to timeout for the transition to settle and returns the
// result with current and pending states.
func (t *Tracker) Wait(timeout time.Duration) (StateChangeReturn, State, State) {
	t.mu.Lock()
	settled := t.settled
	t.mu.Unlock()

	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		select {
		case <-settled:
		case <-timer.C:
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pending {
		return StateChangeAsync, t.current, t.target
	}
	return t.result, t.current, StateVoidPending
}

// Post queues an arbitrary message on the Messages channel.
func (t *Tracker) Post(msg Message) {
	t.send([]Message{msg})
}

// Close closes the Messages channel. Posting after Close is a no-op.
func (t *Tracker) Close() {
	t.sendLock.Lock()
	defer t.sendLock.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	close(t.msgs)

	t.mu.Lock()
	t.settleLocked()
	t.mu.Unlock()
}

// stepLocked advances toward the target. Callers hold t.mu.
func (t *Tracker) stepLocked(asyncStep State) ([]Message, StateChangeReturn) {
	var out []Message
	for t.current != t.target {
		next := t.current.next(t.target)
		if next == asyncStep {
			return out, StateChangeAsync
		}
		pending := t.target
		if next == t.target {
			pending = StateVoidPending
		}
		out = append(out, StateChanged(t.source, t.current, next, pending))
		t.current = next
	}
	t.result = StateChangeSuccess
	t.settleLocked()
	return out, StateChangeSuccess
}

func (t *Tracker) settleLocked() {
	if t.pending {
		t.pending = false
		close(t.settled)
	}
}

func (t *Tracker) send(msgs []Message) {
	if len(msgs) == 0 {
		return
	}
	t.sendLock.Lock()
	defer t.sendLock.Unlock()
	if t.closed {
		return
	}
	for _, m := range msgs {
		t.msgs <- m
	}
}
