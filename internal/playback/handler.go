package playback

import (
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/scrub/internal/pipeline"
)

// handleMessage dispatches one engine message. Runs on the loop.
func (c *Controller) handleMessage(msg pipeline.Message) {
	switch msg.Type {
	case pipeline.MessageStateChanged:
		c.handleStateChanged(msg)
	case pipeline.MessageEOS:
		c.log.Debug("end of stream")
		c.engine.SetState(pipeline.StatePaused)
	case pipeline.MessageError:
		c.handleError(msg)
	case pipeline.MessagePrepareWindowHandle:
		// Normally answered by the sync handler; engines may also post it.
		c.handleSync(msg)
	}
}

// handleStateChanged reacts to settled transitions of the top-level
// pipeline. Intermediate steps and messages from child elements are
// ignored.
func (c *Controller) handleStateChanged(msg pipeline.Message) {
	if msg.Source != c.engine.Name() || msg.Pending != pipeline.StateVoidPending {
		return
	}
	c.log.WithFields(logrus.Fields{
		"old": msg.Old,
		"new": msg.New,
	}).Debug("state changed")

	c.state = msg.New

	// Position and rate right after opening a source are unreliable.
	if msg.Old == pipeline.StateReady && msg.New > pipeline.StateReady {
		if c.engine.Seek(1.0, seekFlags, pipeline.SeekTypeSet, 0, pipeline.SeekTypeNone, 0) {
			c.session.Rate = 1.0
		} else {
			c.log.Warn("corrective seek rejected")
		}
		c.duration()
		c.framerate()
	}

	switch msg.New {
	case pipeline.StatePaused:
		c.stopTimer()
		if c.slider != nil {
			c.slider.refresh(true)
		}
	case pipeline.StatePlaying:
		if c.slider != nil {
			c.startTimer()
		}
	case pipeline.StateVoidPending, pipeline.StateNull, pipeline.StateReady:
		c.stopTimer()
	}

	if msg.New != msg.Old {
		c.emitPlaybackChanged(StateChange{Previous: msg.Old, Current: msg.New})
	}
}

func (c *Controller) handleError(msg pipeline.Message) {
	ev := ErrorEvent{Source: msg.Source, Err: msg.Err, Debug: msg.Debug}
	c.log.WithFields(logrus.Fields{
		"source": msg.Source,
		"debug":  msg.Debug,
	}).WithError(msg.Err).Error("engine error")

	c.mu.Lock()
	fns := append([]func(ErrorEvent){}, c.errorFn...)
	subs := append([]*Subscription{}, c.subs...)
	c.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
	for _, sub := range subs {
		sub.sendError(ev)
	}
}

func (c *Controller) emitPlaybackChanged(e StateChange) {
	c.mu.Lock()
	fns := append([]func(pipeline.State){}, c.changedFn...)
	subs := append([]*Subscription{}, c.subs...)
	c.mu.Unlock()

	for _, fn := range fns {
		fn(e.Current)
	}
	for _, sub := range subs {
		sub.sendState(e)
	}
}

// handleSync answers messages that need an immediate reply. It runs on the
// engine's goroutine and touches no loop-owned state.
func (c *Controller) handleSync(msg pipeline.Message) {
	if msg.Type != pipeline.MessagePrepareWindowHandle {
		return
	}
	if d := c.display.Load(); d != nil {
		d.apply(msg)
	}
}
