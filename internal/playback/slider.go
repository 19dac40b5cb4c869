package playback

import (
	"sync/atomic"

	"github.com/samber/lo"

	"github.com/llehouerou/scrub/internal/pipeline"
)

// RangeControl is a UI slider.
type RangeControl interface {
	Value() float64
	SetValue(v float64)
	SetRange(lower, upper float64)
	// SetIncrements sets the minor (step) and major (page) increments.
	SetIncrements(step, page float64)
	// OnValueChanged registers a listener called on every value change,
	// including changes made through SetValue.
	OnValueChanged(fn func(v float64))
}

// SliderBinding keeps a RangeControl in sync with the playback position.
// User changes seek; controller refreshes do not.
type SliderBinding struct {
	c       *Controller
	control RangeControl

	// Written by the loop only.
	lower, upper float64

	// pending is the value refresh is writing. Only the notification that
	// carries it is swallowed, so a user change racing a refresh still seeks.
	pending atomic.Pointer[refreshValue]
}

type refreshValue struct {
	raw, clamped float64
}

func (p *refreshValue) matches(v float64) bool {
	return v == p.raw || v == p.clamped
}

// AttachSlider binds control to the controller. If a source is already
// prerolled the control is refreshed immediately.
func (c *Controller) AttachSlider(control RangeControl) (*SliderBinding, error) {
	b := &SliderBinding{c: c, control: control}
	err := c.do(func() {
		control.OnValueChanged(b.valueChanged)
		c.slider = b
		switch c.state {
		case pipeline.StatePaused:
			b.refresh(true)
		case pipeline.StatePlaying:
			b.refresh(true)
			c.startTimer()
		case pipeline.StateVoidPending, pipeline.StateNull, pipeline.StateReady:
		}
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Control returns the bound control.
func (b *SliderBinding) Control() RangeControl {
	return b.control
}

func (b *SliderBinding) valueChanged(v float64) {
	if p := b.pending.Load(); p != nil && p.matches(v) && b.pending.CompareAndSwap(p, nil) {
		return
	}
	// Posted, not awaited: the control may notify from inside the loop.
	b.c.post(func() {
		if err := b.c.seek(v); err != nil {
			b.c.log.WithError(err).Warn("slider seek failed")
		}
	})
}

// refresh rewrites the control from the engine. With fullRange the range
// and increments are recomputed too. Runs on the loop.
func (b *SliderBinding) refresh(fullRange bool) {
	if fullRange {
		b.lower, b.upper = 0, b.c.duration()
		b.control.SetRange(b.lower, b.upper)
		step := 1.0
		if fr := b.c.framerate(); fr > 0 {
			step = 1 / fr
		}
		b.control.SetIncrements(step, 1.0)
	}

	pos := b.c.position()
	p := &refreshValue{raw: pos, clamped: lo.Clamp(pos, b.lower, max(b.lower, b.upper))}
	b.pending.Store(p)
	b.control.SetValue(pos)
	// Controls that skip notifying for an unchanged value leave it set.
	b.pending.CompareAndSwap(p, nil)
}
