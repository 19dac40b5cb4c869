package playback

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/llehouerou/scrub/internal/caps"
	"github.com/llehouerou/scrub/internal/pipeline"
)

const testClip = "testdata/clip.mkv"

// newMock returns a mock engine with a 10 second source.
func newMock() *pipeline.Mock {
	m := pipeline.NewMock()
	m.SetDuration(10 * time.Second)
	return m
}

// start runs c in the background and returns a function that stops it and
// waits for Run to return.
func start(c *Controller) func() {
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = c.Run(ctx) }()
	return func() {
		cancel()
		<-c.Done()
	}
}

// newRunning creates a running controller over m, stopped on cleanup.
func newRunning(t *testing.T, m *pipeline.Mock, opts ...Option) *Controller {
	t.Helper()
	c := New(m, append([]Option{WithLoadTimeout(100 * time.Millisecond)}, opts...)...)
	t.Cleanup(start(c))
	return c
}

// settle waits until the loop has handled every message queued so far.
func settle(t *testing.T, c *Controller) {
	t.Helper()
	require.NoError(t, c.do(func() {}))
}

func timerActive(t *testing.T, c *Controller) bool {
	t.Helper()
	var active bool
	require.NoError(t, c.do(func() { active = c.ticker != nil }))
	return active
}

func hdVideo() *caps.Structure {
	return caps.NewStructure("video/x-raw").
		Set(caps.FieldWidth, 1920).
		Set(caps.FieldHeight, 1080).
		Set(caps.FieldFramerate, caps.Fraction{Num: 30000, Den: 1001})
}

// fakeSlider notifies listeners on every SetValue, like a toolkit widget.
type fakeSlider struct {
	mu           sync.Mutex
	value        float64
	lower, upper float64
	step, page   float64
	sets         int
	ranges       int
	listeners    []func(float64)
	// beforeNotify runs once inside the next SetValue, before listeners.
	beforeNotify func()
}

func (s *fakeSlider) Value() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

func (s *fakeSlider) SetValue(v float64) {
	s.mu.Lock()
	s.value = v
	s.sets++
	listeners := append([]func(float64){}, s.listeners...)
	hook := s.beforeNotify
	s.beforeNotify = nil
	s.mu.Unlock()

	if hook != nil {
		hook()
	}
	for _, fn := range listeners {
		fn(v)
	}
}

func (s *fakeSlider) SetRange(lower, upper float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lower, s.upper = lower, upper
	s.ranges++
}

func (s *fakeSlider) SetIncrements(step, page float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.step, s.page = step, page
}

func (s *fakeSlider) OnValueChanged(fn func(float64)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *fakeSlider) interleave(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beforeNotify = fn
}

func (s *fakeSlider) setCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets
}

func (s *fakeSlider) bounds() (float64, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lower, s.upper
}

func (s *fakeSlider) increments() (float64, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step, s.page
}

type fakeSurface struct {
	realize func(uintptr)
}

func (s *fakeSurface) OnRealize(fn func(uintptr)) { s.realize = fn }

// clampingSlider notifies with the value clamped to its range, like the TUI bar.
type clampingSlider struct {
	fakeSlider
}

func (s *clampingSlider) SetValue(v float64) {
	lower, upper := s.bounds()
	s.fakeSlider.SetValue(min(max(v, lower), max(lower, upper)))
}
