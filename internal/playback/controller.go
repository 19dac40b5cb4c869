// Package playback keeps a pipeline engine, a UI range control and a
// refresh timer consistent with each other.
//
// All controller state is owned by the goroutine running Run. Public
// methods post work to it and wait for the result, so they must not be
// called from OnPlaybackChanged or OnError callbacks, which run on that
// goroutine.
package playback

import (
	"context"
	"fmt"
	"io"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/scrub/internal/caps"
	"github.com/llehouerou/scrub/internal/pipeline"
)

const (
	DefaultLoadTimeout     = time.Second
	DefaultRefreshInterval = 100 * time.Millisecond

	cmdBuffer = 64
)

// seekFlags are used for every seek: scrubbing wants exact positions.
const seekFlags = pipeline.SeekFlagFlush | pipeline.SeekFlagAccurate

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. The default discards output.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithLoadTimeout bounds each state wait performed by LoadSource.
func WithLoadTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.loadTimeout = d
		}
	}
}

// WithRefreshInterval sets the slider refresh period while playing.
func WithRefreshInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.refreshInterval = d
		}
	}
}

// Controller mediates between a pipeline engine and its UI.
type Controller struct {
	engine          pipeline.Engine
	log             logrus.FieldLogger
	loadTimeout     time.Duration
	refreshInterval time.Duration

	cmds    chan func()
	done    chan struct{}
	running atomic.Bool

	display atomic.Pointer[DisplayBinding]

	// Owned by the Run goroutine.
	session      Session
	state        pipeline.State
	ticker       *time.Ticker
	slider       *SliderBinding
	engineClosed bool

	mu        sync.Mutex
	closed    bool
	subs      []*Subscription
	changedFn []func(pipeline.State)
	errorFn   []func(ErrorEvent)
}

// New creates a controller owning engine. Run must be started before any
// other method is used.
func New(engine pipeline.Engine, opts ...Option) *Controller {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	c := &Controller{
		engine:          engine,
		log:             discard,
		loadTimeout:     DefaultLoadTimeout,
		refreshInterval: DefaultRefreshInterval,
		cmds:            make(chan func(), cmdBuffer),
		done:            make(chan struct{}),
		state:           pipeline.StateNull,
		session:         Session{Rate: 1.0},
	}
	for _, opt := range opts {
		opt(c)
	}
	engine.SetSyncHandler(c.handleSync)
	return c
}

// Run processes engine messages, posted work and timer ticks until ctx is
// done or the engine closes its message channel. On return the engine is
// set to Null and closed, and every subscription is closed.
func (c *Controller) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer c.shutdown()

	msgs := c.engine.Messages()
	for {
		var tick <-chan time.Time
		if c.ticker != nil {
			tick = c.ticker.C
		}

		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				c.log.Debug("engine message channel closed")
				return nil
			}
			c.handleMessage(msg)
		case fn := <-c.cmds:
			c.drainMessages(msgs)
			fn()
		case <-tick:
			c.onTick()
		}
		if c.engineClosed {
			return nil
		}
	}
}

// Done is closed when Run has returned.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

func (c *Controller) shutdown() {
	c.stopTimer()
	c.engine.SetState(pipeline.StateNull)
	if err := c.engine.Close(); err != nil {
		c.log.WithError(err).Warn("closing engine")
	}

	c.mu.Lock()
	c.closed = true
	subs := c.subs
	c.subs = nil
	close(c.done)
	c.mu.Unlock()

	for _, sub := range subs {
		sub.close()
	}
}

// drainMessages handles every message already queued so posted work
// observes the engine in order.
func (c *Controller) drainMessages(msgs <-chan pipeline.Message) {
	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				c.engineClosed = true
				return
			}
			c.handleMessage(msg)
		default:
			return
		}
	}
}

// do runs fn on the loop and waits for it.
func (c *Controller) do(fn func()) error {
	finished := make(chan struct{})
	select {
	case c.cmds <- func() { fn(); close(finished) }:
	case <-c.done:
		return ErrClosed
	}
	select {
	case <-finished:
		return nil
	case <-c.done:
		select {
		case <-finished:
			return nil
		default:
			return ErrClosed
		}
	}
}

// post queues fn on the loop without waiting.
func (c *Controller) post(fn func()) {
	select {
	case c.cmds <- fn:
	case <-c.done:
	}
}

// LoadSource loads a media file (or URI) and prerolls it to Paused. It
// blocks until the engine confirms or the load timeout expires, in which
// case an *EngineStartError is returned.
func (c *Controller) LoadSource(path string) error {
	uri, abs, err := SourceURI(path)
	if err != nil {
		return fmt.Errorf("resolve %q: %w", path, err)
	}
	var loadErr error
	if err := c.do(func() { loadErr = c.load(uri, abs) }); err != nil {
		return err
	}
	return loadErr
}

func (c *Controller) load(uri, abs string) error {
	log := c.log.WithField("uri", uri)
	c.stopTimer()
	c.session = Session{Rate: 1.0}

	c.engine.SetState(pipeline.StateNull)
	ret, cur, _ := c.engine.GetState(c.loadTimeout)
	if ret == pipeline.StateChangeFailure || cur != pipeline.StateNull {
		return &EngineStartError{URI: uri, Target: pipeline.StateNull, Current: cur, Result: ret}
	}

	if err := c.engine.SetURI(uri); err != nil {
		return fmt.Errorf("set uri: %w", err)
	}

	if ret := c.engine.SetState(pipeline.StatePaused); ret == pipeline.StateChangeFailure {
		_, cur, _ := c.engine.GetState(0)
		return &EngineStartError{URI: uri, Target: pipeline.StatePaused, Current: cur, Result: ret}
	}
	ret, cur, _ = c.engine.GetState(c.loadTimeout)
	if cur != pipeline.StatePaused {
		log.WithFields(logrus.Fields{"state": cur, "result": ret}).Warn("source did not preroll")
		return &EngineStartError{URI: uri, Target: pipeline.StatePaused, Current: cur, Result: ret}
	}

	c.session = newSession(uri, abs)
	log.Info("source loaded")
	return nil
}

// Play requests Playing without waiting for confirmation.
func (c *Controller) Play() error {
	return c.do(func() { c.engine.SetState(pipeline.StatePlaying) })
}

// Pause requests Paused without waiting for confirmation.
func (c *Controller) Pause() error {
	return c.do(func() { c.engine.SetState(pipeline.StatePaused) })
}

// Toggle plays when paused and pauses when playing. It does nothing while
// a transition is in flight or no source is loaded.
func (c *Controller) Toggle() error {
	return c.do(func() {
		_, cur, pending := c.engine.GetState(0)
		if pending != pipeline.StateVoidPending {
			return
		}
		switch cur {
		case pipeline.StatePaused:
			c.engine.SetState(pipeline.StatePlaying)
		case pipeline.StatePlaying:
			c.engine.SetState(pipeline.StatePaused)
		case pipeline.StateVoidPending, pipeline.StateNull, pipeline.StateReady:
		}
	})
}

// Duration returns the total duration in seconds, 0 if unknown.
func (c *Controller) Duration() float64 {
	var v float64
	_ = c.do(func() { v = c.duration() })
	return v
}

// Position returns the playback position in seconds, 0 if unknown.
func (c *Controller) Position() float64 {
	var v float64
	_ = c.do(func() { v = c.position() })
	return v
}

// FramePosition returns the position floored to a frame boundary, 0 if the
// framerate is unknown.
func (c *Controller) FramePosition() float64 {
	var v float64
	_ = c.do(func() { v = c.framePosition() })
	return v
}

// Seek jumps to t seconds, clamped to [0, duration], at the current rate.
func (c *Controller) Seek(t float64) error {
	var seekErr error
	if err := c.do(func() { seekErr = c.seek(t) }); err != nil {
		return err
	}
	return seekErr
}

// SetRate changes the playback rate, keeping the current position.
func (c *Controller) SetRate(rate float64) error {
	var rateErr error
	if err := c.do(func() { rateErr = c.setRate(rate) }); err != nil {
		return err
	}
	return rateErr
}

// Dimensions returns the negotiated video size, (0, 0) without video.
func (c *Controller) Dimensions() (width, height int) {
	_ = c.do(func() {
		if st, ok := c.engine.NegotiatedVideoFormat(); ok {
			width, height = st.Dimensions()
		}
	})
	return width, height
}

// Framerate returns the negotiated video framerate, 0 without video.
func (c *Controller) Framerate() float64 {
	var v float64
	_ = c.do(func() { v = c.framerate() })
	return v
}

// Session returns a snapshot of the loaded session.
func (c *Controller) Session() Session {
	var s Session
	_ = c.do(func() { s = c.session })
	return s
}

// State returns the last state the pipeline settled in.
func (c *Controller) State() pipeline.State {
	s := pipeline.StateNull
	_ = c.do(func() { s = c.state })
	return s
}

// Rate returns the current playback rate.
func (c *Controller) Rate() float64 {
	r := 1.0
	_ = c.do(func() { r = c.session.Rate })
	return r
}

// Subscribe creates a new event subscription. Its channels are closed when
// Run returns.
func (c *Controller) Subscribe() *Subscription {
	sub := newSubscription()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		sub.close()
		return sub
	}
	c.subs = append(c.subs, sub)
	return sub
}

// OnPlaybackChanged registers fn to be called with every new settled state.
func (c *Controller) OnPlaybackChanged(fn func(pipeline.State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.changedFn = append(c.changedFn, fn)
}

// OnError registers fn to be called with every engine error.
func (c *Controller) OnError(fn func(ErrorEvent)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errorFn = append(c.errorFn, fn)
}

// Loop-side operations.

func (c *Controller) duration() float64 {
	d, ok := c.engine.QueryDuration()
	if !ok {
		return 0
	}
	c.session.Duration = d.Seconds()
	return c.session.Duration
}

func (c *Controller) position() float64 {
	p, ok := c.engine.QueryPosition()
	if !ok {
		return 0
	}
	return p.Seconds()
}

func (c *Controller) framerate() float64 {
	st, ok := c.engine.NegotiatedVideoFormat()
	if !ok {
		return 0
	}
	c.session.Framerate = st.Framerate()
	return c.session.Framerate
}

func (c *Controller) framePosition() float64 {
	st, ok := c.engine.NegotiatedVideoFormat()
	if !ok {
		return 0
	}
	fr, ok := st.Fraction(caps.FieldFramerate)
	if !ok || fr.Float64() <= 0 {
		return 0
	}
	c.session.Framerate = fr.Float64()
	p, ok := c.engine.QueryPosition()
	if !ok {
		return 0
	}
	return fr.FrameStart(fr.Frame(p))
}

func (c *Controller) seek(t float64) error {
	if math.IsNaN(t) {
		return ErrInvalidPosition
	}
	t = lo.Clamp(t, 0, c.duration())
	if !c.engine.Seek(c.session.Rate, seekFlags,
		pipeline.SeekTypeSet, seconds(t), pipeline.SeekTypeNone, 0) {
		return fmt.Errorf("%w: position %.3fs", ErrSeekRejected, t)
	}
	return nil
}

func (c *Controller) setRate(rate float64) error {
	if rate == 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidRate, rate)
	}
	if !c.engine.Seek(rate, seekFlags,
		pipeline.SeekTypeNone, 0, pipeline.SeekTypeNone, 0) {
		return fmt.Errorf("%w: rate %v", ErrSeekRejected, rate)
	}
	c.session.Rate = rate
	return nil
}

func (c *Controller) startTimer() {
	if c.ticker != nil {
		return
	}
	c.ticker = time.NewTicker(c.refreshInterval)
	c.log.Debug("refresh timer started")
}

func (c *Controller) stopTimer() {
	if c.ticker == nil {
		return
	}
	c.ticker.Stop()
	c.ticker = nil
	c.log.Debug("refresh timer stopped")
}

func (c *Controller) onTick() {
	if c.slider == nil {
		c.stopTimer()
		return
	}
	c.slider.refresh(false)
}

func seconds(t float64) time.Duration {
	return time.Duration(t * float64(time.Second))
}
