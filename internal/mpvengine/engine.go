// Package mpvengine implements pipeline.Engine on top of an mpv handle. mpv
// does the decoding and rendering; this package only maps its properties
// and events onto the stepwise pipeline state machine. Package libmpv
// provides the cgo-backed Client.
package mpvengine

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/scrub/internal/caps"
	"github.com/llehouerou/scrub/internal/pipeline"
)

// ErrLoadFailed is posted when mpv ends a file before loading it.
var ErrLoadFailed = errors.New("mpv could not load file")

// waitTimeout bounds each WaitEvent call and so Close latency.
const waitTimeout = time.Second

// Options configure the engine.
type Options struct {
	Name   string // top-level pipeline name, default "mpv"
	Logger logrus.FieldLogger
}

// Engine drives one mpv instance.
type Engine struct {
	c       Client
	tracker *pipeline.Tracker
	log     logrus.FieldLogger

	mu      sync.Mutex
	uri     string
	loading bool
	loaded  bool
	paused  bool
	eof     bool
	handler func(pipeline.Message)

	done      chan struct{}
	loopDone  chan struct{}
	closeOnce sync.Once
}

var _ pipeline.Engine = (*Engine)(nil)
var _ pipeline.StreamLister = (*Engine)(nil)

// New starts an engine over c, idling in the Null state. The engine owns c
// and destroys it on Close.
func New(c Client, opts Options) *Engine {
	e := newEngine(c, opts)
	go e.eventLoop()
	return e
}

func newEngine(c Client, opts Options) *Engine {
	if opts.Name == "" {
		opts.Name = "mpv"
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	return &Engine{
		c:        c,
		tracker:  pipeline.NewTracker(opts.Name),
		log:      opts.Logger.WithField("engine", opts.Name),
		paused:   true,
		done:     make(chan struct{}),
		loopDone: make(chan struct{}),
	}
}

func (e *Engine) Name() string { return e.tracker.Source() }

func (e *Engine) SetState(target pipeline.State) pipeline.StateChangeReturn {
	current := e.tracker.Current()

	switch {
	case target >= pipeline.StatePaused && current < pipeline.StatePaused:
		return e.open(target)

	case target >= pipeline.StatePaused:
		if err := e.setPause(target == pipeline.StatePaused); err != nil {
			e.log.WithError(err).Warn("set pause")
			return pipeline.StateChangeFailure
		}
		return e.tracker.Request(target, pipeline.StateVoidPending)

	default:
		if current >= pipeline.StatePaused || e.isLoading() {
			if err := e.c.Command("stop"); err != nil {
				e.log.WithError(err).Warn("stop")
			}
			e.mu.Lock()
			e.loading, e.loaded, e.eof = false, false, false
			e.mu.Unlock()
			_ = e.setPause(true)
		}
		return e.tracker.Request(target, pipeline.StateVoidPending)
	}
}

// open prerolls the current URI: loadfile is issued and the Ready → Paused
// step completes on FILE_LOADED.
func (e *Engine) open(target pipeline.State) pipeline.StateChangeReturn {
	e.mu.Lock()
	uri := e.uri
	handler := e.handler
	e.mu.Unlock()

	if uri == "" {
		e.tracker.Request(pipeline.StateReady, pipeline.StateVoidPending)
		e.postError(errors.New("no uri set"), "")
		return pipeline.StateChangeFailure
	}
	if handler != nil {
		handler(pipeline.Message{
			Type:    pipeline.MessagePrepareWindowHandle,
			Source:  e.Name(),
			Overlay: e,
		})
	}
	if err := e.setPause(target == pipeline.StatePaused); err != nil {
		e.log.WithError(err).Warn("set pause")
	}

	ret := e.tracker.Request(target, pipeline.StatePaused)

	e.mu.Lock()
	e.loading, e.loaded, e.eof = true, false, false
	e.mu.Unlock()

	if err := e.c.Command("loadfile", uri, "replace"); err != nil {
		e.mu.Lock()
		e.loading = false
		e.mu.Unlock()
		e.tracker.Fail()
		e.postError(fmt.Errorf("%w: %v", ErrLoadFailed, err), uri)
		return pipeline.StateChangeFailure
	}
	e.log.WithField("uri", uri).Debug("loadfile")
	return ret
}

func (e *Engine) GetState(timeout time.Duration) (pipeline.StateChangeReturn, pipeline.State, pipeline.State) {
	return e.tracker.Wait(timeout)
}

func (e *Engine) SetURI(uri string) error {
	if uri == "" {
		return errors.New("empty uri")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.uri = uri
	return nil
}

func (e *Engine) QueryDuration() (time.Duration, bool) {
	if !e.isLoaded() {
		return 0, false
	}
	return e.durationProperty("duration")
}

func (e *Engine) QueryPosition() (time.Duration, bool) {
	if !e.isLoaded() {
		return 0, false
	}
	return e.durationProperty("time-pos")
}

func (e *Engine) Seek(rate float64, flags pipeline.SeekFlags, startType pipeline.SeekType,
	start time.Duration, _ pipeline.SeekType, _ time.Duration) bool {
	if !e.isLoaded() || rate <= 0 {
		// mpv cannot play backwards
		return false
	}
	if err := e.c.SetDouble("speed", rate); err != nil {
		e.log.WithError(err).Warn("set speed")
		return false
	}

	mode := "absolute+keyframes"
	if flags.Has(pipeline.SeekFlagAccurate) {
		mode = "absolute+exact"
	}
	var target float64
	switch startType {
	case pipeline.SeekTypeNone:
		return true
	case pipeline.SeekTypeSet:
		target = start.Seconds()
	case pipeline.SeekTypeEnd:
		// negative absolute positions count from the end
		target = start.Seconds()
		if target >= 0 {
			target = -target
		}
	}
	pos := strconv.FormatFloat(target, 'f', 6, 64)
	if err := e.c.Command("seek", pos, mode); err != nil {
		e.log.WithError(err).WithField("position", pos).Warn("seek")
		return false
	}
	return true
}

func (e *Engine) NegotiatedVideoFormat() (*caps.Structure, bool) {
	if !e.isLoaded() {
		return nil, false
	}
	w, errW := e.c.GetInt64("video-params/w")
	h, errH := e.c.GetInt64("video-params/h")
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return nil, false
	}
	st := caps.NewStructure("video/x-raw").
		Set(caps.FieldWidth, int(w)).
		Set(caps.FieldHeight, int(h))
	if fps, err := e.c.GetDouble("container-fps"); err == nil && fps > 0 {
		st.Set(caps.FieldFramerate, caps.SnapFramerate(fps))
	}
	if format, err := e.c.GetString("video-params/pixelformat"); err == nil && format != "" {
		st.Set(caps.FieldFormat, format)
	}
	return st, true
}

func (e *Engine) Messages() <-chan pipeline.Message { return e.tracker.Messages() }

func (e *Engine) SetSyncHandler(fn func(pipeline.Message)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handler = fn
}

// SetWindowHandle embeds the video output into a foreign window.
func (e *Engine) SetWindowHandle(handle uintptr) {
	if err := e.c.SetInt64("wid", int64(handle)); err != nil {
		e.log.WithError(err).Warn("set window handle")
	}
}

// Close stops the event loop and destroys the mpv instance.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		close(e.done)
		<-e.loopDone
		e.c.Destroy()
		e.tracker.Close()
	})
	return nil
}

func (e *Engine) eventLoop() {
	defer close(e.loopDone)
	for {
		select {
		case <-e.done:
			return
		default:
		}

		switch ev := e.c.WaitEvent(waitTimeout); ev {
		case EventFileLoaded:
			e.fileLoaded()
		case EventEndFile:
			e.endFile()
		case EventPropertyChange:
			e.propertyChanged()
		case EventShutdown:
			e.log.Debug("mpv shutdown")
			return
		case EventNone:
		default:
			e.log.WithField("event", ev).Trace("unhandled mpv event")
		}
	}
}

func (e *Engine) fileLoaded() {
	e.mu.Lock()
	wasLoading := e.loading
	e.loading, e.loaded = false, true
	e.mu.Unlock()

	if wasLoading {
		e.tracker.Complete()
	}
}

func (e *Engine) endFile() {
	e.mu.Lock()
	wasLoading := e.loading
	uri := e.uri
	e.loading = false
	e.mu.Unlock()

	if wasLoading {
		e.tracker.Fail()
		e.postError(fmt.Errorf("%w: %s", ErrLoadFailed, uri), "end-file before file-loaded")
	}
}

// propertyChanged re-reads the observed flags and mirrors changes made by
// mpv itself (keep-open pausing at the end, external pause).
func (e *Engine) propertyChanged() {
	if !e.isLoaded() {
		return
	}
	paused, errP := e.c.GetFlag("pause")
	eof, errE := e.c.GetFlag("eof-reached")

	e.mu.Lock()
	pauseChanged := errP == nil && paused != e.paused
	if errP == nil {
		e.paused = paused
	}
	reachedEOF := errE == nil && eof && !e.eof
	if errE == nil {
		e.eof = eof
	}
	e.mu.Unlock()

	if pauseChanged {
		current, target := e.tracker.Current(), e.tracker.Target()
		switch {
		case paused && current == pipeline.StatePlaying && target == pipeline.StatePlaying:
			e.tracker.Request(pipeline.StatePaused, pipeline.StateVoidPending)
		case !paused && current == pipeline.StatePaused && target == pipeline.StatePaused:
			e.tracker.Request(pipeline.StatePlaying, pipeline.StateVoidPending)
		}
	}
	if reachedEOF {
		e.tracker.Post(pipeline.Message{Type: pipeline.MessageEOS, Source: e.Name()})
	}
}

func (e *Engine) postError(err error, debug string) {
	e.log.WithError(err).Warn("engine error")
	e.tracker.Post(pipeline.Message{
		Type:   pipeline.MessageError,
		Source: e.Name(),
		Err:    err,
		Debug:  debug,
	})
}

func (e *Engine) setPause(pause bool) error {
	e.mu.Lock()
	e.paused = pause
	e.mu.Unlock()
	return e.c.SetFlag("pause", pause)
}

func (e *Engine) isLoaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loaded
}

func (e *Engine) isLoading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loading
}
