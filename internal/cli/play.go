package cli

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/llehouerou/scrub/internal/config"
	"github.com/llehouerou/scrub/internal/errmsg"
	"github.com/llehouerou/scrub/internal/history"
	"github.com/llehouerou/scrub/internal/mpris"
	"github.com/llehouerou/scrub/internal/notify"
	"github.com/llehouerou/scrub/internal/playback"
	"github.com/llehouerou/scrub/internal/stderr"
	"github.com/llehouerou/scrub/internal/tui"
	"github.com/llehouerou/scrub/internal/ui/scrubber"
)

func newPlayCmd(e *env) *cobra.Command {
	var paused bool
	cmd := &cobra.Command{
		Use:   "play <path-to-media-file>",
		Short: "Open a media file with a scrub bar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.setup(defaultLogFile()); err != nil {
				return err
			}
			return e.runPlay(cmd.Context(), args[0], !paused)
		},
	}
	cmd.Flags().BoolVarP(&paused, "paused", "p", false, "Stay paused after loading")
	return cmd
}

// session is a running controller with its slider.
type session struct {
	c    *playback.Controller
	bar  *scrubber.Bar
	sub  *playback.Subscription
	stop func()
}

// startSession creates the engine and controller, attaches the scrub bar
// and loads path. stop cancels the loop and waits for engine shutdown.
func (e *env) startSession(ctx context.Context, path string) (*session, error) {
	engine, err := e.newEngine()
	if err != nil {
		return nil, err
	}
	pb := e.cfg.GetPlaybackConfig()
	c := playback.New(engine,
		playback.WithLogger(e.log),
		playback.WithLoadTimeout(pb.LoadTimeout),
		playback.WithRefreshInterval(pb.RefreshInterval),
	)

	ctx, cancel := context.WithCancel(ctx)
	runErr := make(chan error, 1)
	go func() { runErr <- c.Run(ctx) }()
	stop := func() {
		cancel()
		if err := <-runErr; err != nil && !errors.Is(err, context.Canceled) {
			e.log.WithError(err).Warn("controller stopped")
		}
	}

	s := &session{c: c, bar: scrubber.New(), sub: c.Subscribe(), stop: stop}
	if _, err := c.AttachSlider(s.bar); err != nil {
		stop()
		return nil, err
	}
	if err := c.LoadSource(path); err != nil {
		stop()
		return nil, errmsg.WrapWith(errmsg.OpLoadSource, path, err)
	}
	return s, nil
}

func (e *env) runPlay(ctx context.Context, path string, autoplay bool) error {
	if e.backend() == config.BackendMPV {
		if err := stderr.Start(e.log); err != nil {
			e.log.WithError(err).Debug("stderr capture unavailable")
		}
		defer stderr.Stop()
	}

	s, err := e.startSession(ctx, path)
	if err != nil {
		return err
	}
	defer s.stop()

	e.wireIntegrations(s.c)
	e.recordPlay(s.c)

	if autoplay {
		if err := s.c.Play(); err != nil {
			return errmsg.Wrap(errmsg.OpPlay, err)
		}
	}

	m := tui.New(s.c, s.bar, s.sub, tui.Options{SeekStep: e.cfg.GetPlaybackConfig().SeekStep})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

// wireIntegrations starts MPRIS and error notifications when enabled.
// Both are optional and only logged on failure.
func (e *env) wireIntegrations(c *playback.Controller) {
	if e.cfg.MPRISEnabled() {
		adapter, err := mpris.New(c)
		if err != nil {
			e.log.WithError(err).Warn("mpris unavailable")
		} else {
			go func() {
				<-c.Done()
				_ = adapter.Close()
			}()
		}
	}
	if e.cfg.NotifyEnabled() {
		n, err := notify.New()
		if err != nil {
			e.log.WithError(err).Warn("notifications unavailable")
			return
		}
		c.OnError(notify.NewErrorReporter(n).Report)
	}
}

func (e *env) recordPlay(c *playback.Controller) {
	store, err := e.openHistory()
	if err != nil {
		e.log.Warn(errmsg.Format(errmsg.OpOpenHistory, err))
		return
	}
	if store == nil {
		return
	}
	defer store.Close()

	s := c.Session()
	width, height := c.Dimensions()
	if err := store.Record(history.Entry{
		URI:       s.URI,
		Path:      s.Path,
		Kind:      history.KindPlay,
		Duration:  s.Duration,
		Width:     width,
		Height:    height,
		Framerate: s.Framerate,
		SeenAt:    s.LoadedAt,
	}); err != nil {
		e.log.Warn(errmsg.Format(errmsg.OpRecordHistory, err))
	}
}
