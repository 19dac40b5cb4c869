package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/scrub/internal/caps"
	"github.com/llehouerou/scrub/internal/config"
	"github.com/llehouerou/scrub/internal/pipeline"
	"github.com/llehouerou/scrub/internal/playback"
	"github.com/llehouerou/scrub/internal/probe"
)

type harness struct {
	out, err *bytes.Buffer
	fs       afero.Fs
	config   string
	engines  int
}

func newHarness(t *testing.T, extraConfig string) *harness {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	body := "[history]\npath = \"" + filepath.Join(dir, "scrub.db") + "\"\n" + extraConfig
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o644))

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/media/clip.mkv", make([]byte, 4096), 0o644))
	return &harness{out: &bytes.Buffer{}, err: &bytes.Buffer{}, fs: fs, config: cfgPath}
}

func (h *harness) videoMock(_ config.EngineConfig, _ logrus.FieldLogger) (pipeline.Engine, error) {
	h.engines++
	m := pipeline.NewMock()
	m.SetDuration(42 * time.Second)
	m.NegotiateVideo(caps.NewStructure("video/x-raw").
		Set(caps.FieldWidth, 1280).
		Set(caps.FieldHeight, 720).
		Set(caps.FieldFramerate, caps.Fraction{Num: 25, Den: 1}))
	return m, nil
}

func (h *harness) run(t *testing.T, args ...string) error {
	t.Helper()
	h.out.Reset()
	cmd := NewRootCmd(Options{
		Engines: map[string]EngineFactory{config.BackendMock: h.videoMock},
		Out:     h.out,
		Err:     h.err,
		Fs:      h.fs,
	})
	cmd.SetArgs(append([]string{"--config", h.config, "--engine", "mock"}, args...))
	return cmd.Execute()
}

func TestProbe_JSON(t *testing.T) {
	h := newHarness(t, "")

	require.NoError(t, h.run(t, "probe", "/media/clip.mkv"))

	var infos []probe.Info
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &infos))
	require.Len(t, infos, 1)
	assert.Equal(t, "file:///media/clip.mkv", infos[0].URI)
	assert.InDelta(t, 42.0, infos[0].Duration, 1e-9)
	assert.Equal(t, int64(4096), infos[0].Size)
	require.Len(t, infos[0].Video, 1)
	assert.EqualValues(t, 1280, infos[0].Video[0]["width"])
	assert.Equal(t, 1, h.engines)
}

func TestProbe_Text(t *testing.T) {
	h := newHarness(t, "")

	require.NoError(t, h.run(t, "probe", "--text", "/media/clip.mkv"))

	assert.Contains(t, h.out.String(), "1280x720")
	assert.Contains(t, h.out.String(), "4.0 KiB")
}

func TestProbe_MissingFileFails(t *testing.T) {
	h := newHarness(t, "")

	err := h.run(t, "probe", "/media/clip.mkv", "/media/none.mkv")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2")
	assert.Contains(t, h.err.String(), "Failed to probe file '/media/none.mkv'")

	var infos []probe.Info
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &infos))
	assert.Len(t, infos, 1, "good files are still printed")
}

func TestProbe_RecordsHistory(t *testing.T) {
	h := newHarness(t, "")
	require.NoError(t, h.run(t, "probe", "/media/clip.mkv"))
	require.NoError(t, h.run(t, "probe", "/media/clip.mkv"))

	require.NoError(t, h.run(t, "history", "-n", "5"))

	out := h.out.String()
	assert.Contains(t, out, "SOURCE")
	assert.Contains(t, out, "/media/clip.mkv")
	assert.Contains(t, out, "1280x720@25.00")
	assert.Contains(t, out, "0:42.000")
	assert.Contains(t, out, "probe")
}

func TestHistory_Empty(t *testing.T) {
	h := newHarness(t, "")

	require.NoError(t, h.run(t, "history"))

	assert.Contains(t, h.out.String(), "no history yet")
}

func TestHistory_Disabled(t *testing.T) {
	h := newHarness(t, "")
	body := "[history]\nenabled = false\n"
	require.NoError(t, os.WriteFile(h.config, []byte(body), 0o644))

	require.NoError(t, h.run(t, "history"))

	assert.Contains(t, h.out.String(), "history is disabled")
}

func TestUnknownEngine(t *testing.T) {
	h := newHarness(t, "")
	cmd := NewRootCmd(Options{Out: h.out, Err: h.err, Fs: h.fs})
	cmd.SetArgs([]string{"--config", h.config, "--engine", "gstreamer", "probe", "/media/clip.mkv"})

	err := cmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown engine backend")
}

func TestEngineNotBuiltIn(t *testing.T) {
	h := newHarness(t, "")
	cmd := NewRootCmd(Options{Out: h.out, Err: h.err, Fs: h.fs})
	cmd.SetArgs([]string{"--config", h.config, "--engine", "mpv", "probe", "/media/clip.mkv"})

	err := cmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not built into this binary")
}

func TestBadConfig(t *testing.T) {
	h := newHarness(t, "")
	require.NoError(t, os.WriteFile(h.config, []byte("[log\n"), 0o644))

	err := h.run(t, "history")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to load config")
}

func TestLogLevelFlag(t *testing.T) {
	h := newHarness(t, "")

	require.NoError(t, h.run(t, "--log-level", "debug", "probe", "/media/clip.mkv"))

	assert.Contains(t, h.err.String(), "probed")
}

func TestStartSession(t *testing.T) {
	h := newHarness(t, "[playback]\nrefresh_interval = \"20ms\"\n")
	e := &env{opts: Options{
		Engines: map[string]EngineFactory{config.BackendMock: h.videoMock},
		Out:     h.out,
		Err:     h.err,
		Fs:      h.fs,
	}, configPath: h.config, engineName: "mock"}
	require.NoError(t, e.setup(""))

	s, err := e.startSession(context.Background(), "/media/clip.mkv")
	require.NoError(t, err)
	defer s.stop()

	e.recordPlay(s.c)

	assert.Equal(t, pipeline.StatePaused, s.c.State())
	lower, upper := s.bar.Range()
	assert.Equal(t, [2]float64{0, 42}, [2]float64{lower, upper})
	step, _ := s.bar.Increments()
	assert.InDelta(t, 0.04, step, 1e-9)

	store, err := e.openHistory()
	require.NoError(t, err)
	defer store.Close()
	entry, err := store.Lookup("file:///media/clip.mkv")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, 1280, entry.Width)
	assert.InDelta(t, 25.0, entry.Framerate, 1e-9)
}

func TestStartSession_LoadFailure(t *testing.T) {
	h := newHarness(t, "[playback]\nload_timeout = \"10ms\"\n")
	failing := func(config.EngineConfig, logrus.FieldLogger) (pipeline.Engine, error) {
		m := pipeline.NewMock()
		m.SetFailPreroll(true)
		return m, nil
	}
	e := &env{opts: Options{
		Engines: map[string]EngineFactory{config.BackendMock: failing},
		Out:     h.out,
		Err:     h.err,
		Fs:      h.fs,
	}, configPath: h.config, engineName: "mock"}
	require.NoError(t, e.setup(""))

	_, err := e.startSession(context.Background(), "/media/clip.mkv")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to load source '/media/clip.mkv'")
	var startErr *playback.EngineStartError
	require.ErrorAs(t, err, &startErr, "cause stays reachable")
	assert.Equal(t, pipeline.StatePaused, startErr.Target)
	assert.ErrorIs(t, err, playback.ErrEngineStart)
}
