//go:build linux

package mpris

import (
	"fmt"
	"hash/fnv"
	"path/filepath"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/scrub/internal/pipeline"
)

// Adapter exposes a Player as org.mpris.MediaPlayer2.scrub.
type Adapter struct {
	server *server.Server
}

// New creates and starts an MPRIS adapter.
func New(p Player) (*Adapter, error) {
	a := &Adapter{
		server: server.NewServer("scrub", &rootAdapter{}, &playerAdapter{p: p}),
	}
	go func() {
		_ = a.server.Listen()
	}()
	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error            { return nil }
func (r *rootAdapter) Quit() error             { return nil }
func (r *rootAdapter) CanQuit() (bool, error)  { return false, nil }
func (r *rootAdapter) CanRaise() (bool, error) { return false, nil }

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "Scrub", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"video/mp4", "video/x-matroska", "video/webm", "audio/mpeg", "audio/flac"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter.
type playerAdapter struct {
	p Player
}

// Single source: there is no next or previous.
func (a *playerAdapter) Next() error     { return nil }
func (a *playerAdapter) Previous() error { return nil }

func (a *playerAdapter) Pause() error {
	return a.p.Pause()
}

func (a *playerAdapter) PlayPause() error {
	return a.p.Toggle()
}

// Stop pauses: the source stays loaded.
func (a *playerAdapter) Stop() error {
	return a.p.Pause()
}

func (a *playerAdapter) Play() error {
	return a.p.Play()
}

// Seek moves relative to the current position.
func (a *playerAdapter) Seek(offset types.Microseconds) error {
	return a.p.Seek(a.p.Position() + micros(offset).Seconds())
}

func (a *playerAdapter) SetPosition(_ string, position types.Microseconds) error {
	return a.p.Seek(micros(position).Seconds())
}

//nolint:revive // Method name required by interface.
func (a *playerAdapter) OpenUri(_ string) error {
	return nil // Not supported
}

func (a *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	return playbackStatus(a.p.State()), nil
}

func (a *playerAdapter) Rate() (float64, error) {
	return a.p.Rate(), nil
}

func (a *playerAdapter) SetRate(rate float64) error {
	return a.p.SetRate(clampRate(rate))
}

func (a *playerAdapter) Metadata() (types.Metadata, error) {
	s := a.p.Session()
	if !s.Loaded() {
		return types.Metadata{}, nil
	}
	return types.Metadata{
		TrackId: dbus.ObjectPath(trackID(s.URI)),
		Length:  types.Microseconds(time.Duration(a.p.Duration() * float64(time.Second)).Microseconds()),
		Title:   filepath.Base(s.Path),
	}, nil
}

func (a *playerAdapter) Volume() (float64, error) {
	return 1.0, nil
}

func (a *playerAdapter) SetVolume(_ float64) error {
	return nil // Not supported
}

func (a *playerAdapter) Position() (int64, error) {
	return time.Duration(a.p.Position() * float64(time.Second)).Microseconds(), nil
}

func (a *playerAdapter) MinimumRate() (float64, error) { return MinRate, nil }
func (a *playerAdapter) MaximumRate() (float64, error) { return MaxRate, nil }
func (a *playerAdapter) CanGoNext() (bool, error)      { return false, nil }
func (a *playerAdapter) CanGoPrevious() (bool, error)  { return false, nil }

func (a *playerAdapter) CanPlay() (bool, error) {
	return a.p.Session().Loaded(), nil
}

func (a *playerAdapter) CanPause() (bool, error)   { return true, nil }
func (a *playerAdapter) CanSeek() (bool, error)    { return true, nil }
func (a *playerAdapter) CanControl() (bool, error) { return true, nil }

func playbackStatus(s pipeline.State) types.PlaybackStatus {
	switch s {
	case pipeline.StatePlaying:
		return types.PlaybackStatusPlaying
	case pipeline.StatePaused:
		return types.PlaybackStatusPaused
	case pipeline.StateVoidPending, pipeline.StateNull, pipeline.StateReady:
	}
	return types.PlaybackStatusStopped
}

func micros(us types.Microseconds) time.Duration {
	return time.Duration(us) * time.Microsecond
}

func trackID(uri string) string {
	h := fnv.New64a()
	h.Write([]byte(uri))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
