// Package tui is the terminal front end: a scrub bar, a header describing
// the loaded source and key handling that drives the playback controller.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/scrub/internal/keymap"
	"github.com/llehouerou/scrub/internal/pipeline"
	"github.com/llehouerou/scrub/internal/playback"
	"github.com/llehouerou/scrub/internal/ui/scrubber"
)

// Player is the part of the playback controller the TUI drives.
type Player interface {
	Toggle() error
	SetRate(rate float64) error
	Rate() float64
	State() pipeline.State
	Session() playback.Session
	Dimensions() (width, height int)
	Framerate() float64
}

// Model is the root TUI model.
type Model struct {
	player   Player
	bar      *scrubber.Bar
	sub      *playback.Subscription
	keys     *keymap.Resolver
	help     help.Model
	seekStep time.Duration

	state     pipeline.State
	session   playback.Session
	width     int
	height    int
	frameW    int
	frameH    int
	framerate float64
	rate      float64
	showHelp  bool
	errorMsg  string
}

// Options configure a Model.
type Options struct {
	SeekStep time.Duration // shift+left/right, default 5s
}

// New creates a model driving p. bar must be attached to the controller as
// its slider; moving it seeks.
func New(p Player, bar *scrubber.Bar, sub *playback.Subscription, opts Options) Model {
	if opts.SeekStep <= 0 {
		opts.SeekStep = 5 * time.Second
	}
	m := Model{
		player:   p,
		bar:      bar,
		sub:      sub,
		keys:     keymap.Default(),
		help:     help.New(),
		seekStep: opts.SeekStep,
		width:    80,
	}
	m.sync()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(TickCmd(), WatchEvents(m.sub))
}

// sync copies controller state used by the header.
func (m *Model) sync() {
	m.state = m.player.State()
	m.session = m.player.Session()
	m.frameW, m.frameH = m.player.Dimensions()
	m.framerate = m.player.Framerate()
	m.rate = m.player.Rate()
}

// ErrorMsg returns the error shown in the status line.
func (m Model) ErrorMsg() string {
	return m.errorMsg
}
