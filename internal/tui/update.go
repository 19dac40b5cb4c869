package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/scrub/internal/errmsg"
	"github.com/llehouerou/scrub/internal/keymap"
	"github.com/llehouerou/scrub/internal/pipeline"
)

// Rates offered by the rate keys.
var rateSteps = []float64{0.25, 0.5, 0.75, 1, 1.25, 1.5, 2, 4}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case TickMsg:
		m.sync()
		return m, TickCmd()
	case StateChangedMsg:
		m.state = msg.Current
		if msg.Current == pipeline.StatePaused || msg.Current == pipeline.StatePlaying {
			m.sync()
		}
		return m, WatchEvents(m.sub)
	case EngineErrorMsg:
		m.errorMsg = errmsg.Format(errmsg.OpEngine, msg.Err)
		return m, WatchEvents(m.sub)
	case ClosedMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, _ := m.keys.Resolve(msg.String())
	switch action {
	case keymap.ActionQuit:
		return m, tea.Quit
	case keymap.ActionHelp:
		m.showHelp = !m.showHelp
	case keymap.ActionPlayPause:
		if err := m.player.Toggle(); err != nil {
			m.errorMsg = errmsg.Format(opForState(m.state), err)
		}
	case keymap.ActionSeekBack:
		m.bar.Step(-1)
	case keymap.ActionSeekForward:
		m.bar.Step(1)
	case keymap.ActionSeekBackLong:
		m.bar.Move(-m.seekStep)
	case keymap.ActionSeekForwardLong:
		m.bar.Move(m.seekStep)
	case keymap.ActionJumpStart:
		m.bar.Home()
	case keymap.ActionJumpEnd:
		m.bar.End()
	case keymap.ActionRateDown:
		m.setRate(slower(m.player.Rate()))
	case keymap.ActionRateUp:
		m.setRate(faster(m.player.Rate()))
	case keymap.ActionRateReset:
		m.setRate(1)
	}
	return m, nil
}

func (m *Model) setRate(rate float64) {
	if err := m.player.SetRate(rate); err != nil {
		m.errorMsg = errmsg.Format(errmsg.OpSetRate, err)
		return
	}
	m.errorMsg = ""
	m.rate = m.player.Rate()
}

func opForState(s pipeline.State) errmsg.Op {
	if s == pipeline.StatePlaying {
		return errmsg.OpPause
	}
	return errmsg.OpPlay
}

// slower returns the largest step below rate, or the smallest step.
func slower(rate float64) float64 {
	for i := len(rateSteps) - 1; i >= 0; i-- {
		if rateSteps[i] < rate-1e-9 {
			return rateSteps[i]
		}
	}
	return rateSteps[0]
}

// faster returns the smallest step above rate, or the largest step.
func faster(rate float64) float64 {
	for _, r := range rateSteps {
		if r > rate+1e-9 {
			return r
		}
	}
	return rateSteps[len(rateSteps)-1]
}
