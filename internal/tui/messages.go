package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/scrub/internal/playback"
)

const tickInterval = 100 * time.Millisecond

// TickMsg repaints the scrub bar.
type TickMsg time.Time

// StateChangedMsg is sent when the controller reports a new playback state.
type StateChangedMsg playback.StateChange

// EngineErrorMsg is sent when the engine reports an error.
type EngineErrorMsg playback.ErrorEvent

// ClosedMsg is sent when the controller loop has stopped.
type ClosedMsg struct{}

// TickCmd schedules the next repaint.
func TickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// WatchEvents waits for the next controller event.
func WatchEvents(sub *playback.Subscription) tea.Cmd {
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case e := <-sub.PlaybackChanged:
			return StateChangedMsg(e)
		case e := <-sub.Errors:
			return EngineErrorMsg(e)
		case <-sub.Done:
			return ClosedMsg{}
		}
	}
}
