// Package scrubber is a terminal scrub bar usable as a playback range control.
package scrubber

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/llehouerou/scrub/internal/ui/styles"
)

var (
	filledBlock = "▓"
	emptyBlock  = "░"
)

// Bar holds a value within a range. It is safe for concurrent use: the
// playback loop refreshes it while the UI reads and moves it.
type Bar struct {
	mu        sync.Mutex
	value     float64
	lower     float64
	upper     float64
	step      float64
	page      float64
	listeners []func(float64)
}

// New creates an empty bar with a one second step and page.
func New() *Bar {
	return &Bar{step: 1, page: 1}
}

func (b *Bar) Value() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.value
}

// SetValue clamps v to the range and notifies listeners.
func (b *Bar) SetValue(v float64) {
	b.mu.Lock()
	b.value = lo.Clamp(v, b.lower, max(b.lower, b.upper))
	v = b.value
	listeners := append([]func(float64){}, b.listeners...)
	b.mu.Unlock()

	// Outside the lock: listeners may read the bar.
	for _, fn := range listeners {
		fn(v)
	}
}

// SetRange sets the bounds, clamping the current value without notifying.
func (b *Bar) SetRange(lower, upper float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lower, b.upper = lower, max(lower, upper)
	b.value = lo.Clamp(b.value, b.lower, b.upper)
}

func (b *Bar) SetIncrements(step, page float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.step, b.page = step, page
}

func (b *Bar) OnValueChanged(fn func(float64)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, fn)
}

// Range returns the bounds.
func (b *Bar) Range() (lower, upper float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lower, b.upper
}

// Increments returns the step and page increments.
func (b *Bar) Increments() (step, page float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.step, b.page
}

// Step moves the value by n minor increments.
func (b *Bar) Step(n int) {
	step, _ := b.Increments()
	b.SetValue(b.Value() + float64(n)*step)
}

// Page moves the value by n major increments.
func (b *Bar) Page(n int) {
	_, page := b.Increments()
	b.SetValue(b.Value() + float64(n)*page)
}

// Move moves the value by d.
func (b *Bar) Move(d time.Duration) {
	b.SetValue(b.Value() + d.Seconds())
}

// Home moves to the lower bound.
func (b *Bar) Home() {
	lower, _ := b.Range()
	b.SetValue(lower)
}

// End moves to the upper bound.
func (b *Bar) End() {
	_, upper := b.Range()
	b.SetValue(upper)
}

// Render draws the bar in width cells.
// Format: ▶  1:23  ▓▓▓▓▓░░░░░  4:56
func (b *Bar) Render(width int, playing bool) string {
	b.mu.Lock()
	value, lower, upper := b.value, b.lower, b.upper
	b.mu.Unlock()

	t := styles.T()
	status := t.S().Paused.Render("⏸")
	if playing {
		status = t.S().Playing.Render("▶")
	}
	posStr := FormatTime(value)
	durStr := FormatTime(upper)

	fixedWidth := lipgloss.Width(status) + 2 + lipgloss.Width(posStr) + 2 + 2 + lipgloss.Width(durStr)
	barWidth := width - fixedWidth
	if barWidth < 3 {
		return status + "  " + posStr + " / " + durStr
	}

	var ratio float64
	if span := upper - lower; span > 0 {
		ratio = (value - lower) / span
	}
	filled := lo.Clamp(int(float64(barWidth)*ratio), 0, barWidth)

	bar := styles.Gradient(strings.Repeat(filledBlock, filled), t.AccentDim, t.Accent) +
		t.S().Track.Render(strings.Repeat(emptyBlock, barWidth-filled))

	return status + "  " + posStr + "  " + bar + "  " + durStr
}

// FormatTime renders seconds as M:SS.t, or H:MM:SS.t past an hour.
func FormatTime(secs float64) string {
	d := time.Duration(max(secs, 0) * float64(time.Second)).Truncate(100 * time.Millisecond)
	h := int(d / time.Hour)
	m := int(d/time.Minute) % 60
	s := int(d/time.Second) % 60
	tenths := int(d/(100*time.Millisecond)) % 10
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d.%d", h, m, s, tenths)
	}
	return fmt.Sprintf("%d:%02d.%d", m, s, tenths)
}
