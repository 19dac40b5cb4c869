// Package notify sends desktop notifications via D-Bus.
package notify

import (
	"sync"

	"github.com/llehouerou/scrub/internal/errmsg"
	"github.com/llehouerou/scrub/internal/playback"
)

const (
	appName      = "Scrub"
	desktopEntry = "scrub"
)

// Urgency is a freedesktop notification priority level.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// Notification contains data for a desktop notification.
type Notification struct {
	Title      string  // Summary text (required)
	Body       string  // Body text (optional, supports basic markup)
	Icon       string  // Path to image file or icon name (optional)
	Timeout    int32   // ms, -1 = server default, 0 = never expire
	ReplacesID uint32  // 0 = new notification, >0 = replace existing
	Urgency    Urgency // Low, Normal, Critical
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify sends a notification and returns its ID.
	// Returns 0 and nil error if notifications are disabled or unavailable.
	Notify(n Notification) (uint32, error)
	// Close closes a notification by ID.
	Close(id uint32) error
}

// ErrorReporter shows engine errors as a single notification, replaced by
// each new error.
type ErrorReporter struct {
	n Notifier

	mu     sync.Mutex
	lastID uint32
}

// NewErrorReporter wraps n.
func NewErrorReporter(n Notifier) *ErrorReporter {
	return &ErrorReporter{n: n}
}

// Report sends e. It matches the playback OnError callback signature.
func (r *ErrorReporter) Report(e playback.ErrorEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	body := errmsg.Format(errmsg.OpEngine, e.Err)
	if e.Debug != "" {
		body += "\n" + e.Debug
	}
	id, err := r.n.Notify(Notification{
		Title:      appName + ": playback error",
		Body:       body,
		Icon:       "dialog-error",
		Timeout:    5000,
		ReplacesID: r.lastID,
		Urgency:    UrgencyCritical,
	})
	if err == nil && id != 0 {
		r.lastID = id
	}
}

// Dismiss closes the last error notification, if any.
func (r *ErrorReporter) Dismiss() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lastID == 0 {
		return nil
	}
	id := r.lastID
	r.lastID = 0
	return r.n.Close(id)
}
