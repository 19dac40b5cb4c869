// Package libmpv opens a libmpv handle and exposes it as an mpvengine.Client.
package libmpv

import (
	"errors"
	"fmt"
	"time"

	"github.com/supersonic-app/go-mpv"

	"github.com/llehouerou/scrub/internal/mpvengine"
)

var errNilValue = errors.New("nil value")

// Options configure the mpv instance.
type Options struct {
	VO    string // video output driver, mpv default if empty
	HWDec string // hardware decoding mode, mpv default if empty
}

// Client wraps an initialized mpv handle.
type Client struct {
	m *mpv.Mpv
}

var _ mpvengine.Client = (*Client)(nil)

// Open creates and initializes an idle, paused mpv instance.
func Open(opts Options) (*Client, error) {
	m := mpv.Create()
	settings := [][2]string{
		{"idle", "yes"},
		{"keep-open", "yes"},
		{"pause", "yes"},
		{"terminal", "no"},
		{"input-default-bindings", "no"},
		{"osc", "no"},
	}
	if opts.VO != "" {
		settings = append(settings, [2]string{"vo", opts.VO})
	}
	if opts.HWDec != "" {
		settings = append(settings, [2]string{"hwdec", opts.HWDec})
	}
	for _, kv := range settings {
		if err := m.SetOptionString(kv[0], kv[1]); err != nil {
			m.TerminateDestroy()
			return nil, fmt.Errorf("mpv option %s=%s: %w", kv[0], kv[1], err)
		}
	}
	if err := m.Initialize(); err != nil {
		m.TerminateDestroy()
		return nil, fmt.Errorf("initialize mpv: %w", err)
	}
	for _, prop := range []string{"pause", "eof-reached"} {
		if err := m.ObserveProperty(0, prop, mpv.FORMAT_FLAG); err != nil {
			m.TerminateDestroy()
			return nil, fmt.Errorf("observe %s: %w", prop, err)
		}
	}
	return &Client{m: m}, nil
}

func (c *Client) Command(args ...string) error {
	return c.m.Command(args)
}

func (c *Client) SetFlag(name string, v bool) error {
	return c.m.SetProperty(name, mpv.FORMAT_FLAG, v)
}

func (c *Client) SetDouble(name string, v float64) error {
	return c.m.SetProperty(name, mpv.FORMAT_DOUBLE, v)
}

func (c *Client) SetInt64(name string, v int64) error {
	return c.m.SetProperty(name, mpv.FORMAT_INT64, v)
}

func (c *Client) GetFlag(name string) (bool, error) {
	value, err := c.m.GetProperty(name, mpv.FORMAT_FLAG)
	if err != nil {
		return false, err
	} else if value == nil {
		return false, errNilValue
	}
	return value.(bool), nil
}

func (c *Client) GetInt64(name string) (int64, error) {
	value, err := c.m.GetProperty(name, mpv.FORMAT_INT64)
	if err != nil {
		return 0, err
	} else if value == nil {
		return 0, errNilValue
	}
	return value.(int64), nil
}

func (c *Client) GetDouble(name string) (float64, error) {
	value, err := c.m.GetProperty(name, mpv.FORMAT_DOUBLE)
	if err != nil {
		return 0, err
	} else if value == nil {
		return 0, errNilValue
	}
	return value.(float64), nil
}

func (c *Client) GetString(name string) (string, error) {
	value, err := c.m.GetProperty(name, mpv.FORMAT_STRING)
	if err != nil {
		return "", err
	} else if value == nil {
		return "", errNilValue
	}
	return value.(string), nil
}

func (c *Client) WaitEvent(timeout time.Duration) mpvengine.EventID {
	ev := c.m.WaitEvent(timeout.Seconds())
	if ev == nil {
		return mpvengine.EventNone
	}
	switch ev.Event_Id {
	case mpv.EVENT_FILE_LOADED:
		return mpvengine.EventFileLoaded
	case mpv.EVENT_END_FILE:
		return mpvengine.EventEndFile
	case mpv.EVENT_PROPERTY_CHANGE:
		return mpvengine.EventPropertyChange
	case mpv.EVENT_SHUTDOWN:
		return mpvengine.EventShutdown
	case mpv.EVENT_NONE:
		return mpvengine.EventNone
	default:
		return mpvengine.EventOther
	}
}

func (c *Client) Destroy() {
	c.m.TerminateDestroy()
}
