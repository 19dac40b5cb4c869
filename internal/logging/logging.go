// Package logging configures the structured logger shared by all components.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Options selects the logger output. Output is used when File is empty,
// stderr when both are unset.
type Options struct {
	Level  string
	File   string
	JSON   bool
	Output io.Writer
}

// Setup builds a logger from opts. The returned close function releases the
// log file, if any, and is always safe to call.
func Setup(fs afero.Fs, opts Options) (*logrus.Logger, func() error, error) {
	log := logrus.New()
	closeFn := func() error { return nil }

	switch {
	case opts.File != "":
		if err := fs.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, closeFn, fmt.Errorf("create log directory: %w", err)
		}
		f, err := fs.OpenFile(opts.File, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return nil, closeFn, fmt.Errorf("open log file: %w", err)
		}
		log.SetOutput(f)
		closeFn = f.Close
	case opts.Output != nil:
		log.SetOutput(opts.Output)
	default:
		log.SetOutput(os.Stderr)
	}

	if opts.JSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	log.SetLevel(ParseLevel(opts.Level))
	return log, closeFn, nil
}

// ParseLevel parses a logrus level name, falling back to Info.
func ParseLevel(name string) logrus.Level {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(name))
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
