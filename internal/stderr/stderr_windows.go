//go:build windows

// Package stderr is a no-op on Windows, where libmpv logs through its own API.
package stderr

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Start is a no-op on Windows.
func Start(_ logrus.FieldLogger) error {
	return nil
}

// WriteOriginal writes to stderr.
func WriteOriginal(msg string) {
	_, _ = os.Stderr.WriteString(msg)
}

// Stop is a no-op on Windows.
func Stop() {}
