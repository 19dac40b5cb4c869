//go:build !windows

// Package stderr redirects file descriptor 2 into the logger. libmpv and
// its drivers write there directly, which would corrupt the TUI.
package stderr

import (
	"bufio"
	"io"
	"os"
	"strings"
	"sync"
	"syscall"

	"github.com/sirupsen/logrus"
)

var (
	mu         sync.Mutex
	origStderr = -1
	pipeRead   *os.File
	pipeWrite  *os.File
	forwarded  chan struct{}
)

// Start redirects fd 2 to log. It must run before the engine is created.
// On failure the program continues with the original stderr.
func Start(log logrus.FieldLogger) error {
	mu.Lock()
	defer mu.Unlock()
	if origStderr >= 0 {
		return nil
	}

	r, w, err := os.Pipe()
	if err != nil {
		return err
	}
	orig, err := syscall.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return err
	}
	if err := syscall.Dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		syscall.Close(orig)
		r.Close()
		w.Close()
		return err
	}

	origStderr, pipeRead, pipeWrite = orig, r, w
	forwarded = make(chan struct{})
	go func(done chan struct{}) {
		defer close(done)
		forward(r, log)
	}(forwarded)
	return nil
}

// forward logs each non-empty line of r until EOF.
func forward(r io.Reader, log logrus.FieldLogger) {
	entry := log.WithField("source", "stderr")
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if isErrorLine(line) {
			entry.Warn(line)
		} else {
			entry.Debug(line)
		}
	}
}

func isErrorLine(line string) bool {
	l := strings.ToLower(line)
	return strings.Contains(l, "error") || strings.Contains(l, "failed") || strings.Contains(l, "fatal")
}

// WriteOriginal writes to the original stderr, bypassing capture.
func WriteOriginal(msg string) {
	mu.Lock()
	fd := origStderr
	mu.Unlock()
	if fd < 0 {
		_, _ = os.Stderr.WriteString(msg)
		return
	}
	_, _ = syscall.Write(fd, []byte(msg))
}

// Stop restores the original stderr and waits for buffered lines to be logged.
func Stop() {
	mu.Lock()
	defer mu.Unlock()
	if origStderr < 0 {
		return
	}

	_ = syscall.Dup2(origStderr, int(os.Stderr.Fd()))
	_ = syscall.Close(origStderr)
	origStderr = -1

	pipeWrite.Close()
	<-forwarded
	pipeRead.Close()
}
