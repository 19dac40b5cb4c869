package playback

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Session describes the loaded source. A load replaces it wholesale.
type Session struct {
	URI       string
	Path      string // absolute path, empty for non-file URIs
	Rate      float64
	Duration  float64 // seconds, last successful query
	Framerate float64 // frames per second, 0 if unknown
	LoadedAt  time.Time
}

func newSession(uri, path string) Session {
	return Session{
		URI:      uri,
		Path:     path,
		Rate:     1.0,
		LoadedAt: time.Now(),
	}
}

// Loaded returns true if a source is set.
func (s Session) Loaded() bool {
	return s.URI != ""
}

// SourceURI converts a path into the URI handed to the engine. Paths are
// made absolute with a leading ~ expanded. Values that already carry a URI
// scheme are returned unchanged with an empty path.
func SourceURI(path string) (uri, abs string, err error) {
	if strings.Contains(path, "://") {
		return path, "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", "", err
		}
		path = filepath.Join(home, path[1:])
	}
	abs, err = filepath.Abs(path)
	if err != nil {
		return "", "", err
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), abs, nil
}
