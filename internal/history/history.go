// Package history stores sources that were probed or played, in sqlite.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/llehouerou/scrub/internal/db"
)

const (
	appName    = "scrub"
	dbFileName = "scrub.db"
)

// Kind says how an entry was recorded.
type Kind string

const (
	KindProbe Kind = "probe"
	KindPlay  Kind = "play"
)

// Entry is one remembered source.
type Entry struct {
	URI       string
	Path      string
	Kind      Kind
	Size      int64
	Duration  float64
	Width     int
	Height    int
	Framerate float64
	Count     int // times recorded
	SeenAt    time.Time
}

// Store is the history database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// DefaultPath returns $XDG_DATA_HOME/scrub/scrub.db, creating the directory.
func DefaultPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}

// Open opens the store at the default path.
func Open() (*Store, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return OpenAt(path)
}

// OpenAt opens the store at path. ":memory:" gives a private in-memory store.
func OpenAt(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection: sqlite serializes writers and :memory: is per connection.
	conn.SetMaxOpenConns(1)

	if err := initSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return &Store{db: conn, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts e or updates the entry with the same URI, bumping its count.
// Zero-valued media fields do not overwrite known values.
func (s *Store) Record(e Entry) error {
	if e.URI == "" {
		return errors.New("history: empty uri")
	}
	if e.Kind == "" {
		e.Kind = KindProbe
	}
	seen := e.SeenAt
	if seen.IsZero() {
		seen = s.now()
	}

	return db.WithTx(s.db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO sources (uri, path, kind, size, duration, width, height, framerate, count, seen_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?)
			ON CONFLICT(uri) DO UPDATE SET
				path      = COALESCE(excluded.path, sources.path),
				kind      = excluded.kind,
				size      = COALESCE(excluded.size, sources.size),
				duration  = COALESCE(excluded.duration, sources.duration),
				width     = COALESCE(excluded.width, sources.width),
				height    = COALESCE(excluded.height, sources.height),
				framerate = COALESCE(excluded.framerate, sources.framerate),
				count     = sources.count + 1,
				seen_at   = excluded.seen_at
		`,
			e.URI,
			db.NullString(e.Path),
			string(e.Kind),
			db.NullInt64(e.Size),
			nullFloat(e.Duration),
			db.NullInt64(int64(e.Width)),
			db.NullInt64(int64(e.Height)),
			nullFloat(e.Framerate),
			seen.UnixMilli(),
		)
		if err != nil {
			return fmt.Errorf("record %s: %w", e.URI, err)
		}
		return nil
	})
}

// Recent returns up to limit entries, most recently seen first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT uri, path, kind, size, duration, width, height, framerate, count, seen_at
		FROM sources
		ORDER BY seen_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Lookup returns the entry for uri, nil if unknown.
func (s *Store) Lookup(uri string) (*Entry, error) {
	row := s.db.QueryRow(`
		SELECT uri, path, kind, size, duration, width, height, framerate, count, seen_at
		FROM sources WHERE uri = ?
	`, uri)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // unknown uri is not an error
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Count returns the number of stored entries.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM sources`).Scan(&n)
	return n, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(r scanner) (Entry, error) {
	var (
		e            Entry
		path         sql.NullString
		kind         string
		size, w, h   sql.NullInt64
		duration, fr sql.NullFloat64
		seenAt       int64
	)
	if err := r.Scan(&e.URI, &path, &kind, &size, &duration, &w, &h, &fr, &e.Count, &seenAt); err != nil {
		return Entry{}, err
	}
	e.Path = db.NullStringValue(path)
	e.Kind = Kind(kind)
	e.Size = db.NullInt64Value(size)
	e.Duration = db.NullFloat64Value(duration)
	e.Width = int(db.NullInt64Value(w))
	e.Height = int(db.NullInt64Value(h))
	e.Framerate = db.NullFloat64Value(fr)
	e.SeenAt = db.UnixMilli(seenAt)
	return e, nil
}

func nullFloat(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: v != 0}
}
