// Package probe reads the duration, stream formats and container tags of a
// media file by prerolling it in a pipeline engine.
package probe

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dhowden/tag"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/llehouerou/scrub/internal/caps"
	"github.com/llehouerou/scrub/internal/pipeline"
	"github.com/llehouerou/scrub/internal/playback"
)

// DefaultTimeout bounds the wait for the engine to preroll a file.
const DefaultTimeout = 100 * time.Millisecond

// Info is the result of probing one file.
type Info struct {
	Path      string           `json:"path"`
	URI       string           `json:"uri"`
	Size      int64            `json:"size"`
	Duration  float64          `json:"duration"`
	Video     []map[string]any `json:"video"`
	Audio     []map[string]any `json:"audio"`
	Tags      *Tags            `json:"tags,omitempty"`
	Started   bool             `json:"started"`
	StartTime time.Duration    `json:"start_time"`
	Errors    []string         `json:"errors,omitempty"`
}

// Tags holds the container metadata that could be read.
type Tags struct {
	Format   string `json:"format"`
	FileType string `json:"file_type"`
	Title    string `json:"title,omitempty"`
	Artist   string `json:"artist,omitempty"`
	Album    string `json:"album,omitempty"`
	Genre    string `json:"genre,omitempty"`
	Year     int    `json:"year,omitempty"`
}

// Reader probes files with an engine it does not own.
type Reader struct {
	Engine  pipeline.Engine
	Fs      afero.Fs
	Timeout time.Duration
	Log     logrus.FieldLogger
}

// NewReader creates a reader on the OS filesystem.
func NewReader(engine pipeline.Engine, log logrus.FieldLogger) *Reader {
	return &Reader{
		Engine:  engine,
		Fs:      afero.NewOsFs(),
		Timeout: DefaultTimeout,
		Log:     log,
	}
}

func (r *Reader) timeout() time.Duration {
	if r.Timeout <= 0 {
		return DefaultTimeout
	}
	return r.Timeout
}

func (r *Reader) fs() afero.Fs {
	if r.Fs == nil {
		return afero.NewOsFs()
	}
	return r.Fs
}

func (r *Reader) log() logrus.FieldLogger {
	if r.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		return l
	}
	return r.Log
}

// Read probes path. A file the engine cannot preroll is not an error: the
// returned Info has Started set to false and whatever could be collected.
func (r *Reader) Read(ctx context.Context, path string) (*Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	uri, abs, err := playback.SourceURI(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", path, err)
	}
	info := &Info{Path: abs, URI: uri}
	log := r.log().WithField("path", abs)

	if abs != "" {
		fi, err := r.fs().Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("stat: %w", err)
		}
		if fi.IsDir() {
			return nil, fmt.Errorf("%s is a directory", abs)
		}
		info.Size = fi.Size()
	}

	e := r.Engine
	defer func() {
		e.SetState(pipeline.StateNull)
		info.Errors = append(info.Errors, r.drain()...)
	}()

	e.SetState(pipeline.StateNull)
	e.GetState(r.timeout())
	if err := e.SetURI(uri); err != nil {
		return nil, fmt.Errorf("set uri: %w", err)
	}

	start := time.Now()
	e.SetState(pipeline.StatePaused)
	ret, _, _ := e.GetState(r.timeout())
	info.StartTime = time.Since(start)
	info.Started = ret == pipeline.StateChangeSuccess || ret == pipeline.StateChangeNoPreroll
	if !info.Started {
		log.WithField("result", ret).Warn("unable to start pipeline")
	}

	if d, ok := e.QueryDuration(); ok {
		info.Duration = d.Seconds()
	}
	streams := r.streams()
	info.Video = lo.Map(lo.Filter(streams, func(s *caps.Structure, _ int) bool { return s.IsVideo() }), toMap)
	info.Audio = lo.Map(lo.Filter(streams, func(s *caps.Structure, _ int) bool { return s.IsAudio() }), toMap)

	if abs != "" {
		info.Tags = r.tags(abs, log)
	}

	log.WithFields(logrus.Fields{
		"duration": info.Duration,
		"video":    len(info.Video),
		"audio":    len(info.Audio),
		"start":    info.StartTime,
	}).Debug("probed")
	return info, nil
}

// ReadAll probes every path, stopping at the first hard error.
func (r *Reader) ReadAll(ctx context.Context, paths []string) ([]*Info, error) {
	out := make([]*Info, 0, len(paths))
	for _, p := range paths {
		info, err := r.Read(ctx, p)
		if err != nil {
			return out, fmt.Errorf("%s: %w", p, err)
		}
		out = append(out, info)
	}
	return out, nil
}

func (r *Reader) streams() []*caps.Structure {
	if lister, ok := r.Engine.(pipeline.StreamLister); ok {
		return lister.StreamCaps()
	}
	if st, ok := r.Engine.NegotiatedVideoFormat(); ok {
		return []*caps.Structure{st}
	}
	return nil
}

func (r *Reader) tags(path string, log logrus.FieldLogger) *Tags {
	f, err := r.fs().Open(path)
	if err != nil {
		log.WithError(err).Debug("open for tags")
		return nil
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		log.WithError(err).Debug("no container tags")
		return nil
	}
	return &Tags{
		Format:   string(m.Format()),
		FileType: string(m.FileType()),
		Title:    m.Title(),
		Artist:   m.Artist(),
		Album:    m.Album(),
		Genre:    m.Genre(),
		Year:     m.Year(),
	}
}

// drain consumes queued engine messages, returning reported errors.
func (r *Reader) drain() []string {
	var errs []string
	for {
		select {
		case msg, ok := <-r.Engine.Messages():
			if !ok {
				return errs
			}
			if msg.Type == pipeline.MessageError && msg.Err != nil {
				errs = append(errs, msg.Err.Error())
			}
		default:
			return errs
		}
	}
}

func toMap(s *caps.Structure, _ int) map[string]any {
	return s.ToMap()
}
