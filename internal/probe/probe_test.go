package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/scrub/internal/caps"
	"github.com/llehouerou/scrub/internal/pipeline"
)

// id3v1 builds a file body ending with an ID3v1 tag.
func id3v1(title, artist string) []byte {
	field := func(s string, n int) []byte {
		b := make([]byte, n)
		copy(b, s)
		return b
	}
	var buf bytes.Buffer
	buf.Write(bytes.Repeat([]byte{0xAA}, 256))
	buf.WriteString("TAG")
	buf.Write(field(title, 30))
	buf.Write(field(artist, 30))
	buf.Write(field("Album", 30))
	buf.WriteString("2024")
	buf.Write(field("", 30))
	buf.WriteByte(0)
	return buf.Bytes()
}

func newReader(t *testing.T, m *pipeline.Mock, files map[string][]byte) *Reader {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, data := range files {
		require.NoError(t, afero.WriteFile(fs, name, data, 0o644))
	}
	return &Reader{Engine: m, Fs: fs}
}

func TestRead_CollectsStreams(t *testing.T) {
	m := pipeline.NewMock()
	m.SetDuration(90 * time.Second)
	m.NegotiateVideo(caps.NewStructure("video/x-raw").
		Set(caps.FieldWidth, 1280).
		Set(caps.FieldHeight, 720).
		Set(caps.FieldFramerate, caps.Fraction{Num: 25, Den: 1}))
	m.AddStream(caps.NewStructure("audio/x-raw").
		Set(caps.FieldRate, 48000).
		Set(caps.FieldChannels, 2))
	m.AddStream(caps.NewStructure("text/x-raw"))
	r := newReader(t, m, map[string][]byte{"/media/clip.mkv": make([]byte, 2048)})

	info, err := r.Read(context.Background(), "/media/clip.mkv")
	require.NoError(t, err)

	assert.Equal(t, "/media/clip.mkv", info.Path)
	assert.Equal(t, "file:///media/clip.mkv", info.URI)
	assert.Equal(t, int64(2048), info.Size)
	assert.True(t, info.Started)
	assert.InDelta(t, 90.0, info.Duration, 1e-9)

	require.Len(t, info.Video, 1)
	assert.Equal(t, 1280, info.Video[0]["width"])
	assert.Equal(t, [2]int{25, 1}, info.Video[0]["framerate"])
	require.Len(t, info.Audio, 1, "non audio/video streams are skipped")
	assert.Equal(t, 48000, info.Audio[0]["rate"])
	assert.Nil(t, info.Tags)

	assert.Equal(t, pipeline.StateNull, m.Tracker().Current(), "engine reset after probe")
}

func TestRead_Tags(t *testing.T) {
	m := pipeline.NewMock()
	r := newReader(t, m, map[string][]byte{"/media/song.mp3": id3v1("Clip", "Someone")})

	info, err := r.Read(context.Background(), "/media/song.mp3")
	require.NoError(t, err)

	require.NotNil(t, info.Tags)
	assert.Equal(t, "Clip", info.Tags.Title)
	assert.Equal(t, "Someone", info.Tags.Artist)
}

func TestRead_UnstartedPipelineIsNotAnError(t *testing.T) {
	m := pipeline.NewMock()
	m.SetFailPreroll(true)
	r := newReader(t, m, map[string][]byte{"/media/broken.mkv": []byte("junk")})

	info, err := r.Read(context.Background(), "/media/broken.mkv")
	require.NoError(t, err)

	assert.False(t, info.Started)
	assert.Zero(t, info.Duration)
	assert.Empty(t, info.Video)
	require.Len(t, info.Errors, 1)
	assert.Contains(t, info.Errors[0], pipeline.ErrPreroll.Error())
	assert.Contains(t, info.String(), "did not start")
}

func TestRead_MissingFile(t *testing.T) {
	r := newReader(t, pipeline.NewMock(), nil)

	_, err := r.Read(context.Background(), "/media/none.mkv")
	assert.Error(t, err)
}

func TestRead_Directory(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/media/dir", 0o755))
	r := &Reader{Engine: pipeline.NewMock(), Fs: fs}

	_, err := r.Read(context.Background(), "/media/dir")
	assert.Error(t, err)
}

func TestRead_CanceledContext(t *testing.T) {
	r := newReader(t, pipeline.NewMock(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Read(ctx, "/media/clip.mkv")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadAll(t *testing.T) {
	m := pipeline.NewMock()
	r := newReader(t, m, map[string][]byte{
		"/a.mkv": []byte("a"),
		"/b.mkv": []byte("bb"),
	})

	infos, err := r.ReadAll(context.Background(), []string{"/a.mkv", "/b.mkv"})
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, int64(2), infos[1].Size)

	infos, err = r.ReadAll(context.Background(), []string{"/a.mkv", "/missing.mkv", "/b.mkv"})
	assert.Error(t, err)
	assert.Len(t, infos, 1)
}

func TestInfo_JSON(t *testing.T) {
	info := &Info{
		Path:     "/a.mkv",
		Duration: 1.5,
		Video:    []map[string]any{{"framerate": [2]int{30000, 1001}}},
	}

	data, err := json.Marshal(info)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"framerate":[30000,1001]`)
	assert.NotContains(t, string(data), `"tags"`)
}

func TestInfo_String(t *testing.T) {
	info := &Info{
		Path:     "/a.mkv",
		Size:     3 * 1024 * 1024,
		Duration: 83.25,
		Started:  true,
		Video:    []map[string]any{{"width": 1920, "height": 1080, "framerate": [2]int{30000, 1001}}},
		Audio:    []map[string]any{{"rate": 48000, "channels": 2}},
	}

	out := info.String()

	for _, want := range []string{"3.0 MiB", "1:23.250", "1920x1080", "29.970 fps", "48000 Hz", "2 ch"} {
		if !strings.Contains(out, want) {
			t.Errorf("String() missing %q:\n%s", want, out)
		}
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0:00.000"},
		{9.5, "0:09.500"},
		{3725.001, "1:02:05.001"},
	}
	for _, tt := range tests {
		if got := FormatSeconds(tt.in); got != tt.want {
			t.Errorf("FormatSeconds(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
