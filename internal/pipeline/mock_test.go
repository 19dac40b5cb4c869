package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/scrub/internal/caps"
)

func TestMock_QueriesNeedPreroll(t *testing.T) {
	m := NewMock()
	m.SetDuration(10 * time.Second)

	_, ok := m.QueryDuration()
	assert.False(t, ok)
	_, ok = m.QueryPosition()
	assert.False(t, ok)

	require.Equal(t, StateChangeSuccess, m.SetState(StatePaused))

	d, ok := m.QueryDuration()
	require.True(t, ok)
	assert.Equal(t, 10*time.Second, d)
	p, ok := m.QueryPosition()
	require.True(t, ok)
	assert.Zero(t, p)
}

func TestMock_SeekClampsAndRecords(t *testing.T) {
	m := NewMock()
	m.SetDuration(10 * time.Second)
	m.SetState(StatePaused)

	ok := m.Seek(1.0, SeekFlagFlush|SeekFlagAccurate, SeekTypeSet, 20*time.Second, SeekTypeNone, 0)
	require.True(t, ok)
	p, _ := m.QueryPosition()
	assert.Equal(t, 10*time.Second, p)

	ok = m.Seek(2.0, SeekFlagFlush, SeekTypeNone, 0, SeekTypeNone, 0)
	require.True(t, ok)
	p, _ = m.QueryPosition()
	assert.Equal(t, 10*time.Second, p, "SeekTypeNone keeps the position")
	assert.InDelta(t, 2.0, m.EngineRate(), 1e-9)

	seeks := m.Seeks()
	require.Len(t, seeks, 2)
	assert.True(t, seeks[0].Flags.Has(SeekFlagFlush|SeekFlagAccurate))
	assert.False(t, seeks[1].Flags.Has(SeekFlagAccurate))
}

func TestMock_RejectSeeks(t *testing.T) {
	m := NewMock()
	m.SetRejectSeeks(true)
	assert.False(t, m.Seek(1.0, SeekFlagFlush, SeekTypeSet, 0, SeekTypeNone, 0))
	assert.Len(t, m.Seeks(), 1)
}

func TestMock_FailPreroll(t *testing.T) {
	m := NewMock()
	m.SetFailPreroll(true)

	assert.Equal(t, StateChangeFailure, m.SetState(StatePaused))

	ret, cur, _ := m.GetState(0)
	assert.Equal(t, StateChangeFailure, ret)
	assert.Equal(t, StateReady, cur)

	msgs := drain(m.Messages())
	require.NotEmpty(t, msgs)
	last := msgs[len(msgs)-1]
	assert.Equal(t, MessageError, last.Type)
	assert.ErrorIs(t, last.Err, ErrPreroll)
}

func TestMock_PrepareWindowHandleOnPreroll(t *testing.T) {
	m := NewMock()
	var got []Message
	m.SetSyncHandler(func(msg Message) {
		got = append(got, msg)
		msg.Overlay.SetWindowHandle(42)
	})

	m.SetState(StatePaused)
	m.SetState(StatePlaying)

	require.Len(t, got, 1)
	assert.Equal(t, MessagePrepareWindowHandle, got[0].Type)
	assert.Equal(t, uintptr(42), m.WindowHandle())
}

func TestMock_StreamCaps(t *testing.T) {
	m := NewMock()
	assert.Empty(t, m.StreamCaps())

	video := caps.NewStructure("video/x-raw").Set(caps.FieldWidth, 640)
	audio := caps.NewStructure("audio/x-raw").Set(caps.FieldRate, 48000)
	m.NegotiateVideo(video)
	m.AddStream(audio)

	assert.Equal(t, []*caps.Structure{video, audio}, m.StreamCaps())

	st, ok := m.NegotiatedVideoFormat()
	require.True(t, ok)
	assert.Same(t, video, st)
}

func TestStateStrings(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{StateNull.String(), "Null"},
		{StatePlaying.String(), "Playing"},
		{State(99).String(), "Unknown"},
		{StateChangeAsync.String(), "Async"},
		{SeekTypeNone.String(), "None"},
		{MessageEOS.String(), "eos"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
