package mpvengine

import (
	"strconv"
	"time"

	"github.com/llehouerou/scrub/internal/caps"
)

func (e *Engine) durationProperty(name string) (time.Duration, bool) {
	secs, err := e.c.GetDouble(name)
	if err != nil || secs < 0 {
		return 0, false
	}
	return time.Duration(secs * float64(time.Second)), true
}

// StreamCaps describes every audio and video track of the loaded file from
// mpv's track-list.
func (e *Engine) StreamCaps() []*caps.Structure {
	if !e.isLoaded() {
		return nil
	}
	count, err := e.c.GetInt64("track-list/count")
	if err != nil {
		return nil
	}
	var out []*caps.Structure
	for i := range count {
		prefix := "track-list/" + strconv.FormatInt(i, 10) + "/"
		kind, err := e.c.GetString(prefix + "type")
		if err != nil {
			continue
		}
		codec, _ := e.c.GetString(prefix + "codec")
		if codec == "" {
			codec = "unknown"
		}
		switch kind {
		case "video":
			st := caps.NewStructure(caps.VideoPrefix + codec)
			if w, err := e.c.GetInt64(prefix + "demux-w"); err == nil {
				st.Set(caps.FieldWidth, int(w))
			}
			if h, err := e.c.GetInt64(prefix + "demux-h"); err == nil {
				st.Set(caps.FieldHeight, int(h))
			}
			if fps, err := e.c.GetDouble(prefix + "demux-fps"); err == nil && fps > 0 {
				st.Set(caps.FieldFramerate, caps.SnapFramerate(fps))
			}
			out = append(out, st)
		case "audio":
			st := caps.NewStructure(caps.AudioPrefix + codec)
			if rate, err := e.c.GetInt64(prefix + "demux-samplerate"); err == nil {
				st.Set(caps.FieldRate, int(rate))
			}
			if ch, err := e.c.GetInt64(prefix + "demux-channel-count"); err == nil {
				st.Set(caps.FieldChannels, int(ch))
			}
			out = append(out, st)
		}
	}
	return out
}
