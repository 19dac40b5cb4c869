package playback

import (
	"sync/atomic"

	"github.com/llehouerou/scrub/internal/pipeline"
)

// DisplaySurface is a drawing area that yields a native window handle once
// realized.
type DisplaySurface interface {
	OnRealize(fn func(handle uintptr))
}

// DisplayBinding hands the surface's window handle to the video sink when
// the engine asks for one.
type DisplayBinding struct {
	c      *Controller
	handle atomic.Uintptr
}

// AttachDisplay binds surface to the engine's video output. It replaces any
// previous display binding and can be called before Run.
func (c *Controller) AttachDisplay(surface DisplaySurface) *DisplayBinding {
	b := &DisplayBinding{c: c}
	surface.OnRealize(func(handle uintptr) {
		b.handle.Store(handle)
	})
	c.display.Store(b)
	return b
}

// Handle returns the realized window handle, 0 if not realized yet.
func (b *DisplayBinding) Handle() uintptr {
	return b.handle.Load()
}

func (b *DisplayBinding) apply(msg pipeline.Message) {
	h := b.handle.Load()
	if h == 0 || msg.Overlay == nil {
		b.c.log.WithField("source", msg.Source).Debug("window handle requested before realize")
		return
	}
	msg.Overlay.SetWindowHandle(h)
}
