package window

import "github.com/coreman2200/arcaluminis-render/internal/render"

// Window is a live output surface for interactive playback. The manager calls it from a
// single goroutine.
type Window interface {
	IsClosing() bool
	Clear()
	SwapBuffers(a render.Artifact) error
	Close() error
}
