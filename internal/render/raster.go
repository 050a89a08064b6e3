package render

import (
	"image"

	"github.com/coreman2200/arcaluminis-render/internal/config"
	"github.com/coreman2200/arcaluminis-render/internal/scene"
)

// raster draws every frame on the calling goroutine.
type raster struct {
	core
}

func newRaster(o options) *raster {
	r := &raster{core: core{opts: o}}
	r.paint = func(fb *Framebuffer, img *image.RGBA, cam scene.Camera, objs []scene.ObjectState) {
		paintRows(fb, cam, objs, 0, fb.H)
		resolveRows(fb, img, r.opts.post, 0, fb.H)
	}
	return r
}

func (*raster) Kind() config.RendererKind { return config.RendererRaster }
