package render

import (
	"image"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"github.com/coreman2200/arcaluminis-render/internal/config"
	"github.com/coreman2200/arcaluminis-render/internal/scene"
)

// accelerated splits each frame into row bands and draws them on a reusable worker pool.
// Render joins every band before returning, so callers stay synchronous.
type accelerated struct {
	core
	pool    worker.DynamicWorkerPool
	workers int
}

func newAccelerated(o options) *accelerated {
	n := o.workers
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	a := &accelerated{
		core:    core{opts: o},
		workers: n,
		// Workers idle-exit after a second, so nothing outlives a finished render for long.
		pool: worker.NewDynamicWorkerPool(n, 256, 1*time.Second),
	}
	a.paint = a.paintBands
	return a
}

func (*accelerated) Kind() config.RendererKind { return config.RendererAccelerated }

// bandHeight aims for a few bands per worker so uneven scenes still balance.
func (a *accelerated) bandHeight(h int) int {
	return max(8, (h+a.workers*4-1)/(a.workers*4))
}

func (a *accelerated) paintBands(fb *Framebuffer, img *image.RGBA, cam scene.Camera, objs []scene.ObjectState) {
	// Per-frame barrier; pool.Wait blocks until workers idle-exit.
	var wg sync.WaitGroup
	band := a.bandHeight(fb.H)
	id := 0
	for y0 := 0; y0 < fb.H; y0 += band {
		y1 := min(fb.H, y0+band)
		wg.Add(1)
		a.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				paintRows(fb, cam, objs, y0, y1)
				resolveRows(fb, img, a.opts.post, y0, y1)
				return nil, nil
			},
		})
		id++
	}
	wg.Wait()
}
