package render

import (
	"errors"
	"fmt"
	"image"

	"github.com/rs/zerolog"

	"github.com/coreman2200/arcaluminis-render/internal/config"
	"github.com/coreman2200/arcaluminis-render/internal/scene"
)

var ErrClosed = errors.New("render: backend closed")

// Surface is the part of a live window a backend cares about.
type Surface interface {
	Size() (w, h int)
}

// Artifact is one rendered frame. Image is owned by the receiver.
type Artifact struct {
	Frame    uint64 // 1-based count of artifacts produced by the backend
	Image    *image.RGBA
	Previous bool // re-emitted copy of the last frame
}

// Backend turns scene snapshots into artifacts. A backend is selected once per render
// and never swapped.
type Backend interface {
	Kind() config.RendererKind
	Render(cam scene.Camera, objs []scene.ObjectState) (Artifact, error)
	// RenderPrevious re-emits the last frame without new input. Before any frame it
	// renders the background alone.
	RenderPrevious(cam scene.Camera) (Artifact, error)
	BindWindow(s Surface)
	Close() error
}

type Option func(*options)

type options struct {
	post    Post
	workers int
	log     zerolog.Logger
}

func WithPost(p Post) Option { return func(o *options) { o.post = p } }

// WithWorkers sets the accelerated backend's pool size; 0 means GOMAXPROCS.
func WithWorkers(n int) Option { return func(o *options) { o.workers = n } }

func WithLogger(l zerolog.Logger) Option { return func(o *options) { o.log = l } }

// New selects the backend for kind.
func New(kind config.RendererKind, opts ...Option) (Backend, error) {
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	var b Backend
	switch kind {
	case config.RendererRaster:
		b = newRaster(o)
	case config.RendererAccelerated:
		b = newAccelerated(o)
	default:
		return nil, fmt.Errorf("render: select backend: %w",
			&config.ConfigurationError{Field: "renderer", Value: int(kind), Reason: "unrecognized renderer kind"})
	}
	o.log.Debug().Str("kind", kind.String()).Msg("render backend selected")
	return b, nil
}

// core holds what both backends share: sizing, the float target and the last frame.
type core struct {
	opts    options
	surface Surface
	fb      *Framebuffer
	last    *image.RGBA
	frames  uint64
	closed  bool

	// paint fills fb and img for the given snapshot.
	paint func(fb *Framebuffer, img *image.RGBA, cam scene.Camera, objs []scene.ObjectState)
}

func (c *core) BindWindow(s Surface) { c.surface = s }

// size is the bound window's size when it has one, else the camera's.
func (c *core) size(cam scene.Camera) (int, int) {
	if c.surface != nil {
		if w, h := c.surface.Size(); w > 0 && h > 0 {
			return w, h
		}
	}
	return cam.Width, cam.Height
}

func (c *core) Render(cam scene.Camera, objs []scene.ObjectState) (Artifact, error) {
	img, err := c.draw(cam, objs)
	if err != nil {
		return Artifact{}, err
	}
	c.last = img
	c.frames++
	return Artifact{Frame: c.frames, Image: img}, nil
}

func (c *core) RenderPrevious(cam scene.Camera) (Artifact, error) {
	if c.closed {
		return Artifact{}, ErrClosed
	}
	if c.last == nil {
		img, err := c.draw(cam, nil)
		if err != nil {
			return Artifact{}, err
		}
		c.last = img
	}
	img := image.NewRGBA(c.last.Rect)
	copy(img.Pix, c.last.Pix)
	c.frames++
	return Artifact{Frame: c.frames, Image: img, Previous: true}, nil
}

func (c *core) draw(cam scene.Camera, objs []scene.ObjectState) (*image.RGBA, error) {
	if c.closed {
		return nil, ErrClosed
	}
	w, h := c.size(cam)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("render: invalid frame size %dx%d", w, h)
	}
	if c.fb == nil || c.fb.W != w || c.fb.H != h {
		c.fb = NewFramebuffer(w, h)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	c.paint(c.fb, img, cam, objs)
	return img, nil
}

func (c *core) Close() error {
	c.closed = true
	return nil
}
