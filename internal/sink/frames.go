package sink

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/coreman2200/arcaluminis-render/internal/render"
)

// Manifest is written next to the frames when a render finishes.
type Manifest struct {
	Scene          string    `yaml:"scene"`
	Frames         int       `yaml:"frames"`
	PreviousFrames int       `yaml:"previous_frames"`
	Width          int       `yaml:"width"`
	Height         int       `yaml:"height"`
	LastFrameOnly  bool      `yaml:"last_frame_only,omitempty"`
	Interrupted    bool      `yaml:"interrupted"`
	Started        time.Time `yaml:"started"`
	Finished       time.Time `yaml:"finished"`
}

// Frames writes a PNG sequence to <dir>/<scene>/frame_00000.png. In last-frame mode only
// the final artifact is kept and saved as <dir>/<scene>/<scene>.png.
type Frames struct {
	interruptFlag
	log           zerolog.Logger
	dir           string
	scene         string
	lastFrameOnly bool
	progress      bool
	every         int

	manifest Manifest
	last     *image.RGBA
	finished bool
}

type FramesOption func(*Frames)

func WithFramesLogger(l zerolog.Logger) FramesOption { return func(f *Frames) { f.log = l } }

// WithLastFrameOnly keeps only the final artifact.
func WithLastFrameOnly(v bool) FramesOption { return func(f *Frames) { f.lastFrameOnly = v } }

// WithProgress makes the sink log every n frames and report a progress display.
func WithProgress(n int) FramesOption {
	return func(f *Frames) {
		f.progress = n > 0
		f.every = n
	}
}

func NewFrames(dir, scene string, opts ...FramesOption) (*Frames, error) {
	f := &Frames{
		log:   zerolog.Nop(),
		dir:   filepath.Join(dir, scene),
		scene: scene,
	}
	for _, o := range opts {
		o(f)
	}
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return nil, fmt.Errorf("sink: frames dir: %w", err)
	}
	f.manifest = Manifest{Scene: scene, LastFrameOnly: f.lastFrameOnly, Started: time.Now()}
	return f, nil
}

// FramesFactory adapts NewFrames to a Factory.
func FramesFactory(dir string, opts ...FramesOption) Factory {
	return func(scene string) (Sink, error) { return NewFrames(dir, scene, opts...) }
}

// Dir is where this sink writes.
func (f *Frames) Dir() string { return f.dir }

func (f *Frames) HasProgressDisplay() bool { return f.progress }

func (f *Frames) Write(a render.Artifact) error {
	if f.finished {
		return ErrFinished
	}
	if a.Image == nil {
		return fmt.Errorf("sink: frame %d has no image", a.Frame)
	}
	n := f.manifest.Frames
	f.manifest.Frames++
	if a.Previous {
		f.manifest.PreviousFrames++
	}
	b := a.Image.Bounds()
	f.manifest.Width, f.manifest.Height = b.Dx(), b.Dy()

	if f.lastFrameOnly {
		f.last = a.Image
		return nil
	}
	if err := writePNG(filepath.Join(f.dir, fmt.Sprintf("frame_%05d.png", n)), a.Image); err != nil {
		return err
	}
	if f.progress && f.manifest.Frames%f.every == 0 {
		f.log.Info().Str("scene", f.scene).Int("frames", f.manifest.Frames).Msg("writing frames")
	}
	return nil
}

// Finish saves the last frame (in last-frame mode) and the manifest.
func (f *Frames) Finish() error {
	if f.finished {
		return ErrFinished
	}
	f.finished = true
	if f.lastFrameOnly && f.last != nil {
		if err := writePNG(filepath.Join(f.dir, f.scene+".png"), f.last); err != nil {
			return err
		}
	}
	f.manifest.Interrupted = f.EndedWithInterrupt()
	f.manifest.Finished = time.Now()

	b, err := yaml.Marshal(&f.manifest)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(f.dir, "manifest.yaml"), b, 0o644); err != nil {
		return fmt.Errorf("sink: manifest: %w", err)
	}
	f.log.Info().
		Str("scene", f.scene).
		Int("frames", f.manifest.Frames).
		Bool("interrupted", f.manifest.Interrupted).
		Str("dir", f.dir).
		Msg("frames written")
	return nil
}

func (f *Frames) Manifest() Manifest { return f.manifest }

// ReadManifest loads the manifest of a finished render.
func ReadManifest(dir string) (*Manifest, error) {
	b, err := os.ReadFile(filepath.Join(dir, "manifest.yaml"))
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func writePNG(path string, img image.Image) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("sink: %w", err)
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		return fmt.Errorf("sink: encode %s: %w", filepath.Base(path), err)
	}
	return out.Close()
}
