package manager

import (
	"context"
	"image"
	"time"

	"github.com/coreman2200/arcaluminis-render/internal/config"
	"github.com/coreman2200/arcaluminis-render/internal/render"
	"github.com/coreman2200/arcaluminis-render/internal/scene"
)

type sample struct{ t, dt float64 }

// fakeScene records every hook the manager calls.
type fakeScene struct {
	construct func(ctx context.Context, p scene.Player) error

	setups, tearDowns   int
	prePlays, postPlays int
	begins, finishes    int
	refreshes           int
	objectUpdates       []float64
	animationUpdates    []sample
	shouldUpdate, skip  bool
	skipSet             []bool
	showProgress        *bool
}

func (s *fakeScene) Construct(ctx context.Context, p scene.Player) error {
	if s.construct == nil {
		return nil
	}
	return s.construct(ctx, p)
}

func (s *fakeScene) Setup()                   { s.setups++ }
func (s *fakeScene) TearDown()                { s.tearDowns++ }
func (s *fakeScene) State() scene.State       { return scene.State{} }
func (s *fakeScene) Camera() scene.Camera     { return scene.DefaultCamera(8, 4) }
func (s *fakeScene) DefaultName() string      { return "FakeScene" }
func (s *fakeScene) UpdateObjects(dt float64) { s.objectUpdates = append(s.objectUpdates, dt) }
func (s *fakeScene) UpdateAnimations(anims []scene.Animation, t, dt float64) {
	s.animationUpdates = append(s.animationUpdates, sample{t, dt})
}
func (s *fakeScene) PrePlay()                                 { s.prePlays++ }
func (s *fakeScene) PostPlay()                                { s.postPlays++ }
func (s *fakeScene) BeginAnimations(anims []scene.Animation)  { s.begins++ }
func (s *fakeScene) FinishAnimations(anims []scene.Animation) { s.finishes++ }
func (s *fakeScene) ShouldUpdateObjects() bool                { return s.shouldUpdate }
func (s *fakeScene) SkipAnimations() bool                     { return s.skip }
func (s *fakeScene) SetSkipAnimations(v bool) {
	s.skip = v
	s.skipSet = append(s.skipSet, v)
}
func (s *fakeScene) RefreshStaticObjects()  { s.refreshes++ }
func (s *fakeScene) SetShowProgress(v bool) { s.showProgress = &v }

type fakeAnim float64

func (a fakeAnim) RunTime() float64  { return float64(a) }
func (fakeAnim) Update(_, _ float64) {}

// fakeBackend renders 1x1 images and counts calls.
type fakeBackend struct {
	renders, previous int
	bound             render.Surface
	closed            bool
	err               error
}

func (b *fakeBackend) Kind() config.RendererKind { return config.RendererRaster }

func (b *fakeBackend) Render(scene.Camera, []scene.ObjectState) (render.Artifact, error) {
	if b.err != nil {
		return render.Artifact{}, b.err
	}
	b.renders++
	return render.Artifact{Frame: uint64(b.renders + b.previous), Image: image.NewRGBA(image.Rect(0, 0, 1, 1))}, nil
}

func (b *fakeBackend) RenderPrevious(scene.Camera) (render.Artifact, error) {
	b.previous++
	return render.Artifact{Frame: uint64(b.renders + b.previous), Image: image.NewRGBA(image.Rect(0, 0, 1, 1)), Previous: true}, nil
}

func (b *fakeBackend) BindWindow(s render.Surface) { b.bound = s }
func (b *fakeBackend) Close() error                { b.closed = true; return nil }

// fakeWindow starts closing after closeAfter IsClosing checks have returned false.
type fakeWindow struct {
	closeAfter int
	checks     int
	clears     int
	swaps      int
	closes     int
}

func (w *fakeWindow) IsClosing() bool {
	w.checks++
	return w.checks > w.closeAfter
}
func (w *fakeWindow) Clear()                            { w.clears++ }
func (w *fakeWindow) SwapBuffers(render.Artifact) error { w.swaps++; return nil }
func (w *fakeWindow) Close() error                      { w.closes++; return nil }
func (w *fakeWindow) Size() (int, int)                  { return 8, 4 }

// stepClock moves forward by step on every reading.
type stepClock struct {
	now  time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	c.now = c.now.Add(c.step)
	return c.now
}
