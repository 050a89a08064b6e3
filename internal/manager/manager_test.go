package manager

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/arcaluminis-render/internal/config"
	"github.com/coreman2200/arcaluminis-render/internal/render"
	"github.com/coreman2200/arcaluminis-render/internal/scene"
	"github.com/coreman2200/arcaluminis-render/internal/sink"
	"github.com/coreman2200/arcaluminis-render/internal/window"
)

type harness struct {
	m       *Manager
	scene   *fakeScene
	backend *fakeBackend
	sink    *sink.Nop
}

func testConfig() config.Config {
	c := config.Default()
	c.FrameRate = 10
	return c
}

func newHarness(t *testing.T, sc *fakeScene, cfg config.Config, opts ...Option) *harness {
	t.Helper()
	h := &harness{scene: sc, backend: &fakeBackend{}, sink: &sink.Nop{}}
	opts = append([]Option{
		WithBackendFactory(func(config.RendererKind) (render.Backend, error) { return h.backend, nil }),
		WithSinkFactory(func(string) (sink.Sink, error) { return h.sink, nil }),
		WithClock(&stepClock{now: time.Unix(0, 0), step: time.Hour}),
	}, opts...)
	m, err := New(sc, cfg, opts...)
	require.NoError(t, err)
	h.m = m
	return h
}

func playing(anims ...scene.Animation) func(context.Context, scene.Player) error {
	return func(ctx context.Context, p scene.Player) error { return p.Play(ctx, anims...) }
}

func TestPlayAdvancesVirtualTime(t *testing.T) {
	sc := &fakeScene{construct: playing(fakeAnim(1), fakeAnim(0.55))}
	h := newHarness(t, sc, testConfig())
	require.NoError(t, h.m.Render(context.Background()))

	require.Len(t, sc.animationUpdates, 10)
	var sum float64
	for i, s := range sc.animationUpdates {
		assert.InDelta(t, float64(i)/10, s.t, 1e-9)
		if i > 0 {
			assert.Greater(t, s.t, sc.animationUpdates[i-1].t)
		}
		sum += s.dt
	}
	assert.Equal(t, 0.0, sc.animationUpdates[0].dt)
	assert.InDelta(t, 0.9, sum, 1e-9, "dt sums to the last sample")
	assert.InDelta(t, 0.9, h.m.Time(), 1e-9)

	assert.Equal(t, 10, h.sink.Frames)
	assert.Equal(t, 10, h.backend.renders)
	assert.Equal(t, []int{1, 1, 1, 1}, []int{sc.prePlays, sc.begins, sc.finishes, sc.postPlays})
	assert.Equal(t, 1, sc.setups)
	assert.Equal(t, 1, sc.tearDowns)
	assert.True(t, h.sink.Finished)
	assert.True(t, h.backend.closed)
	assert.Equal(t, PhaseTornDown, h.m.Phase())
}

func TestPlayWithoutAnimationsIsFatal(t *testing.T) {
	sc := &fakeScene{construct: playing()}
	h := newHarness(t, sc, testConfig())
	err := h.m.Render(context.Background())
	assert.ErrorIs(t, err, ErrNoAnimations)
	assert.Equal(t, 1, sc.tearDowns, "teardown still runs")
	assert.Equal(t, 0, sc.prePlays)
	assert.False(t, h.sink.EndedWithInterrupt())
}

func TestInterruptEndsRenderNormally(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sc := &fakeScene{construct: func(ctx context.Context, p scene.Player) error {
		if err := p.Play(ctx, fakeAnim(0.3)); err != nil {
			return err
		}
		cancel()
		return p.Play(ctx, fakeAnim(0.3))
	}}
	h := newHarness(t, sc, testConfig())

	require.NoError(t, h.m.Render(ctx))
	assert.True(t, h.sink.EndedWithInterrupt())
	assert.Equal(t, 1, sc.tearDowns)
	assert.Equal(t, 3, h.sink.Frames, "output up to the interrupt is kept")
	assert.True(t, h.sink.Finished)
}

func TestInterruptWrappedByScene(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sc := &fakeScene{construct: func(ctx context.Context, p scene.Player) error {
		cancel()
		return fmt.Errorf("intro: %w", p.Wait(ctx, 1, nil))
	}}
	h := newHarness(t, sc, testConfig())
	require.NoError(t, h.m.Render(ctx))
	assert.True(t, h.sink.EndedWithInterrupt())
}

func TestEarlyStop(t *testing.T) {
	sc := &fakeScene{construct: func(context.Context, scene.Player) error { return scene.ErrEndEarly }}
	h := newHarness(t, sc, testConfig())

	require.NoError(t, h.m.Render(context.Background()))
	assert.Empty(t, sc.animationUpdates)
	assert.Equal(t, 0, h.backend.renders)
	assert.Equal(t, 1, sc.tearDowns)
	assert.True(t, h.sink.Finished)
	assert.False(t, h.sink.EndedWithInterrupt())
}

func TestEarlyStopSkipsInteraction(t *testing.T) {
	w := &fakeWindow{closeAfter: 5}
	cfg := testConfig()
	cfg.Preview = true
	sc := &fakeScene{construct: func(context.Context, scene.Player) error { return scene.ErrEndEarly }}
	h := newHarness(t, sc, cfg, WithWindow(w))

	require.NoError(t, h.m.Render(context.Background()))
	assert.Equal(t, 0, w.checks)
	assert.Equal(t, 1, w.closes)
}

func TestSaveLastFrame(t *testing.T) {
	cfg := testConfig()
	cfg.SaveLastFrame = true
	sc := &fakeScene{}
	h := newHarness(t, sc, cfg)

	require.NoError(t, h.m.Render(context.Background()))
	assert.Equal(t, 1, h.backend.renders)
	assert.Equal(t, []float64{0}, sc.objectUpdates)
	assert.Equal(t, 1, h.sink.Frames)
	assert.Equal(t, 0.0, h.m.Time())
}

func TestInteractiveLoopRunsUntilClose(t *testing.T) {
	w := &fakeWindow{closeAfter: 3}
	cfg := testConfig()
	cfg.Preview = true
	sc := &fakeScene{skip: true}
	h := newHarness(t, sc, cfg, WithWindow(w))

	require.NoError(t, h.m.Render(context.Background()))
	assert.Equal(t, []float64{0.1, 0.1, 0.1}, sc.objectUpdates)
	assert.Equal(t, 3, h.backend.renders)
	assert.Equal(t, 3, w.swaps)
	assert.Equal(t, 3, w.clears)
	assert.Equal(t, 4, w.checks)
	assert.Equal(t, 0, h.sink.Frames, "interactive frames are not recorded")
	assert.Equal(t, []bool{false}, sc.skipSet)
	assert.Equal(t, 1, sc.refreshes)
	assert.Equal(t, 1, w.closes)
	assert.Same(t, w, h.backend.bound)
}

func TestPacerCatchesUp(t *testing.T) {
	w := &fakeWindow{}
	cfg := testConfig()
	cfg.Preview = true
	sc := &fakeScene{construct: playing(fakeAnim(0.3))}
	h := newHarness(t, sc, cfg,
		WithWindow(w),
		WithClock(&stepClock{now: time.Unix(0, 0), step: 10 * time.Millisecond}),
	)

	require.NoError(t, h.m.Render(context.Background()))
	assert.Equal(t, 3, h.sink.Frames, "catch-up frames are presentation only")
	assert.Greater(t, h.backend.renders, 3)
	assert.Equal(t, h.backend.renders-3, h.m.stats.catchUp)
	assert.Equal(t, h.backend.renders, w.swaps)
	assert.Len(t, sc.objectUpdates, h.backend.renders)

	zeros := 0
	for _, dt := range sc.objectUpdates {
		if dt == 0 {
			zeros++
		}
	}
	assert.Equal(t, h.m.stats.catchUp+1, zeros, "first sample plus every catch-up frame")
	assert.InDelta(t, 0.2, h.m.Time(), 1e-9)
}

func TestNoPacingWithoutWindow(t *testing.T) {
	sc := &fakeScene{construct: playing(fakeAnim(0.3))}
	h := newHarness(t, sc, testConfig(),
		WithClock(&stepClock{now: time.Unix(0, 0)}),
	)
	require.NoError(t, h.m.Render(context.Background()))
	assert.Equal(t, 3, h.backend.renders)
	assert.Equal(t, 0, h.m.stats.catchUp)
}

func TestSkipAnimationsPresentsFinalFrame(t *testing.T) {
	w := &fakeWindow{}
	cfg := testConfig()
	cfg.Preview = true
	sc := &fakeScene{skip: true, construct: playing(fakeAnim(0.2))}
	h := newHarness(t, sc, cfg, WithWindow(w))

	require.NoError(t, h.m.Render(context.Background()))
	assert.Equal(t, []float64{0, 0.1, 0}, sc.objectUpdates)
	assert.Equal(t, 3, h.sink.Frames)
}

func TestWaitOnStaticSceneRendersPrevious(t *testing.T) {
	sc := &fakeScene{construct: func(ctx context.Context, p scene.Player) error {
		return p.Wait(ctx, 1, nil)
	}}
	h := newHarness(t, sc, testConfig())

	require.NoError(t, h.m.Render(context.Background()))
	assert.Equal(t, 10, h.backend.previous)
	assert.Equal(t, 0, h.backend.renders)
	assert.Empty(t, sc.objectUpdates)
	assert.Equal(t, 0.0, h.m.Time())
	assert.Equal(t, 10, h.sink.Frames)
	assert.Equal(t, 1, sc.postPlays)
}

func TestWaitStopCondition(t *testing.T) {
	sc := &fakeScene{shouldUpdate: true}
	sc.construct = func(ctx context.Context, p scene.Player) error {
		return p.Wait(ctx, 5, func() bool { return len(sc.objectUpdates) >= 3 })
	}
	h := newHarness(t, sc, testConfig())

	require.NoError(t, h.m.Render(context.Background()))
	assert.Len(t, sc.objectUpdates, 3)
	assert.InDelta(t, 0.2, h.m.Time(), 1e-9)
	assert.Equal(t, 1, sc.postPlays)
}

func TestWaitUntil(t *testing.T) {
	sc := &fakeScene{shouldUpdate: true}
	h := newHarness(t, sc, testConfig())
	calls := 0
	require.NoError(t, h.m.WaitUntil(context.Background(), func() bool { calls++; return false }, 0.5))
	assert.Equal(t, 5, calls)
	assert.Len(t, sc.objectUpdates, 5)
}

func TestBackendErrorIsFatalButTearsDown(t *testing.T) {
	boom := errors.New("gpu lost")
	w := &fakeWindow{closeAfter: 100}
	cfg := testConfig()
	cfg.Preview = true
	sc := &fakeScene{construct: playing(fakeAnim(1))}
	h := newHarness(t, sc, cfg, WithWindow(w))
	h.backend.err = boom

	err := h.m.Render(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, sc.tearDowns)
	assert.True(t, h.sink.Finished)
	assert.False(t, h.sink.EndedWithInterrupt())
	assert.Equal(t, 1, w.closes)
	assert.Equal(t, 0, w.checks, "no interaction after a failure")
}

func TestRenderOnlyOnce(t *testing.T) {
	h := newHarness(t, &fakeScene{}, testConfig())
	require.NoError(t, h.m.Render(context.Background()))
	assert.ErrorIs(t, h.m.Render(context.Background()), ErrAlreadyRendered)
}

type progressSink struct{ sink.Nop }

func (*progressSink) HasProgressDisplay() bool { return true }

func TestSinkProgressDisablesSceneProgress(t *testing.T) {
	sc := &fakeScene{}
	var name string
	h := newHarness(t, sc, testConfig(), WithSinkFactory(func(n string) (sink.Sink, error) {
		name = n
		return &progressSink{}, nil
	}))
	require.NoError(t, h.m.Render(context.Background()))
	assert.Equal(t, "FakeScene", name)
	require.NotNil(t, sc.showProgress)
	assert.False(t, *sc.showProgress)
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Renderer = config.RendererKind(9)
	_, err := New(&fakeScene{}, cfg)
	var cerr *config.ConfigurationError
	require.True(t, errors.As(err, &cerr), "got %v", err)
	assert.Equal(t, "renderer", cerr.Field)

	cfg = testConfig()
	cfg.FrameRate = 0
	_, err = New(&fakeScene{}, cfg)
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "frame_rate", cerr.Field)
}

func TestPreviewNeedsAWindow(t *testing.T) {
	cfg := testConfig()
	cfg.Preview = true
	_, err := New(&fakeScene{}, cfg)
	var cerr *config.ConfigurationError
	require.True(t, errors.As(err, &cerr), "got %v", err)
	assert.Equal(t, "preview", cerr.Field)

	boom := errors.New("no display")
	_, err = New(&fakeScene{}, cfg, WithWindowFactory(func() (window.Window, error) { return nil, boom }))
	assert.ErrorIs(t, err, boom)
}

func TestWindowIgnoredOutsidePreview(t *testing.T) {
	w := &fakeWindow{}
	sc := &fakeScene{construct: playing(fakeAnim(0.2))}
	h := newHarness(t, sc, testConfig(), WithWindow(w))
	require.NoError(t, h.m.Render(context.Background()))
	assert.Equal(t, 0, w.swaps)
	assert.Equal(t, 0, w.closes)
	assert.Nil(t, h.backend.bound)
}

func TestDefaultBackend(t *testing.T) {
	sc := &fakeScene{construct: playing(fakeAnim(0.2))}
	m, err := New(sc, testConfig())
	require.NoError(t, err)
	require.NoError(t, m.Render(context.Background()))
	assert.Len(t, sc.objectUpdates, 2)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "constructed", PhaseConstructed.String())
	assert.Equal(t, "interacting", PhaseInteracting.String())
	assert.Equal(t, "torn-down", PhaseTornDown.String())
	assert.Equal(t, "unknown", Phase(42).String())
	assert.Equal(t, "early-stop", EarlyStop.String())
}
