// Package manager drives a scene through time: it plays animations frame by frame, hands
// each snapshot to the render backend, writes the artifacts to a sink and, with a live
// window, paces playback against the wall clock.
package manager

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/arcaluminis-render/internal/config"
	"github.com/coreman2200/arcaluminis-render/internal/render"
	"github.com/coreman2200/arcaluminis-render/internal/scene"
	"github.com/coreman2200/arcaluminis-render/internal/sink"
	"github.com/coreman2200/arcaluminis-render/internal/window"
)

var (
	ErrNoAnimations    = errors.New("manager: play called with no animations")
	ErrAlreadyRendered = errors.New("manager: render already ran")
)

// Manager owns one render of one scene. It is not safe for concurrent use.
type Manager struct {
	scene scene.Scene
	cfg   config.Config
	log   zerolog.Logger
	clock Clock
	phase Phase

	window  window.Window
	backend render.Backend
	sink    sink.Sink

	newWindow   WindowFactory
	newSink     sink.Factory
	newBackend  BackendFactory
	backendOpts []render.Option

	// virtual time, and the real/virtual pair the pacer measures from
	time          float64
	realAnchor    time.Time
	virtualAnchor float64

	stats    stats
	rendered bool
}

// New validates cfg and sets up the window (in preview mode), the backend and the sink.
func New(sc scene.Scene, cfg config.Config, opts ...Option) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &Manager{
		scene:   sc,
		cfg:     cfg,
		log:     zerolog.Nop(),
		clock:   DefaultClock(),
		newSink: discardSink,
		stats:   stats{interval: 5 * time.Second},
	}
	for _, o := range opts {
		o(m)
	}
	if m.newBackend == nil {
		m.newBackend = func(k config.RendererKind) (render.Backend, error) {
			return render.New(k, m.backendOpts...)
		}
	}
	m.log = m.log.With().Str("scene", sc.DefaultName()).Logger()
	m.stats.log = m.log

	if err := m.setUp(); err != nil {
		return nil, err
	}
	return m, nil
}

func discardSink(string) (sink.Sink, error) { return &sink.Nop{}, nil }

func (m *Manager) setUp() error {
	if !m.cfg.Preview {
		m.window = nil
	} else if m.window == nil {
		if m.newWindow == nil {
			return &config.ConfigurationError{Field: "preview", Value: true, Reason: "no window available"}
		}
		w, err := m.newWindow()
		if err != nil {
			return fmt.Errorf("manager: open window: %w", err)
		}
		m.window = w
	}

	b, err := m.newBackend(m.cfg.Renderer)
	if err != nil {
		m.closeWindow()
		return err
	}
	m.backend = b
	if s, ok := m.window.(render.Surface); ok {
		b.BindWindow(s)
	}

	sk, err := m.newSink(m.scene.DefaultName())
	if err != nil {
		m.backend.Close()
		m.closeWindow()
		return fmt.Errorf("manager: open sink: %w", err)
	}
	m.sink = sk
	m.phase = PhaseSetUp
	m.log.Debug().
		Str("kind", b.Kind().String()).
		Bool("preview", m.window != nil).
		Float64("fps", m.cfg.FrameRate).
		Msg("manager set up")
	return nil
}

// Phase reports the lifecycle phase.
func (m *Manager) Phase() Phase { return m.phase }

// Time is the virtual time in seconds.
func (m *Manager) Time() float64 { return m.time }

// Render runs the scene once: setup, construct, the interactive loop when a window is
// bound, then teardown. An interrupt (ctx cancelled) and an early stop both end the
// render normally; the interrupt is recorded on the sink.
func (m *Manager) Render(ctx context.Context) error {
	if m.rendered {
		return ErrAlreadyRendered
	}
	m.rendered = true

	if m.sink.HasProgressDisplay() {
		m.scene.SetShowProgress(false)
	}
	m.scene.Setup()
	m.anchor()
	m.phase = PhaseConstructing

	outcome, err := m.construct(ctx)
	if err == nil {
		m.log.Debug().Stringer("outcome", outcome).Float64("virtual_s", m.time).Msg("construct returned")
		switch outcome {
		case Interrupted:
			m.sink.SetEndedWithInterrupt(true)
			m.log.Warn().Msg("render interrupted")
		case Completed:
			err = m.interact()
		}
	}
	return errors.Join(err, m.tearDown())
}

func (m *Manager) construct(ctx context.Context) (ConstructOutcome, error) {
	m.phase = PhaseRendering
	err := m.scene.Construct(ctx, m)
	switch {
	case err == nil:
		return Completed, nil
	case errors.Is(err, scene.ErrEndEarly):
		return EarlyStop, nil
	case ctx.Err() != nil, errors.Is(err, context.Canceled):
		return Interrupted, nil
	}
	return Completed, fmt.Errorf("manager: construct: %w", err)
}

// interact advances at the nominal frame rate until the window is closed.
func (m *Manager) interact() error {
	if m.window == nil {
		return nil
	}
	m.phase = PhaseInteracting
	m.log.Info().Msg("interactive preview running; close the window to finish")
	m.scene.SetSkipAnimations(false)
	m.scene.RefreshStaticObjects()
	m.anchor()
	m.stats.startWindow(m.clock.Now())

	dt := 1 / m.cfg.FrameRate
	for !m.window.IsClosing() {
		if err := m.advanceFrame(dt, false); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) tearDown() error {
	var errs []error
	m.scene.TearDown()
	if m.cfg.SaveLastFrame {
		if err := m.advanceFrame(0, true); err != nil {
			errs = append(errs, err)
		}
	}
	if err := m.sink.Finish(); err != nil {
		errs = append(errs, fmt.Errorf("manager: finish sink: %w", err))
	}
	if err := m.closeWindow(); err != nil {
		errs = append(errs, fmt.Errorf("manager: close window: %w", err))
	}
	if err := m.backend.Close(); err != nil {
		errs = append(errs, fmt.Errorf("manager: close backend: %w", err))
	}
	m.phase = PhaseTornDown
	m.stats.summary(m.log.Info()).
		Float64("virtual_s", m.time).
		Bool("interrupted", m.sink.EndedWithInterrupt()).
		Msg("render finished")
	return errors.Join(errs...)
}

func (m *Manager) closeWindow() error {
	if m.window == nil {
		return nil
	}
	err := m.window.Close()
	m.window = nil
	return err
}

// anchor restarts pacing from now.
func (m *Manager) anchor() {
	m.realAnchor = m.clock.Now()
	m.virtualAnchor = m.time
}

// advanceFrame moves virtual time by dt, renders and, with a window, presents the frame
// and waits for the wall clock. Recorded frames also go to the sink.
func (m *Manager) advanceFrame(dt float64, record bool) error {
	if err := m.step(dt, record); err != nil {
		return err
	}
	if m.window == nil {
		return nil
	}
	// Busy catch-up: re-render with dt=0 until real time reaches virtual time.
	for m.clock.Now().Sub(m.realAnchor).Seconds() < m.time-m.virtualAnchor {
		if err := m.step(0, false); err != nil {
			return err
		}
		m.stats.catchUp++
	}
	return nil
}

func (m *Manager) step(dt float64, record bool) error {
	m.time += dt
	m.scene.UpdateObjects(dt)
	if m.window != nil {
		m.window.Clear()
	}
	state := m.scene.State()
	a, err := m.backend.Render(m.scene.Camera(), state.Objects)
	if err != nil {
		return fmt.Errorf("manager: render frame: %w", err)
	}
	return m.emit(a, record)
}

// emit sends an artifact to the sink (if recorded) and the window.
func (m *Manager) emit(a render.Artifact, record bool) error {
	if record {
		if err := m.sink.Write(a); err != nil {
			return fmt.Errorf("manager: write frame %d: %w", a.Frame, err)
		}
		m.stats.recorded++
	}
	if m.window != nil {
		if err := m.window.SwapBuffers(a); err != nil {
			return fmt.Errorf("manager: present frame %d: %w", a.Frame, err)
		}
	}
	m.stats.frame(m.clock.Now())
	return nil
}
