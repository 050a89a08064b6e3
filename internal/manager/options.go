package manager

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/arcaluminis-render/internal/config"
	"github.com/coreman2200/arcaluminis-render/internal/render"
	"github.com/coreman2200/arcaluminis-render/internal/sink"
	"github.com/coreman2200/arcaluminis-render/internal/window"
)

// Option configures a Manager before setup.
type Option func(*Manager)

// BackendFactory selects the render backend for a kind.
type BackendFactory func(kind config.RendererKind) (render.Backend, error)

// WindowFactory opens the live window in preview mode.
type WindowFactory func() (window.Window, error)

// WithWindow supplies an already open window. It is only bound in preview mode.
func WithWindow(w window.Window) Option { return func(m *Manager) { m.window = w } }

func WithWindowFactory(f WindowFactory) Option { return func(m *Manager) { m.newWindow = f } }

// WithSinkFactory sets where frames go. The default discards them.
func WithSinkFactory(f sink.Factory) Option { return func(m *Manager) { m.newSink = f } }

// WithBackendFactory replaces render.New.
func WithBackendFactory(f BackendFactory) Option { return func(m *Manager) { m.newBackend = f } }

// WithBackendOptions passes options to render.New.
func WithBackendOptions(opts ...render.Option) Option {
	return func(m *Manager) { m.backendOpts = append(m.backendOpts, opts...) }
}

func WithClock(c Clock) Option { return func(m *Manager) { m.clock = c } }

func WithLogger(l zerolog.Logger) Option { return func(m *Manager) { m.log = l } }

// WithStatsInterval sets how often frame rate is logged while interacting; 0 disables it.
func WithStatsInterval(d time.Duration) Option { return func(m *Manager) { m.stats.interval = d } }
