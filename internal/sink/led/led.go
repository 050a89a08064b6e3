// Package led mirrors rendered frames onto an addressable LED matrix over SPI.
package led

import (
	"fmt"
	"image"

	"github.com/rs/zerolog"
	"golang.org/x/image/draw"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/extra/devices/screen"
	"periph.io/x/host/v3"

	"github.com/coreman2200/arcaluminis-render/internal/config"
	"github.com/coreman2200/arcaluminis-render/internal/render"
)

// Sink downsamples each artifact to the matrix, limits it and draws it as one strip.
type Sink struct {
	drawer     display.Drawer
	matrix     Matrix
	brightness float32
	limiter    Limiter
	log        zerolog.Logger

	grid        *image.RGBA
	buf         []render.Color
	strip       *image.RGBA
	frames      int
	interrupted bool
}

type Option func(*Sink)

func WithLimiter(l Limiter) Option { return func(s *Sink) { s.limiter = l } }

func WithBrightness(b float64) Option { return func(s *Sink) { s.brightness = float32(b) } }

func WithLogger(l zerolog.Logger) Option { return func(s *Sink) { s.log = l } }

// New draws onto d, which must be at least m.Count() pixels wide.
func New(d display.Drawer, m Matrix, opts ...Option) (*Sink, error) {
	if m.Count() <= 0 {
		return nil, fmt.Errorf("led: empty matrix %dx%d", m.Columns, m.Rows)
	}
	s := &Sink{
		drawer:     d,
		matrix:     m,
		brightness: 1,
		log:        zerolog.Nop(),
		grid:       image.NewRGBA(image.Rect(0, 0, m.Columns, m.Rows)),
		buf:        make([]render.Color, m.Count()),
		strip:      image.NewRGBA(image.Rect(0, 0, m.Count(), 1)),
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Open initialises the host and the SPI strip named in c. Without a SPI port it falls
// back to drawing on the console.
func Open(c config.LED, log zerolog.Logger) (*Sink, error) {
	m := Matrix{Columns: c.Columns, Rows: c.Rows, Serpentine: c.Serpentine}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("led: host init: %w", err)
	}
	var d display.Drawer
	p, err := spireg.Open(c.SPIDev)
	if err != nil {
		log.Warn().Err(err).Msg("no SPI port, mirroring LEDs on the console")
		d = screen.New(m.Count())
	} else {
		dev, err := nrzled.NewSPI(p, &nrzled.Opts{
			NumPixels: m.Count(),
			Channels:  3,
			Freq:      2500 * physic.KiloHertz,
		})
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("led: nrzled: %w", err)
		}
		d = dev
	}
	return New(d, m,
		WithBrightness(c.Brightness),
		WithLimiter(Limiter{WhiteCap: c.WhiteCap, BudgetMA: c.BudgetMA}),
		WithLogger(log),
	)
}

func (*Sink) HasProgressDisplay() bool       { return false }
func (s *Sink) SetEndedWithInterrupt(v bool) { s.interrupted = v }
func (s *Sink) EndedWithInterrupt() bool     { return s.interrupted }

func (s *Sink) Write(a render.Artifact) error {
	if a.Image == nil {
		return nil
	}
	draw.ApproxBiLinear.Scale(s.grid, s.grid.Bounds(), a.Image, a.Image.Bounds(), draw.Src, nil)
	for y := 0; y < s.matrix.Rows; y++ {
		for x := 0; x < s.matrix.Columns; x++ {
			c := s.grid.RGBAAt(x, y)
			s.buf[y*s.matrix.Columns+x] = render.Color{
				R: float32(c.R) / 255 * s.brightness,
				G: float32(c.G) / 255 * s.brightness,
				B: float32(c.B) / 255 * s.brightness,
			}
		}
	}
	s.limiter.Apply(s.buf)
	for y := 0; y < s.matrix.Rows; y++ {
		for x := 0; x < s.matrix.Columns; x++ {
			c := s.buf[y*s.matrix.Columns+x]
			i := s.matrix.Index(x, y) * 4
			s.strip.Pix[i], s.strip.Pix[i+1], s.strip.Pix[i+2], s.strip.Pix[i+3] = to8(c.R), to8(c.G), to8(c.B), 0xff
		}
	}
	if err := s.drawer.Draw(s.drawer.Bounds(), s.strip, image.Point{}); err != nil {
		return fmt.Errorf("led: draw: %w", err)
	}
	s.frames++
	return nil
}

// Finish blanks the strip.
func (s *Sink) Finish() error {
	s.log.Debug().Int("frames", s.frames).Msg("led mirror finished")
	return s.drawer.Halt()
}

func to8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
