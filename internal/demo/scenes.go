package demo

import (
	"context"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/coreman2200/arcaluminis-render/internal/scene"
)

func hex(s string) colorful.Color {
	c, _ := colorful.Hex(s)
	return c
}

// Shapes slides, recolours and fades a square and a dot, then holds still.
type Shapes struct {
	*scene.Base
}

func NewShapes(cam scene.Camera) *Shapes { return &Shapes{Base: scene.NewBase("Shapes", cam)} }

func (s *Shapes) Construct(ctx context.Context, p scene.Player) error {
	sq := scene.NewRect(scene.Point{X: -4}, scene.Point{X: 2, Y: 2}, hex("#e07a5f"))
	dot := scene.NewCircle(scene.Point{X: 4}, 1.5, hex("#81b29a"))
	dot.Z = 1
	s.Add(sq, dot)

	if err := p.Play(ctx,
		scene.Move(sq, scene.Point{X: 0, Y: 1}, 1.5),
		scene.Move(dot, scene.Point{X: 0, Y: -1}, 1),
	); err != nil {
		return err
	}
	if err := p.Play(ctx,
		scene.ColorTo(sq, hex("#3d405b"), 1),
		scene.ScaleTo(dot, scene.Point{X: 3, Y: 3}, 1).WithRate(scene.RateByName("out-bounce")),
	); err != nil {
		return err
	}
	if err := p.Wait(ctx, 0.5, nil); err != nil {
		return err
	}
	return p.Play(ctx, scene.NewGroup(scene.FadeTo(sq, 0, 0.75), scene.FadeTo(dot, 0, 1)))
}

// Orbit spins a moon around a planet with an updater, so waits advance frame by frame.
type Orbit struct {
	*scene.Base
	// Radius is the moon's orbit in world units.
	Radius float64
	// Period is one revolution in seconds.
	Period float64
}

func NewOrbit(cam scene.Camera) *Orbit {
	return &Orbit{Base: scene.NewBase("Orbit", cam), Radius: 3, Period: 2}
}

func (s *Orbit) Construct(ctx context.Context, p scene.Player) error {
	planet := scene.NewCircle(scene.Point{}, 2, hex("#f2cc8f"))
	moon := scene.NewCircle(scene.Point{X: s.Radius}, 0.6, hex("#bde0fe"))
	moon.Z = 1
	angle := 0.0
	moon.AddUpdater(func(o *scene.Object, dt float64) {
		angle += 2 * math.Pi * dt / s.Period
		o.Pos = planet.Pos.Add(scene.Point{X: math.Cos(angle), Y: math.Sin(angle)}.Scale(s.Radius))
	})
	s.Add(planet, moon)

	if err := p.Wait(ctx, s.Period, nil); err != nil {
		return err
	}
	// the moon keeps orbiting while the planet drifts
	if err := p.Play(ctx, scene.Move(planet, scene.Point{X: 2}, 1)); err != nil {
		return err
	}
	return p.Wait(ctx, s.Period, func() bool { return angle >= 4*math.Pi })
}

// Pulse breathes a bar's opacity and width from keyframe envelopes.
type Pulse struct {
	*scene.Base
	Brightness scene.Envelope
	Width      scene.Envelope
}

func NewPulse(cam scene.Camera) *Pulse {
	s := &Pulse{Base: scene.NewBase("Pulse", cam)}
	s.Brightness = scene.Envelope{Keys: []scene.Keyframe{
		{T: 0, V: 0.1, Ease: "in-out-sine"},
		{T: 1, V: 1, Ease: "in-out-sine"},
		{T: 2, V: 0.1},
	}}
	s.Width = scene.Envelope{Keys: []scene.Keyframe{
		{T: 0, V: 2, Ease: "out-back"},
		{T: 2, V: 10},
	}}
	return s
}

func (s *Pulse) Construct(ctx context.Context, p scene.Player) error {
	bar := scene.NewRect(scene.Point{}, scene.Point{X: 2, Y: 1}, hex("#ffb703"))
	s.Add(bar)
	for i := 0; i < 2; i++ {
		if err := p.Play(ctx, scene.NewGroup(
			scene.Keyframes(bar, s.Brightness, func(o *scene.Object, v float64) { o.Opacity = v }),
			scene.Keyframes(bar, s.Width, func(o *scene.Object, v float64) { o.Size.X = v }),
		)); err != nil {
			return err
		}
	}
	return nil
}
