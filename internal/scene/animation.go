package scene

import "github.com/lucasb-eyer/go-colorful"

// Animation is anything with a run time that can be advanced to time t.
type Animation interface {
	RunTime() float64
	Update(t, dt float64)
}

// Optional capabilities, discovered by type assertion in Base.
type (
	Beginner interface{ Begin() }
	Finisher interface{ Finish() }
	Targeter interface{ Target() *Object }
)

// Tween interpolates one property of one object over its run time.
type Tween struct {
	target  *Object
	runTime float64
	rate    RateFunc
	begin   func()
	apply   func(alpha float64)
}

func (a *Tween) RunTime() float64 { return a.runTime }
func (a *Tween) Target() *Object  { return a.target }

// WithRate replaces the default Smooth rate.
func (a *Tween) WithRate(r RateFunc) *Tween {
	if r != nil {
		a.rate = r
	}
	return a
}

func (a *Tween) Begin() {
	if a.begin != nil {
		a.begin()
	}
}

func (a *Tween) Update(t, _ float64) {
	alpha := 1.0
	if a.runTime > 0 {
		alpha = clamp01(t / a.runTime)
	}
	a.apply(a.rate(alpha))
}

// Finish lands on the end state; the last sampled t is always short of the run time.
func (a *Tween) Finish() { a.apply(a.rate(1)) }

func newTween(o *Object, runTime float64) *Tween {
	return &Tween{target: o, runTime: runTime, rate: Smooth}
}

// Move slides o to a world position.
func Move(o *Object, to Point, runTime float64) *Tween {
	a := newTween(o, runTime)
	var from Point
	a.begin = func() { from = o.Pos }
	a.apply = func(x float64) { o.Pos = from.Lerp(to, x) }
	return a
}

// FadeTo animates opacity.
func FadeTo(o *Object, opacity, runTime float64) *Tween {
	a := newTween(o, runTime)
	var from float64
	a.begin = func() { from = o.Opacity }
	a.apply = func(x float64) { o.Opacity = from + (opacity-from)*x }
	return a
}

// ColorTo blends the fill colour in HCL space.
func ColorTo(o *Object, c colorful.Color, runTime float64) *Tween {
	a := newTween(o, runTime)
	var from colorful.Color
	a.begin = func() { from = o.Color }
	a.apply = func(x float64) { o.Color = from.BlendHcl(c, x).Clamped() }
	return a
}

// ScaleTo animates the object's size.
func ScaleTo(o *Object, size Point, runTime float64) *Tween {
	a := newTween(o, runTime)
	var from Point
	a.begin = func() { from = o.Size }
	a.apply = func(x float64) { o.Size = from.Lerp(size, x) }
	return a
}

// Keyframes drives a property from an envelope over env.Duration() seconds.
func Keyframes(o *Object, env Envelope, set func(o *Object, v float64)) *Tween {
	a := newTween(o, env.Duration())
	a.rate = RateByName("linear")
	a.apply = func(x float64) { set(o, env.Eval(x*a.runTime)) }
	return a
}

// Group runs animations side by side; its run time is the longest child's.
type Group struct {
	anims []Animation
}

func NewGroup(anims ...Animation) *Group { return &Group{anims: anims} }

func (g *Group) Children() []Animation { return g.anims }

func (g *Group) RunTime() float64 {
	var rt float64
	for _, a := range g.anims {
		rt = max(rt, a.RunTime())
	}
	return rt
}

func (g *Group) Update(t, dt float64) {
	for _, a := range g.anims {
		a.Update(min(t, a.RunTime()), dt)
	}
}

func (g *Group) Begin() {
	for _, a := range g.anims {
		if b, ok := a.(Beginner); ok {
			b.Begin()
		}
	}
}

func (g *Group) Finish() {
	for _, a := range g.anims {
		if f, ok := a.(Finisher); ok {
			f.Finish()
		}
	}
}

// Idle changes nothing; playing it lets updaters run for d seconds.
type Idle float64

func (d Idle) RunTime() float64  { return float64(d) }
func (Idle) Update(_, _ float64) {}
