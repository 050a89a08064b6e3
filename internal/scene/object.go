package scene

import "github.com/lucasb-eyer/go-colorful"

type Point struct{ X, Y float64 }

func (p Point) Add(q Point) Point             { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point             { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Scale(s float64) Point         { return Point{p.X * s, p.Y * s} }
func (p Point) Lerp(q Point, a float64) Point { return p.Add(q.Sub(p).Scale(a)) }

type Shape int

const (
	ShapeCircle Shape = iota
	ShapeRect
)

// ObjectState is the resolved look of one object at one instant. It holds no pointers,
// so copies are independent.
type ObjectState struct {
	ID      int
	Shape   Shape
	Pos     Point // centre, world units
	Size    Point // full width/height; circles use Size.X as diameter
	Color   colorful.Color
	Opacity float64
	Z       int
}

// Updater mutates an object once per frame. dt is zero for re-rendered frames.
type Updater func(o *Object, dt float64)

// Object is a mutable scene object.
type Object struct {
	ObjectState
	updaters []Updater
}

func NewCircle(pos Point, diameter float64, c colorful.Color) *Object {
	return &Object{ObjectState: ObjectState{Shape: ShapeCircle, Pos: pos, Size: Point{diameter, diameter}, Color: c, Opacity: 1}}
}

func NewRect(pos, size Point, c colorful.Color) *Object {
	return &Object{ObjectState: ObjectState{Shape: ShapeRect, Pos: pos, Size: size, Color: c, Opacity: 1}}
}

// AddUpdater makes o time-dependent.
func (o *Object) AddUpdater(u Updater) *Object {
	o.updaters = append(o.updaters, u)
	return o
}

func (o *Object) ClearUpdaters() { o.updaters = nil }

func (o *Object) HasUpdaters() bool { return len(o.updaters) > 0 }

func (o *Object) update(dt float64) {
	for _, u := range o.updaters {
		u(o, dt)
	}
}
