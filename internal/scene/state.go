package scene

import (
	"slices"

	"github.com/lucasb-eyer/go-colorful"
)

// State is an immutable snapshot of every object, in draw order (ascending Z, then
// insertion order).
type State struct {
	Objects []ObjectState
}

func snapshot(objs []*Object) State {
	out := make([]ObjectState, len(objs))
	for i, o := range objs {
		out[i] = o.ObjectState
	}
	slices.SortStableFunc(out, func(a, b ObjectState) int { return a.Z - b.Z })
	return State{Objects: out}
}

// Camera maps world units onto the output raster.
type Camera struct {
	Width, Height int
	Center        Point
	FrameWidth    float64 // world units visible across Width
	Background    colorful.Color
}

func DefaultCamera(w, h int) Camera {
	return Camera{Width: w, Height: h, FrameWidth: 14.2, Background: colorful.Color{}}
}

// PixelsPerUnit is the world->pixel scale for a raster w pixels wide.
func (c Camera) PixelsPerUnit(w int) float64 {
	if c.FrameWidth <= 0 {
		return 1
	}
	return float64(w) / c.FrameWidth
}

// ToPixel maps a world point onto a w x h raster (y up in world, down in pixels).
func (c Camera) ToPixel(p Point, w, h int) (float64, float64) {
	s := c.PixelsPerUnit(w)
	return float64(w)/2 + (p.X-c.Center.X)*s, float64(h)/2 - (p.Y-c.Center.Y)*s
}
