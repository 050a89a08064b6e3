package render

import (
	"math"

	"github.com/coreman2200/arcaluminis-render/internal/scene"
)

// paintRows draws the background and every object into rows [y0,y1) of fb.
// Objects are drawn in slice order, so callers pass them back-to-front.
func paintRows(fb *Framebuffer, cam scene.Camera, objs []scene.ObjectState, y0, y1 int) {
	fb.fillRows(y0, y1, fromColorful(cam.Background))
	for i := range objs {
		drawObject(fb, cam, &objs[i], y0, y1)
	}
}

func drawObject(fb *Framebuffer, cam scene.Camera, o *scene.ObjectState, y0, y1 int) {
	alpha := float32(math.Min(o.Opacity, 1))
	if alpha <= 0 {
		return
	}
	s := cam.PixelsPerUnit(fb.W)
	cx, cy := cam.ToPixel(o.Pos, fb.W, fb.H)
	hw, hh := math.Abs(o.Size.X)*s/2, math.Abs(o.Size.Y)*s/2
	if o.Shape == scene.ShapeCircle {
		hh = hw
	}

	top := max(y0, int(math.Floor(cy-hh)))
	bottom := min(y1, int(math.Ceil(cy+hh)))
	left := max(0, int(math.Floor(cx-hw)))
	right := min(fb.W, int(math.Ceil(cx+hw)))
	c := fromColorful(o.Color)

	for y := top; y < bottom; y++ {
		dy := float64(y) + 0.5 - cy
		row := fb.Row(y)
		for x := left; x < right; x++ {
			cov := coverage(o.Shape, float64(x)+0.5-cx, dy, hw, hh)
			if cov > 0 {
				blend(&row[x], c, alpha*cov)
			}
		}
	}
}

// coverage approximates the fraction of the pixel centred at (dx,dy) inside the shape,
// with a one pixel soft edge.
func coverage(sh scene.Shape, dx, dy, hw, hh float64) float32 {
	switch sh {
	case scene.ShapeCircle:
		return edge(hw - math.Hypot(dx, dy))
	default:
		return edge(hw-math.Abs(dx)) * edge(hh-math.Abs(dy))
	}
}

func edge(d float64) float32 {
	return float32(math.Max(0, math.Min(1, d+0.5)))
}
