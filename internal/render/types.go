package render

import "github.com/lucasb-eyer/go-colorful"

// Color is a linear float pixel. Values above 1 are allowed until post.
type Color struct{ R, G, B float32 }

func fromColorful(c colorful.Color) Color {
	return Color{R: float32(c.R), G: float32(c.G), B: float32(c.B)}
}

// Framebuffer is a row-major float raster.
type Framebuffer struct {
	W, H int
	Pix  []Color
}

func NewFramebuffer(w, h int) *Framebuffer {
	return &Framebuffer{W: w, H: h, Pix: make([]Color, w*h)}
}

// Row returns the pixels of row y.
func (f *Framebuffer) Row(y int) []Color { return f.Pix[y*f.W : (y+1)*f.W] }

func (f *Framebuffer) fillRows(y0, y1 int, c Color) {
	px := f.Pix[y0*f.W : y1*f.W]
	for i := range px {
		px[i] = c
	}
}

// blend mixes c over dst with coverage a (0..1).
func blend(dst *Color, c Color, a float32) {
	if a >= 1 {
		*dst = c
		return
	}
	ia := 1 - a
	dst.R = dst.R*ia + c.R*a
	dst.G = dst.G*ia + c.G*a
	dst.B = dst.B*ia + c.B*a
}
