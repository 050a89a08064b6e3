package render

import (
	"image"
	"math"

	"github.com/coreman2200/arcaluminis-render/internal/config"
)

// Post is the per-pixel stage between the float framebuffer and the 8-bit artifact.
// The zero value (and gamma 1) is the identity.
type Post struct {
	ToneMap    bool
	ExposureEV float64
	Gamma      float64
}

func PostFromConfig(c config.Post) Post {
	return Post{ToneMap: c.ToneMap, ExposureEV: c.ExposureEV, Gamma: c.Gamma}
}

func (p Post) identity() bool {
	return !p.ToneMap && p.ExposureEV == 0 && (p.Gamma == 0 || p.Gamma == 1)
}

// Apply runs exposure, the filmic curve and gamma over buf in place.
func (p Post) Apply(buf []Color) {
	if p.identity() {
		return
	}
	exposure := float32(math.Pow(2, p.ExposureEV))
	ig := 1.0
	if p.Gamma > 0 {
		ig = 1 / p.Gamma
	}
	for i := range buf {
		c := &buf[i]
		r, g, b := c.R*exposure, c.G*exposure, c.B*exposure
		if p.ToneMap {
			r, g, b = acesApprox(r), acesApprox(g), acesApprox(b)
		}
		if ig != 1 {
			r, g, b = powf(r, ig), powf(g, ig), powf(b, ig)
		}
		c.R, c.G, c.B = clamp01(r), clamp01(g), clamp01(b)
	}
}

// resolveRows post-processes rows [y0,y1) and quantizes them into img.
func resolveRows(fb *Framebuffer, img *image.RGBA, p Post, y0, y1 int) {
	for y := y0; y < y1; y++ {
		row := fb.Row(y)
		p.Apply(row)
		out := img.Pix[y*img.Stride : y*img.Stride+fb.W*4]
		for x, c := range row {
			o := out[x*4 : x*4+4 : x*4+4]
			o[0], o[1], o[2], o[3] = to8(c.R), to8(c.G), to8(c.B), 0xff
		}
	}
}

func to8(v float32) uint8 { return uint8(clamp01(v)*255 + 0.5) }

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func powf(x float32, p float64) float32 {
	if x <= 0 {
		return 0
	}
	return float32(math.Pow(float64(x), p))
}

// Approximate ACES filmic curve (Narkowicz 2015).
func acesApprox(x float32) float32 {
	a := float32(2.51)
	b := float32(0.03)
	c := float32(2.43)
	d := float32(0.59)
	e := float32(0.14)
	return clamp01((x * (a*x + b)) / (x*(c*x+d) + e))
}
