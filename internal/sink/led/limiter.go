package led

import (
	"math"

	"github.com/coreman2200/arcaluminis-render/internal/render"
)

// Limiter keeps a frame within a per-LED white cap and a global current budget.
//
// WhiteCap caps R+G+B per LED in linear units (3 = no cap). ChanMA is the current of one
// channel at full scale (WS2812 is about 20 mA). BudgetMA of 0 disables the budget stage.
// Draw above Knee*BudgetMA is compressed smoothly so the total stays under the budget.
type Limiter struct {
	WhiteCap float64
	ChanMA   float64
	BudgetMA float64
	Knee     float64
}

func (l Limiter) withDefaults() Limiter {
	if l.WhiteCap <= 0 {
		l.WhiteCap = 3
	}
	if l.ChanMA <= 0 {
		l.ChanMA = 20
	}
	if l.Knee <= 0 || l.Knee >= 1 {
		l.Knee = 0.9
	}
	return l
}

// Apply limits buf in place.
func (l Limiter) Apply(buf []render.Color) {
	l = l.withDefaults()

	wc := float32(l.WhiteCap)
	for i := range buf {
		s := buf[i].R + buf[i].G + buf[i].B
		if s > wc && s > 0 {
			scale(buf[i:i+1], wc/s)
		}
	}

	if l.BudgetMA <= 0 {
		return
	}
	total := Current(buf, l.ChanMA)
	if total <= 0 {
		return
	}
	knee := l.Knee * l.BudgetMA
	if total <= knee {
		return
	}
	// compress the draw above the knee so it approaches, never passes, the budget
	span := l.BudgetMA - knee
	out := knee + span*(1-math.Exp(-(total-knee)/span))
	scale(buf, float32(out/total))
}

// Current estimates the draw of buf in mA.
func Current(buf []render.Color, chanMA float64) float64 {
	var total float64
	for _, c := range buf {
		total += float64(c.R+c.G+c.B) * chanMA
	}
	return total
}

func scale(buf []render.Color, s float32) {
	if s >= 1 {
		return
	}
	for i := range buf {
		buf[i].R *= s
		buf[i].G *= s
		buf[i].B *= s
	}
}
