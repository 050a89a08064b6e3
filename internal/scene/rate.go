package scene

import "github.com/fogleman/ease"

// RateFunc maps linear progress in [0,1] onto eased progress.
type RateFunc func(float64) float64

// Smooth is the classic smoothstep 3x^2 - 2x^3, the default rate of every Tween.
func Smooth(x float64) float64 { return x * x * (3 - 2*x) }

// Smoother is 6x^5 - 15x^4 + 10x^3.
func Smoother(x float64) float64 { return x * x * x * (x*(x*6-15) + 10) }

var rates = map[string]RateFunc{
	"linear":      ease.Linear,
	"":            ease.Linear,
	"smooth":      Smooth,
	"cubic":       Smoother,
	"in-quad":     ease.InQuad,
	"out-quad":    ease.OutQuad,
	"in-out-quad": ease.InOutQuad,
	"in-cubic":    ease.InCubic,
	"out-cubic":   ease.OutCubic,
	"in-out-sine": ease.InOutSine,
	"out-bounce":  ease.OutBounce,
	"out-back":    ease.OutBack,
}

// RateByName resolves an easing name; unknown names are linear.
func RateByName(name string) RateFunc {
	if r, ok := rates[name]; ok {
		return r
	}
	return ease.Linear
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
