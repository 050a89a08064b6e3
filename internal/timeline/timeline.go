// Package timeline produces the sample times a playback steps through.
package timeline

import (
	"iter"
	"math"
)

const epsilon = 1e-9

// Count is the number of samples Progression(d, fps) yields: ceil(d*fps), 0 for d <= 0.
func Count(d, fps float64) int {
	if fps <= 0 {
		panic("timeline: frame rate must be positive")
	}
	if d <= 0 {
		return 0
	}
	step := 1 / fps
	// d*fps landing a hair above an integer must not add a sample
	n := int(math.Ceil(d*fps - epsilon))
	for n > 1 && float64(n-1)*step >= d {
		n--
	}
	return max(n, 1)
}

// Progression yields 0, 1/fps, 2/fps, ... strictly below d.
// Each sample is computed from its index, so the sequence is lazy and can be ranged over
// any number of times. fps <= 0 is a configuration error and panics.
func Progression(d, fps float64) iter.Seq[float64] {
	n := Count(d, fps)
	step := 1 / fps
	return func(yield func(float64) bool) {
		for i := 0; i < n; i++ {
			if !yield(float64(i) * step) {
				return
			}
		}
	}
}
