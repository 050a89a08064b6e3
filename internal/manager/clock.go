package manager

import "time"

// Clock provides wall-clock time to the pacer. Tests swap in a deterministic one.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// DefaultClock returns the clock backed by the time package.
func DefaultClock() Clock { return realClock{} }
