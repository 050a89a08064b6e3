package manager

import (
	"time"

	"github.com/rs/zerolog"
)

// stats counts frames for the log. While interacting it reports the frame rate every
// interval.
type stats struct {
	log      zerolog.Logger
	interval time.Duration

	frames   int // every artifact produced
	recorded int // artifacts written to the sink
	catchUp  int // zero-dt pacing frames
	previous int // re-emitted previous frames

	windowFrames int
	windowStart  time.Time
}

func (s *stats) frame(now time.Time) {
	s.frames++
	if s.interval <= 0 || s.windowStart.IsZero() {
		return
	}
	s.windowFrames++
	if elapsed := now.Sub(s.windowStart); elapsed >= s.interval {
		s.log.Debug().
			Float64("fps", float64(s.windowFrames)/elapsed.Seconds()).
			Int("frames", s.frames).
			Int("catch_up", s.catchUp).
			Msg("interactive")
		s.windowFrames = 0
		s.windowStart = now
	}
}

// startWindow begins periodic fps reporting.
func (s *stats) startWindow(now time.Time) {
	s.windowFrames = 0
	s.windowStart = now
}

func (s *stats) summary(e *zerolog.Event) *zerolog.Event {
	return e.
		Int("frames", s.frames).
		Int("recorded", s.recorded).
		Int("catch_up", s.catchUp).
		Int("previous", s.previous)
}
