package sink

import (
	"errors"
	"fmt"

	"github.com/coreman2200/arcaluminis-render/internal/render"
)

// Tee fans every call out to several sinks. Errors from all of them are joined.
type Tee struct {
	interruptFlag
	sinks []Sink
}

func NewTee(sinks ...Sink) *Tee { return &Tee{sinks: sinks} }

func (t *Tee) HasProgressDisplay() bool {
	for _, s := range t.sinks {
		if s.HasProgressDisplay() {
			return true
		}
	}
	return false
}

func (t *Tee) Write(a render.Artifact) error {
	var errs []error
	for i, s := range t.sinks {
		if err := s.Write(a); err != nil {
			errs = append(errs, fmt.Errorf("sink %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

func (t *Tee) Finish() error {
	var errs []error
	for i, s := range t.sinks {
		if err := s.Finish(); err != nil {
			errs = append(errs, fmt.Errorf("sink %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

func (t *Tee) SetEndedWithInterrupt(v bool) {
	t.interruptFlag.SetEndedWithInterrupt(v)
	for _, s := range t.sinks {
		s.SetEndedWithInterrupt(v)
	}
}
