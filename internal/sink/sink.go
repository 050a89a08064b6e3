// Package sink holds the frame outputs the manager writes every recorded artifact to.
package sink

import (
	"errors"

	"github.com/coreman2200/arcaluminis-render/internal/render"
)

// Sink receives artifacts in frame order and is finished exactly once.
type Sink interface {
	// HasProgressDisplay reports whether the sink shows its own progress, in which case
	// the scene's display is turned off.
	HasProgressDisplay() bool
	Write(a render.Artifact) error
	Finish() error
	SetEndedWithInterrupt(v bool)
	EndedWithInterrupt() bool
}

// Factory builds the sink for one render of the named scene.
type Factory func(sceneName string) (Sink, error)

var ErrFinished = errors.New("sink: already finished")

// interruptFlag implements the interrupt half of Sink.
type interruptFlag struct{ interrupted bool }

func (f *interruptFlag) SetEndedWithInterrupt(v bool) { f.interrupted = v }
func (f *interruptFlag) EndedWithInterrupt() bool     { return f.interrupted }

// Nop counts frames and discards them.
type Nop struct {
	interruptFlag
	Frames   int
	Finished bool
}

func (*Nop) HasProgressDisplay() bool { return false }

func (n *Nop) Write(render.Artifact) error {
	if n.Finished {
		return ErrFinished
	}
	n.Frames++
	return nil
}

func (n *Nop) Finish() error {
	n.Finished = true
	return nil
}
