package manager

import (
	"context"

	"github.com/coreman2200/arcaluminis-render/internal/scene"
	"github.com/coreman2200/arcaluminis-render/internal/timeline"
)

var _ scene.Player = (*Manager)(nil)

// Play runs anims side by side for the longest run time, one frame per sample.
// A cancelled ctx stops it at the next frame boundary.
func (m *Manager) Play(ctx context.Context, anims ...scene.Animation) error {
	if len(anims) == 0 {
		return ErrNoAnimations
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.scene.PrePlay()
	if m.window != nil {
		m.anchor()
	}
	m.scene.BeginAnimations(anims)

	var runTime float64
	for _, a := range anims {
		runTime = max(runTime, a.RunTime())
	}
	m.log.Debug().Int("animations", len(anims)).Float64("run_time", runTime).
		Int("frames", timeline.Count(runTime, m.cfg.FrameRate)).Msg("play")

	lastT := 0.0
	for t := range timeline.Progression(runTime, m.cfg.FrameRate) {
		if err := ctx.Err(); err != nil {
			return err
		}
		dt := t - lastT
		lastT = t
		m.scene.UpdateAnimations(anims, t, dt)
		if err := m.advanceFrame(dt, true); err != nil {
			return err
		}
	}
	m.scene.FinishAnimations(anims)

	if m.scene.SkipAnimations() && m.window != nil {
		if err := m.advanceFrame(0, true); err != nil {
			return err
		}
	}
	m.scene.PostPlay()
	return nil
}

// Wait holds the scene for d seconds. Scenes with time-dependent objects are advanced
// frame by frame and stop is checked after each frame; static scenes re-emit the previous
// frame instead. A nil stop never fires.
func (m *Manager) Wait(ctx context.Context, d float64, stop func() bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.scene.PrePlay()
	update := m.scene.ShouldUpdateObjects()
	if stop == nil {
		stop = func() bool { return false }
	}
	m.log.Debug().Float64("run_time", d).Bool("update_objects", update).Msg("wait")

	lastT := 0.0
	for t := range timeline.Progression(d, m.cfg.FrameRate) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !update {
			if err := m.renderPrevious(); err != nil {
				return err
			}
			continue
		}
		dt := t - lastT
		lastT = t
		if err := m.advanceFrame(dt, true); err != nil {
			return err
		}
		if stop() {
			break
		}
	}
	m.scene.PostPlay()
	return nil
}

// WaitUntil waits until stop fires or maxTime elapses.
func (m *Manager) WaitUntil(ctx context.Context, stop func() bool, maxTime float64) error {
	return m.Wait(ctx, maxTime, stop)
}

// renderPrevious re-emits the last frame without advancing time.
func (m *Manager) renderPrevious() error {
	a, err := m.backend.RenderPrevious(m.scene.Camera())
	if err != nil {
		return err
	}
	m.stats.previous++
	return m.emit(a, true)
}
