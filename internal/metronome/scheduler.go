package metronome

import (
	"context"

	"github.com/jscyril/golang_metronome/api"
	metroerrors "github.com/jscyril/golang_metronome/pkg/errors"
)

// beat is everything the loop needs for one tick, taken under one lock
type beat struct {
	state    api.PlaybackState
	backend  api.AudioBackend
	triggers []api.Trigger
	handles  []api.SoundHandle
}

// run is the beat loop. Each iteration triggers, then sleeps, then
// advances the counter, so Beat always counts beats already played.
func (e *Engine) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	e.log.Debug("beat loop started")
	defer e.log.Debug("beat loop stopped")

	for {
		if ctx.Err() != nil {
			return
		}
		b, ok := e.nextBeat()
		if !ok {
			return
		}

		e.playBeat(b)

		if err := e.clock.Sleep(ctx, BeatInterval(b.state.Tempo)); err != nil {
			return
		}
		e.advance()
	}
}

// nextBeat snapshots the settings and resolves the beat's triggers
func (e *Engine) nextBeat() (beat, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.state.Playing {
		return beat{}, false
	}
	// This snapshot already sees a reset counter
	e.resetPending = false

	b := beat{
		state:    e.state,
		backend:  e.backend,
		triggers: Resolve(e.state, e.state.Beat),
	}
	b.handles = make([]api.SoundHandle, len(b.triggers))
	for i, t := range b.triggers {
		b.handles[i] = e.handles[t.Sound]
	}
	return b, true
}

// playBeat fires the triggers. Failures drop the beat; they are never
// retried and never stop the loop.
func (e *Engine) playBeat(b beat) {
	for i, t := range b.triggers {
		if err := e.trigger(b.backend, b.handles[i], t); err != nil {
			e.log.Warn("beat dropped",
				"beat", b.state.Beat,
				"sound", t.Sound.String(),
				"error", err)
			e.publishError(metroerrors.NewEngineError("trigger", t.Sound.String(), err))
			continue
		}
		e.log.Debug("beat",
			"beat", b.state.Beat,
			"sound", t.Sound.String(),
			"volume", t.Volume)
	}

	e.bus.Publish(api.AudioEvent{
		Type: api.EventBeat,
		Payload: api.BeatInfo{
			Beat:     b.state.Beat,
			Mode:     b.state.Mode,
			Step:     StepIndex(b.state.Beat),
			Triggers: b.triggers,
		},
	})
}

func (e *Engine) trigger(backend api.AudioBackend, handle api.SoundHandle, t api.Trigger) error {
	if backend == nil || handle == 0 {
		return metroerrors.ErrSoundNotAvailable
	}
	_, err := backend.Trigger(handle, t.Volume, t.Volume)
	return err
}

// advance moves to the next beat unless a setter reset the counter while
// the loop slept.
func (e *Engine) advance() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.resetPending {
		e.resetPending = false
		return
	}
	e.state.Beat++
}
