package metronome

import (
	"fmt"

	"github.com/jscyril/golang_metronome/api"
	metroerrors "github.com/jscyril/golang_metronome/pkg/errors"
)

// SetTempo clamps bpm to 40-200. A running loop uses it from the next beat.
func (e *Engine) SetTempo(bpm int) {
	e.update(func(s *api.PlaybackState) {
		s.Tempo = ClampTempo(bpm)
	})
}

// SetVolume clamps percent to 0-100 and stores it as a fraction
func (e *Engine) SetVolume(percent int) {
	e.update(func(s *api.PlaybackState) {
		s.Volume = VolumeFraction(percent)
	})
}

// SetSound selects the Simple mode voice and loads it. Accent alignment
// is kept.
func (e *Engine) SetSound(sound api.Sound) error {
	if !sound.Valid() {
		return fmt.Errorf("%w: %d", metroerrors.ErrUnknownSound, int(sound))
	}

	e.ctl.Lock()
	defer e.ctl.Unlock()

	err := e.loadLocked(sound)
	e.update(func(s *api.PlaybackState) {
		s.Sound = sound
	})
	return err
}

// SetPlaybackMode switches between Simple and Pattern playback. The loop
// picks it up on the next beat.
func (e *Engine) SetPlaybackMode(mode api.PlaybackMode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %d", metroerrors.ErrUnknownMode, int(mode))
	}
	e.update(func(s *api.PlaybackState) {
		s.Mode = mode
	})
	return nil
}

// SetAccentPattern replaces the accent pattern and restarts the cycle
func (e *Engine) SetAccentPattern(pattern api.AccentPattern) error {
	if !pattern.Valid() {
		return fmt.Errorf("%w: %d", metroerrors.ErrUnknownAccent, int(pattern))
	}
	e.update(func(s *api.PlaybackState) {
		s.Accent = pattern
		e.resetBeatLocked()
	})
	return nil
}

// SetDrumPattern replaces the drum pattern, loads its sounds and restarts
// the cycle at step 0. An invalid pattern leaves the current one in place.
func (e *Engine) SetDrumPattern(pattern api.DrumPattern) error {
	if err := pattern.Validate(); err != nil {
		return err
	}

	e.ctl.Lock()
	defer e.ctl.Unlock()

	var loadErr error
	for _, sound := range pattern.Sounds() {
		if err := e.loadLocked(sound); err != nil && loadErr == nil {
			loadErr = err
		}
	}
	e.update(func(s *api.PlaybackState) {
		s.Drum = pattern
		e.resetBeatLocked()
	})
	return loadErr
}

// update applies fn under the state lock and publishes the result
func (e *Engine) update(fn func(s *api.PlaybackState)) {
	e.mu.Lock()
	fn(&e.state)
	state := e.state
	e.mu.Unlock()

	e.publishState(state)
}

// resetBeatLocked requires mu
func (e *Engine) resetBeatLocked() {
	e.state.Beat = 0
	e.resetPending = true
}

// loadLocked requires ctl. A failed load is returned but not fatal: the
// sound's beats are dropped until it loads.
func (e *Engine) loadLocked(sound api.Sound) error {
	e.mu.RLock()
	backend := e.backend
	_, loaded := e.handles[sound]
	e.mu.RUnlock()

	if loaded {
		return nil
	}
	if backend == nil {
		return metroerrors.NewEngineError("load", sound.String(), metroerrors.ErrSoundNotAvailable)
	}

	handle, err := backend.Load(sound)
	if err != nil {
		e.log.Warn("sound load failed", "sound", sound.String(), "error", err)
		return metroerrors.NewEngineError("load", sound.String(), err)
	}

	e.mu.Lock()
	e.handles[sound] = handle
	e.mu.Unlock()

	e.log.Debug("sound loaded", "sound", sound.String(), "handle", int(handle))
	return nil
}

// loadSelectedLocked loads the Simple mode sound and both pattern voices
func (e *Engine) loadSelectedLocked() {
	e.mu.RLock()
	state := e.state
	e.mu.RUnlock()

	sounds := append([]api.Sound{state.Sound}, state.Drum.Sounds()...)
	for _, sound := range sounds {
		// Failures are logged by loadLocked
		_ = e.loadLocked(sound)
	}
}
