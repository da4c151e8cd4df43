package metronome

import (
	"github.com/jscyril/golang_metronome/api"
)

// AccentBoost is the volume multiplier for accented beats
const AccentBoost = 1.3

// Resolve returns what to play for beat under the given settings. It has
// no side effects. Simple mode always yields one trigger; pattern mode
// yields none on a rest.
func Resolve(state api.PlaybackState, beat int) []api.Trigger {
	switch state.Mode {
	case api.ModePattern:
		return resolveStep(state.Drum, state.Volume, beat)
	default:
		return []api.Trigger{resolveClick(state.Sound, state.Accent, state.Volume, beat)}
	}
}

// IsAccented reports whether beat falls on the accent period
func IsAccented(accent api.AccentPattern, beat int) bool {
	mod := accent.Modulus()
	return mod > 0 && beat%mod == 0
}

// StepIndex returns the pattern step that beat plays
func StepIndex(beat int) int {
	return beat % api.StepCount
}

func resolveClick(sound api.Sound, accent api.AccentPattern, volume float64, beat int) api.Trigger {
	if IsAccented(accent, beat) {
		volume = min(volume*AccentBoost, 1.0)
	}
	return api.Trigger{Sound: sound, Volume: volume}
}

func resolveStep(pattern api.DrumPattern, volume float64, beat int) []api.Trigger {
	step := pattern.Steps[StepIndex(beat)]
	sound, ok := pattern.VoiceSound(step.Voice)
	if !ok {
		return nil
	}
	// The step multiplier is not capped
	return []api.Trigger{{Sound: sound, Volume: volume * step.Volume}}
}
