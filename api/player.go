package api

// Metronome is the control surface exposed to the UI and CLI
type Metronome interface {
	Play()
	Pause()
	Stop()
	Toggle()
	IsPlaying() bool
	SetTempo(bpm int)
	SetVolume(percent int)
	SetSound(sound Sound) error
	SetPlaybackMode(mode PlaybackMode) error
	SetAccentPattern(pattern AccentPattern) error
	SetDrumPattern(pattern DrumPattern) error
	SetAudioRoute(route AudioRoute) error
	GetState() PlaybackState
}

// SoundHandle refers to a sound loaded into an AudioBackend. Zero is never
// a valid handle.
type SoundHandle int

// StreamID identifies one playing instance of a sound
type StreamID int

// AudioBackend plays loaded sounds on one output route
type AudioBackend interface {
	// Load prepares sound for playback. Fails with ErrSoundNotAvailable.
	Load(sound Sound) (SoundHandle, error)
	// Trigger starts the sound with the given channel gains.
	Trigger(handle SoundHandle, left, right float64) (StreamID, error)
	// Release frees the output and every loaded sound.
	Release() error
}

// BackendFactory creates an AudioBackend for a route
type BackendFactory func(route AudioRoute) (AudioBackend, error)

// EventType identifies engine events
type EventType int

const (
	EventStateChange EventType = iota
	EventBeat
	EventError
	EventRouteChange
)

// EventTypes lists every event type the engine publishes
func EventTypes() []EventType {
	return []EventType{EventStateChange, EventBeat, EventError, EventRouteChange}
}

// AudioEvent is published by the engine. Payload is a PlaybackState for
// state and route changes, a BeatInfo for beats and an error for errors.
type AudioEvent struct {
	Type    EventType
	Payload interface{}
}
