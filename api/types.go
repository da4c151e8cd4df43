package api

import (
	"fmt"
	"math"
	"strings"

	metroerrors "github.com/jscyril/golang_metronome/pkg/errors"
)

// Tempo and volume bounds
const (
	MinTempo     = 40
	MaxTempo     = 200
	DefaultTempo = 175

	MinVolume     = 0
	MaxVolume     = 100
	DefaultVolume = 75
)

// TempoPresets are the quick-select tempos offered by the control surface
var TempoPresets = []int{160, 170, 175, 180, 185}

// Sound identifies one of the built-in timbres
type Sound int

const (
	SoundClassic Sound = iota
	SoundSnare
	SoundKnock
	SoundTR707
	SoundTR808
	SoundTR909
)

var soundNames = [...]string{"classic", "snare", "knock", "tr707", "tr808", "tr909"}

var soundDisplayNames = [...]string{"Classic", "Snare", "Knock", "Drum TR-707", "Drum TR-808", "Drum TR-909"}

// Sounds returns every built-in sound in display order
func Sounds() []Sound {
	return []Sound{SoundClassic, SoundSnare, SoundKnock, SoundTR707, SoundTR808, SoundTR909}
}

// Valid reports whether s is one of the built-in sounds
func (s Sound) Valid() bool {
	return s >= SoundClassic && s <= SoundTR909
}

func (s Sound) String() string {
	if !s.Valid() {
		return fmt.Sprintf("sound(%d)", int(s))
	}
	return soundNames[s]
}

// DisplayName returns a human readable name
func (s Sound) DisplayName() string {
	if !s.Valid() {
		return s.String()
	}
	return soundDisplayNames[s]
}

// Next returns the following sound, wrapping around
func (s Sound) Next() Sound {
	return Sound((int(s) + 1) % len(soundNames))
}

// ParseSound maps a sound name (case-insensitive) to a Sound
func ParseSound(name string) (Sound, error) {
	for i, n := range soundNames {
		if strings.EqualFold(name, n) {
			return Sound(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", metroerrors.ErrUnknownSound, name)
}

// PlaybackMode selects the resolver logic
type PlaybackMode int

const (
	ModeSimple PlaybackMode = iota
	ModePattern
)

func (m PlaybackMode) Valid() bool {
	return m == ModeSimple || m == ModePattern
}

func (m PlaybackMode) String() string {
	switch m {
	case ModeSimple:
		return "simple"
	case ModePattern:
		return "pattern"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParsePlaybackMode maps "simple" or "pattern" to a PlaybackMode
func ParsePlaybackMode(name string) (PlaybackMode, error) {
	switch strings.ToLower(name) {
	case "simple":
		return ModeSimple, nil
	case "pattern":
		return ModePattern, nil
	}
	return 0, fmt.Errorf("%w: %q", metroerrors.ErrUnknownMode, name)
}

// AccentPattern is the Simple mode accent period
type AccentPattern int

const (
	AccentNone AccentPattern = iota
	AccentEvery2nd
	AccentEvery3rd
	AccentEvery4th
)

var accentNames = [...]string{"none", "every2nd", "every3rd", "every4th"}

var accentDisplayNames = [...]string{"None", "Every 2nd", "Every 3rd", "Every 4th"}

// AccentPatterns returns every accent pattern in display order
func AccentPatterns() []AccentPattern {
	return []AccentPattern{AccentNone, AccentEvery2nd, AccentEvery3rd, AccentEvery4th}
}

func (a AccentPattern) Valid() bool {
	return a >= AccentNone && a <= AccentEvery4th
}

// Modulus returns the beat period of the accent, 0 for none
func (a AccentPattern) Modulus() int {
	switch a {
	case AccentEvery2nd:
		return 2
	case AccentEvery3rd:
		return 3
	case AccentEvery4th:
		return 4
	default:
		return 0
	}
}

func (a AccentPattern) String() string {
	if !a.Valid() {
		return fmt.Sprintf("accent(%d)", int(a))
	}
	return accentNames[a]
}

func (a AccentPattern) DisplayName() string {
	if !a.Valid() {
		return a.String()
	}
	return accentDisplayNames[a]
}

// Next returns the following accent pattern, wrapping around
func (a AccentPattern) Next() AccentPattern {
	return AccentPattern((int(a) + 1) % len(accentNames))
}

// ParseAccentPattern accepts the short names and the plain modulus ("0".."4")
func ParseAccentPattern(name string) (AccentPattern, error) {
	for i, n := range accentNames {
		if strings.EqualFold(name, n) {
			return AccentPattern(i), nil
		}
	}
	switch name {
	case "0":
		return AccentNone, nil
	case "2":
		return AccentEvery2nd, nil
	case "3":
		return AccentEvery3rd, nil
	case "4":
		return AccentEvery4th, nil
	}
	return 0, fmt.Errorf("%w: %q", metroerrors.ErrUnknownAccent, name)
}

// AudioRoute is the output class the backend plays through
type AudioRoute int

const (
	RouteMedia AudioRoute = iota
	RouteNotification
)

func (r AudioRoute) Valid() bool {
	return r == RouteMedia || r == RouteNotification
}

func (r AudioRoute) String() string {
	switch r {
	case RouteMedia:
		return "media"
	case RouteNotification:
		return "notification"
	default:
		return fmt.Sprintf("route(%d)", int(r))
	}
}

// Description explains how the route behaves under system mute rules
func (r AudioRoute) Description() string {
	switch r {
	case RouteMedia:
		return "Always plays, uses media volume"
	case RouteNotification:
		return "Respects mute switch, uses notification volume"
	default:
		return ""
	}
}

// ParseAudioRoute maps "media" or "notification" to an AudioRoute
func ParseAudioRoute(name string) (AudioRoute, error) {
	switch strings.ToLower(name) {
	case "media":
		return RouteMedia, nil
	case "notification":
		return RouteNotification, nil
	}
	return 0, fmt.Errorf("%w: %q", metroerrors.ErrUnknownRoute, name)
}

// PlaybackState is a value snapshot of the engine settings
type PlaybackState struct {
	Playing bool          `json:"playing"`
	Tempo   int           `json:"tempo"`
	Volume  float64       `json:"volume"` // normalised 0.0 - 1.0
	Sound   Sound         `json:"sound"`
	Mode    PlaybackMode  `json:"mode"`
	Accent  AccentPattern `json:"accent"`
	Drum    DrumPattern   `json:"drum"`
	Route   AudioRoute    `json:"route"`
	Beat    int           `json:"beat"` // beats already triggered since the cycle restarted
}

// DefaultPlaybackState returns the settings the engine starts with
func DefaultPlaybackState() PlaybackState {
	return PlaybackState{
		Tempo:  DefaultTempo,
		Volume: float64(DefaultVolume) / 100,
		Sound:  SoundClassic,
		Mode:   ModeSimple,
		Accent: AccentNone,
		Drum:   DefaultDrumPattern(),
		Route:  RouteMedia,
	}
}

// VolumePercent returns the volume as an integer percentage
func (s PlaybackState) VolumePercent() int {
	return int(math.Round(s.Volume * 100))
}

// Trigger is one sound to fire at a beat
type Trigger struct {
	Sound  Sound   `json:"sound"`
	Volume float64 `json:"volume"`
}

// BeatInfo describes a beat the scheduler just played
type BeatInfo struct {
	Beat     int          `json:"beat"`
	Mode     PlaybackMode `json:"mode"`
	Step     int          `json:"step"` // beat % StepCount, meaningful in pattern mode
	Triggers []Trigger    `json:"triggers"`
}
