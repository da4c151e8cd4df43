package api

import (
	"fmt"
	"strings"

	metroerrors "github.com/jscyril/golang_metronome/pkg/errors"
)

// StepCount is the fixed length of a drum pattern
const StepCount = 8

// Voice selects which of the pattern's two sounds a step plays
type Voice int

const (
	VoiceRest Voice = iota
	VoiceOne
	VoiceTwo
)

func (v Voice) Valid() bool {
	return v >= VoiceRest && v <= VoiceTwo
}

func (v Voice) String() string {
	switch v {
	case VoiceRest:
		return "rest"
	case VoiceOne:
		return "sound1"
	case VoiceTwo:
		return "sound2"
	default:
		return fmt.Sprintf("voice(%d)", int(v))
	}
}

// PatternStep is one slot of a drum pattern
type PatternStep struct {
	Voice  Voice   `json:"voice"`
	Volume float64 `json:"volume"` // multiplier on the base volume
}

// Rest returns a silent step
func Rest() PatternStep {
	return PatternStep{Voice: VoiceRest, Volume: 1.0}
}

// Hit returns a step playing v at full multiplier
func Hit(v Voice) PatternStep {
	return PatternStep{Voice: v, Volume: 1.0}
}

// IsRest reports whether the step is silent
func (s PatternStep) IsRest() bool {
	return s.Voice == VoiceRest
}

// DrumPattern is an 8-step sequence over two voices
type DrumPattern struct {
	Steps  [StepCount]PatternStep `json:"steps"`
	Sound1 Sound                  `json:"sound1"`
	Sound2 Sound                  `json:"sound2"`
}

// DefaultDrumPattern returns 8 rests over classic and snare
func DefaultDrumPattern() DrumPattern {
	p := DrumPattern{Sound1: SoundClassic, Sound2: SoundSnare}
	for i := range p.Steps {
		p.Steps[i] = Rest()
	}
	return p
}

// NewDrumPattern builds a pattern from exactly StepCount steps
func NewDrumPattern(steps []PatternStep, sound1, sound2 Sound) (DrumPattern, error) {
	if len(steps) != StepCount {
		return DrumPattern{}, fmt.Errorf("%w: got %d", metroerrors.ErrInvalidPatternLength, len(steps))
	}
	p := DrumPattern{Sound1: sound1, Sound2: sound2}
	copy(p.Steps[:], steps)
	if err := p.Validate(); err != nil {
		return DrumPattern{}, err
	}
	return p, nil
}

// ParseSteps reads the compact notation "1-2-1-2-": '1' and '2' pick a
// voice, '-' or '.' is a rest. Whitespace and '|' are ignored.
func ParseSteps(notation string, sound1, sound2 Sound) (DrumPattern, error) {
	var steps []PatternStep
	for _, r := range notation {
		switch r {
		case '1':
			steps = append(steps, Hit(VoiceOne))
		case '2':
			steps = append(steps, Hit(VoiceTwo))
		case '-', '.':
			steps = append(steps, Rest())
		case ' ', '\t', '|':
		default:
			return DrumPattern{}, fmt.Errorf("%w: %q in %q", metroerrors.ErrInvalidStep, r, notation)
		}
	}
	return NewDrumPattern(steps, sound1, sound2)
}

// Validate checks voices, multipliers, and sounds
func (p DrumPattern) Validate() error {
	if !p.Sound1.Valid() {
		return fmt.Errorf("sound1: %w: %d", metroerrors.ErrUnknownSound, int(p.Sound1))
	}
	if !p.Sound2.Valid() {
		return fmt.Errorf("sound2: %w: %d", metroerrors.ErrUnknownSound, int(p.Sound2))
	}
	for i, s := range p.Steps {
		if !s.Voice.Valid() {
			return fmt.Errorf("%w: step %d has voice %d", metroerrors.ErrInvalidStep, i, int(s.Voice))
		}
		if s.Volume < 0 {
			return fmt.Errorf("%w: step %d has negative volume %v", metroerrors.ErrInvalidStep, i, s.Volume)
		}
	}
	return nil
}

// VoiceSound resolves a voice to the pattern's sound
func (p DrumPattern) VoiceSound(v Voice) (Sound, bool) {
	switch v {
	case VoiceOne:
		return p.Sound1, true
	case VoiceTwo:
		return p.Sound2, true
	default:
		return 0, false
	}
}

// CycleStep returns a copy with step i advanced Rest -> sound1 -> sound2 -> Rest
func (p DrumPattern) CycleStep(i int) DrumPattern {
	if i < 0 || i >= StepCount {
		return p
	}
	switch p.Steps[i].Voice {
	case VoiceRest:
		p.Steps[i] = Hit(VoiceOne)
	case VoiceOne:
		p.Steps[i] = Hit(VoiceTwo)
	default:
		p.Steps[i] = Rest()
	}
	return p
}

// Notation renders the steps in ParseSteps notation
func (p DrumPattern) Notation() string {
	var sb strings.Builder
	for _, s := range p.Steps {
		switch s.Voice {
		case VoiceOne:
			sb.WriteByte('1')
		case VoiceTwo:
			sb.WriteByte('2')
		default:
			sb.WriteByte('-')
		}
	}
	return sb.String()
}

// Sounds returns the distinct sounds the pattern can play
func (p DrumPattern) Sounds() []Sound {
	if p.Sound1 == p.Sound2 {
		return []Sound{p.Sound1}
	}
	return []Sound{p.Sound1, p.Sound2}
}
