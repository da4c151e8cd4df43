package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	metroerrors "github.com/jscyril/golang_metronome/pkg/errors"
)

func steps(n int) []PatternStep {
	s := make([]PatternStep, n)
	for i := range s {
		s[i] = Rest()
	}
	return s
}

func TestNewDrumPattern_Length(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		wantErr bool
	}{
		{"empty", 0, true},
		{"seven", 7, true},
		{"eight", 8, false},
		{"nine", 9, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewDrumPattern(steps(tt.n), SoundClassic, SoundSnare)
			if tt.wantErr {
				assert.ErrorIs(t, err, metroerrors.ErrInvalidPatternLength)
				return
			}
			require.NoError(t, err)
			assert.Len(t, p.Steps, StepCount)
		})
	}
}

func TestNewDrumPattern_CopiesSteps(t *testing.T) {
	in := steps(8)
	in[3] = Hit(VoiceTwo)

	p, err := NewDrumPattern(in, SoundKnock, SoundTR808)
	require.NoError(t, err)

	in[3] = Rest()
	assert.Equal(t, VoiceTwo, p.Steps[3].Voice)
	assert.Equal(t, SoundKnock, p.Sound1)
	assert.Equal(t, SoundTR808, p.Sound2)
}

func TestNewDrumPattern_RejectsBadSteps(t *testing.T) {
	in := steps(8)
	in[0] = PatternStep{Voice: Voice(5), Volume: 1}
	_, err := NewDrumPattern(in, SoundClassic, SoundSnare)
	assert.ErrorIs(t, err, metroerrors.ErrInvalidStep)

	in[0] = PatternStep{Voice: VoiceOne, Volume: -0.5}
	_, err = NewDrumPattern(in, SoundClassic, SoundSnare)
	assert.ErrorIs(t, err, metroerrors.ErrInvalidStep)

	_, err = NewDrumPattern(steps(8), Sound(-1), SoundSnare)
	assert.ErrorIs(t, err, metroerrors.ErrUnknownSound)
}

func TestDefaultDrumPattern(t *testing.T) {
	p := DefaultDrumPattern()

	assert.Equal(t, SoundClassic, p.Sound1)
	assert.Equal(t, SoundSnare, p.Sound2)
	for i, s := range p.Steps {
		assert.True(t, s.IsRest(), "step %d", i)
		assert.Equal(t, 1.0, s.Volume)
	}
	assert.NoError(t, p.Validate())
}

func TestParseSteps(t *testing.T) {
	p, err := ParseSteps("1-2- 1.2.", SoundClassic, SoundSnare)
	require.NoError(t, err)
	assert.Equal(t, "1-2-1-2-", p.Notation())

	_, err = ParseSteps("1-2-1-2", SoundClassic, SoundSnare)
	assert.ErrorIs(t, err, metroerrors.ErrInvalidPatternLength)

	_, err = ParseSteps("1-2-1-2-1", SoundClassic, SoundSnare)
	assert.ErrorIs(t, err, metroerrors.ErrInvalidPatternLength)

	_, err = ParseSteps("1-2-x-2-", SoundClassic, SoundSnare)
	assert.ErrorIs(t, err, metroerrors.ErrInvalidStep)
}

func TestCycleStep(t *testing.T) {
	p := DefaultDrumPattern()

	p = p.CycleStep(2)
	assert.Equal(t, VoiceOne, p.Steps[2].Voice)
	p = p.CycleStep(2)
	assert.Equal(t, VoiceTwo, p.Steps[2].Voice)
	p = p.CycleStep(2)
	assert.Equal(t, VoiceRest, p.Steps[2].Voice)

	p.Steps[5] = PatternStep{Voice: VoiceOne, Volume: 0.3}
	p = p.CycleStep(5)
	assert.Equal(t, Hit(VoiceTwo), p.Steps[5], "multiplier resets to 1.0")

	assert.Equal(t, p, p.CycleStep(8))
	assert.Equal(t, p, p.CycleStep(-1))
}

func TestCycleStep_DoesNotMutateOriginal(t *testing.T) {
	p := DefaultDrumPattern()
	_ = p.CycleStep(0)
	assert.True(t, p.Steps[0].IsRest())
}

func TestVoiceSound(t *testing.T) {
	p := DrumPattern{Sound1: SoundKnock, Sound2: SoundTR909}

	s, ok := p.VoiceSound(VoiceOne)
	assert.True(t, ok)
	assert.Equal(t, SoundKnock, s)

	s, ok = p.VoiceSound(VoiceTwo)
	assert.True(t, ok)
	assert.Equal(t, SoundTR909, s)

	_, ok = p.VoiceSound(VoiceRest)
	assert.False(t, ok)
}

func TestDrumPatternSounds(t *testing.T) {
	assert.Equal(t, []Sound{SoundClassic, SoundSnare}, DefaultDrumPattern().Sounds())
	assert.Equal(t, []Sound{SoundKnock}, DrumPattern{Sound1: SoundKnock, Sound2: SoundKnock}.Sounds())
}
