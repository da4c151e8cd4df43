package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	metroerrors "github.com/jscyril/golang_metronome/pkg/errors"
)

func TestParseSound(t *testing.T) {
	for _, s := range Sounds() {
		got, err := ParseSound(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	got, err := ParseSound("TR808")
	require.NoError(t, err)
	assert.Equal(t, SoundTR808, got)

	_, err = ParseSound("cowbell")
	assert.ErrorIs(t, err, metroerrors.ErrUnknownSound)
}

func TestSoundNextWraps(t *testing.T) {
	assert.Equal(t, SoundSnare, SoundClassic.Next())
	assert.Equal(t, SoundClassic, SoundTR909.Next())
	assert.Len(t, Sounds(), 6)
}

func TestAccentModulus(t *testing.T) {
	tests := []struct {
		accent AccentPattern
		want   int
	}{
		{AccentNone, 0},
		{AccentEvery2nd, 2},
		{AccentEvery3rd, 3},
		{AccentEvery4th, 4},
	}

	for _, tt := range tests {
		t.Run(tt.accent.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.accent.Modulus())
		})
	}
}

func TestParseAccentPattern(t *testing.T) {
	for _, a := range AccentPatterns() {
		got, err := ParseAccentPattern(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}

	got, err := ParseAccentPattern("3")
	require.NoError(t, err)
	assert.Equal(t, AccentEvery3rd, got)

	_, err = ParseAccentPattern("5")
	assert.ErrorIs(t, err, metroerrors.ErrUnknownAccent)

	assert.Equal(t, "Every 2nd", AccentEvery2nd.DisplayName())
	assert.Equal(t, AccentNone, AccentEvery4th.Next())
}

func TestParseModeAndRoute(t *testing.T) {
	m, err := ParsePlaybackMode("Pattern")
	require.NoError(t, err)
	assert.Equal(t, ModePattern, m)

	_, err = ParsePlaybackMode("shuffle")
	assert.ErrorIs(t, err, metroerrors.ErrUnknownMode)

	r, err := ParseAudioRoute("notification")
	require.NoError(t, err)
	assert.Equal(t, RouteNotification, r)
	assert.Equal(t, "Respects mute switch, uses notification volume", r.Description())

	_, err = ParseAudioRoute("alarm")
	assert.ErrorIs(t, err, metroerrors.ErrUnknownRoute)
}

func TestDefaultPlaybackState(t *testing.T) {
	s := DefaultPlaybackState()

	assert.False(t, s.Playing)
	assert.Equal(t, 175, s.Tempo)
	assert.Equal(t, 75, s.VolumePercent())
	assert.Equal(t, SoundClassic, s.Sound)
	assert.Equal(t, ModeSimple, s.Mode)
	assert.Equal(t, AccentNone, s.Accent)
	assert.Equal(t, RouteMedia, s.Route)
	assert.Equal(t, 0, s.Beat)
}
