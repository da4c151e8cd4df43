package views

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jscyril/golang_metronome/api"
	"github.com/jscyril/golang_metronome/internal/ui/components"
)

func TestPlayerView_SimpleIndicator(t *testing.T) {
	v := NewPlayerView(80, 20)
	state := api.DefaultPlaybackState()
	state.Playing = true
	state.Accent = api.AccentEvery3rd
	v.SetState(state)
	v.SetBeat(api.BeatInfo{Beat: 4, Mode: api.ModeSimple})

	ind := v.Indicator()
	assert.Len(t, ind.Cells, 3)
	assert.Equal(t, components.CellAccent, ind.Cells[0])
	assert.Equal(t, 1, ind.Active)
}

func TestPlayerView_PatternIndicator(t *testing.T) {
	v := NewPlayerView(80, 20)
	state := api.DefaultPlaybackState()
	state.Playing = true
	state.Mode = api.ModePattern
	drum, err := api.ParseSteps("1-2-----", api.SoundTR808, api.SoundSnare)
	assert.NoError(t, err)
	state.Drum = drum
	v.SetState(state)
	v.SetBeat(api.BeatInfo{Beat: 10, Mode: api.ModePattern, Step: 2})

	ind := v.Indicator()
	assert.Len(t, ind.Cells, api.StepCount)
	assert.Equal(t, components.CellOne, ind.Cells[0])
	assert.Equal(t, components.CellTwo, ind.Cells[2])
	assert.Equal(t, 2, ind.Active)
	assert.Contains(t, v.View(), "Drum TR-808")
}

func TestPlayerView_StopClearsBeat(t *testing.T) {
	v := NewPlayerView(80, 20)
	v.SetBeat(api.BeatInfo{Beat: 1})
	v.SetState(api.DefaultPlaybackState())

	assert.Nil(t, v.LastBeat)
	assert.Equal(t, -1, v.Indicator().Active)
}

func TestPlayerView_View(t *testing.T) {
	v := NewPlayerView(100, 20)
	v.SetState(api.DefaultPlaybackState())

	view := v.View()
	assert.Contains(t, view, "175 BPM")
	assert.Contains(t, view, "Classic")
	assert.Contains(t, view, "media")
}
