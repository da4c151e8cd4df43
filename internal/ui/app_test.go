package ui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jscyril/golang_metronome/api"
	"github.com/jscyril/golang_metronome/internal/config"
)

// fakeController records calls and keeps a state value
type fakeController struct {
	state    api.PlaybackState
	events   chan api.AudioEvent
	routeErr error
	toggles  int
	stops    int
}

func newFakeController() *fakeController {
	return &fakeController{
		state:  api.DefaultPlaybackState(),
		events: make(chan api.AudioEvent, 4),
	}
}

func (f *fakeController) Play() { f.state.Playing = true }
func (f *fakeController) Pause() { f.state.Playing = false }
func (f *fakeController) Stop() { f.stops++; f.state.Playing = false }
func (f *fakeController) Toggle() { f.toggles++; f.state.Playing = !f.state.Playing }
func (f *fakeController) IsPlaying() bool { return f.state.Playing }
func (f *fakeController) SetTempo(bpm int) {
	f.state.Tempo = bpm
}
func (f *fakeController) SetVolume(percent int) {
	f.state.Volume = float64(percent) / 100
}
func (f *fakeController) SetSound(s api.Sound) error {
	f.state.Sound = s
	return nil
}
func (f *fakeController) SetPlaybackMode(m api.PlaybackMode) error {
	f.state.Mode = m
	return nil
}
func (f *fakeController) SetAccentPattern(a api.AccentPattern) error {
	f.state.Accent = a
	return nil
}
func (f *fakeController) SetDrumPattern(p api.DrumPattern) error {
	f.state.Drum = p
	return nil
}
func (f *fakeController) SetAudioRoute(r api.AudioRoute) error {
	if f.routeErr != nil {
		return f.routeErr
	}
	f.state.Route = r
	return nil
}
func (f *fakeController) GetState() api.PlaybackState { return f.state }
func (f *fakeController) Events() <-chan api.AudioEvent { return f.events }

func press(t *testing.T, m Model, key string) Model {
	t.Helper()
	var msg tea.KeyMsg
	if key == " " {
		msg = tea.KeyMsg{Type: tea.KeySpace}
	} else {
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model
}

func TestModel_KeysDriveEngine(t *testing.T) {
	engine := newFakeController()
	m := NewModel(engine, config.GetDefaultConfig().KeyBindings)

	m = press(t, m, " ")
	assert.True(t, engine.state.Playing)
	assert.Equal(t, 1, engine.toggles)

	m = press(t, m, "+")
	assert.Equal(t, 176, engine.state.Tempo)
	m = press(t, m, "-")
	m = press(t, m, "-")
	assert.Equal(t, 174, engine.state.Tempo)

	m = press(t, m, "p")
	assert.Equal(t, 175, engine.state.Tempo)

	m = press(t, m, "]")
	assert.Equal(t, 80, engine.state.VolumePercent())

	m = press(t, m, "c")
	assert.Equal(t, api.SoundSnare, engine.state.Sound)

	m = press(t, m, "a")
	assert.Equal(t, api.AccentEvery2nd, engine.state.Accent)

	m = press(t, m, "m")
	assert.Equal(t, api.ModePattern, engine.state.Mode)

	m = press(t, m, "r")
	assert.Equal(t, api.RouteNotification, engine.state.Route)

	m = press(t, m, "3")
	m = press(t, m, "3")
	assert.Equal(t, "--2-----", engine.state.Drum.Notation())

	m = press(t, m, "s")
	assert.Equal(t, 1, engine.stops)
	assert.False(t, m.playerView.State.Playing)
}

func TestModel_QuitKey(t *testing.T) {
	m := NewModel(newFakeController(), config.GetDefaultConfig().KeyBindings)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_RouteErrorShown(t *testing.T) {
	engine := newFakeController()
	engine.routeErr = errors.New("device busy")
	m := NewModel(engine, config.GetDefaultConfig().KeyBindings)

	m = press(t, m, "r")
	assert.Equal(t, api.RouteMedia, engine.state.Route)
	assert.Contains(t, m.View(), "device busy")
}

func TestModel_Events(t *testing.T) {
	engine := newFakeController()
	m := NewModel(engine, config.GetDefaultConfig().KeyBindings)

	playing := api.DefaultPlaybackState()
	playing.Playing = true
	playing.Tempo = 160
	next, cmd := m.Update(EventMsg{Event: api.AudioEvent{Type: api.EventStateChange, Payload: playing}})
	m = next.(Model)
	assert.NotNil(t, cmd, "keeps listening")
	assert.Equal(t, 160, m.playerView.State.Tempo)

	next, _ = m.Update(EventMsg{Event: api.AudioEvent{Type: api.EventBeat, Payload: api.BeatInfo{Beat: 6, Mode: api.ModeSimple}}})
	m = next.(Model)
	assert.Equal(t, 2, m.playerView.Indicator().Active)

	next, _ = m.Update(EventMsg{Event: api.AudioEvent{Type: api.EventError, Payload: errors.New("boom")}})
	m = next.(Model)
	assert.Contains(t, m.View(), "boom")
}

func TestModel_ListenForEvents(t *testing.T) {
	engine := newFakeController()
	m := NewModel(engine, config.GetDefaultConfig().KeyBindings)

	engine.events <- api.AudioEvent{Type: api.EventBeat, Payload: api.BeatInfo{}}
	msg := m.listenForEvents()()
	assert.IsType(t, EventMsg{}, msg)

	close(engine.events)
	assert.Equal(t, eventsClosedMsg{}, m.listenForEvents()())
}

func TestNextPreset(t *testing.T) {
	assert.Equal(t, 160, NextPreset(100))
	assert.Equal(t, 175, NextPreset(170))
	assert.Equal(t, 180, NextPreset(178))
	assert.Equal(t, 160, NextPreset(185))
	assert.Equal(t, 160, NextPreset(200))
}
