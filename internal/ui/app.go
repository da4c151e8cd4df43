package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jscyril/golang_metronome/api"
	"github.com/jscyril/golang_metronome/internal/config"
	"github.com/jscyril/golang_metronome/internal/ui/views"
)

const (
	tempoStep  = 1
	volumeStep = 5
)

// Controller is the engine surface the UI drives
type Controller interface {
	api.Metronome
	Events() <-chan api.AudioEvent
}

// Model is the main bubbletea model
type Model struct {
	// Dimensions
	width  int
	height int

	playerView views.PlayerView

	engine Controller
	events <-chan api.AudioEvent
	keys   config.KeyMap

	err error

	// Styles
	headerStyle lipgloss.Style
	errorStyle  lipgloss.Style
}

// EventMsg carries one engine event into the update loop
type EventMsg struct {
	Event api.AudioEvent
}

// eventsClosedMsg is sent once the engine's event stream ends
type eventsClosedMsg struct{}

// NewModel creates a new application model. It subscribes to the
// engine's events once; the subscription lives as long as the engine.
func NewModel(engine Controller, keys config.KeyMap) Model {
	m := Model{
		width:  80,
		height: 24,
		engine: engine,
		events: engine.Events(),
		keys:   keys,
		headerStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			MarginBottom(1),
		errorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),
	}

	m.playerView = views.NewPlayerView(m.width, m.height)
	m.playerView.Controls = helpLine(keys)
	m.playerView.SetState(engine.GetState())

	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return m.listenForEvents()
}

// listenForEvents returns a command that waits for the next engine event
func (m Model) listenForEvents() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return EventMsg{Event: event}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.playerView.Width = m.width
		m.playerView.Height = m.height

	case EventMsg:
		m.handleEvent(msg.Event)
		return m, m.listenForEvents()

	case eventsClosedMsg:
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleEvent(event api.AudioEvent) {
	switch event.Type {
	case api.EventStateChange, api.EventRouteChange:
		if state, ok := event.Payload.(api.PlaybackState); ok {
			m.playerView.SetState(state)
		}
	case api.EventBeat:
		if info, ok := event.Payload.(api.BeatInfo); ok {
			m.playerView.SetBeat(info)
		}
	case api.EventError:
		if err, ok := event.Payload.(error); ok {
			m.err = err
		}
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	state := m.engine.GetState()

	switch key {
	case m.keys.Quit, "ctrl+c":
		return m, tea.Quit

	case m.keys.PlayPause:
		m.engine.Toggle()

	case m.keys.Stop:
		m.engine.Stop()

	case m.keys.TempoUp, "=":
		m.engine.SetTempo(state.Tempo + tempoStep)

	case m.keys.TempoDown:
		m.engine.SetTempo(state.Tempo - tempoStep)

	case m.keys.NextPreset:
		m.engine.SetTempo(NextPreset(state.Tempo))

	case m.keys.VolumeUp:
		m.engine.SetVolume(state.VolumePercent() + volumeStep)

	case m.keys.VolumeDown:
		m.engine.SetVolume(state.VolumePercent() - volumeStep)

	case m.keys.NextSound:
		m.err = m.engine.SetSound(state.Sound.Next())

	case m.keys.NextAccent:
		m.err = m.engine.SetAccentPattern(state.Accent.Next())

	case m.keys.ToggleMode:
		mode := api.ModePattern
		if state.Mode == api.ModePattern {
			mode = api.ModeSimple
		}
		m.err = m.engine.SetPlaybackMode(mode)

	case m.keys.ToggleRoute:
		route := api.RouteNotification
		if state.Route == api.RouteNotification {
			route = api.RouteMedia
		}
		m.err = m.engine.SetAudioRoute(route)

	default:
		// 1-8 cycle the pattern steps
		if len(key) == 1 && key[0] >= '1' && key[0] < '1'+api.StepCount {
			m.err = m.engine.SetDrumPattern(state.Drum.CycleStep(int(key[0] - '1')))
		}
	}

	m.playerView.SetState(m.engine.GetState())
	return m, nil
}

// NextPreset returns the first preset above bpm, wrapping to the lowest
func NextPreset(bpm int) int {
	for _, p := range api.TempoPresets {
		if p > bpm {
			return p
		}
	}
	return api.TempoPresets[0]
}

func keyName(k string) string {
	if k == " " {
		return "Space"
	}
	return k
}

func helpLine(k config.KeyMap) string {
	pairs := []struct{ key, label string }{
		{k.PlayPause, "Play/Pause"},
		{k.Stop, "Stop"},
		{k.TempoUp + "/" + k.TempoDown, "Tempo"},
		{k.NextPreset, "Preset"},
		{k.VolumeUp + "/" + k.VolumeDown, "Volume"},
		{k.NextSound, "Sound"},
		{k.NextAccent, "Accent"},
		{k.ToggleMode, "Mode"},
		{k.ToggleRoute, "Route"},
		{"1-8", "Steps"},
		{k.Quit, "Quit"},
	}
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = fmt.Sprintf("[%s] %s", keyName(p.key), p.label)
	}
	return strings.Join(parts, "  ")
}

// View renders the UI
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.headerStyle.Render("♩ Metronome"))
	sb.WriteString("\n")
	sb.WriteString(m.playerView.View())

	if m.err != nil {
		sb.WriteString("\n")
		sb.WriteString(m.errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	return sb.String()
}

// Run starts the bubbletea program
func Run(engine Controller, keys config.KeyMap) error {
	model := NewModel(engine, keys)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
