package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jscyril/golang_metronome/api"
	"github.com/jscyril/golang_metronome/internal/ui/components"
)

// PlayerView displays the metronome settings and the beat in progress
type PlayerView struct {
	Width     int
	Height    int
	State     api.PlaybackState
	LastBeat  *api.BeatInfo
	Controls  string
	VolumeBar components.ProgressBar

	// Styles
	TempoStyle    lipgloss.Style
	LabelStyle    lipgloss.Style
	ValueStyle    lipgloss.Style
	StatusStyle   lipgloss.Style
	PresetStyle   lipgloss.Style
	ControlsStyle lipgloss.Style
	BorderStyle   lipgloss.Style
}

// NewPlayerView creates a new player view
func NewPlayerView(width, height int) PlayerView {
	return PlayerView{
		Width:     width,
		Height:    height,
		State:     api.DefaultPlaybackState(),
		VolumeBar: components.NewProgressBar(30),
		TempoStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")),
		LabelStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Width(9),
		ValueStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")),
		StatusStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true),
		PresetStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
		ControlsStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1),
		BorderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2),
	}
}

// SetState updates the playback state. Stopping clears the beat marker.
func (v *PlayerView) SetState(state api.PlaybackState) {
	v.State = state
	v.VolumeBar.SetProgress(state.VolumePercent(), api.MaxVolume)
	if !state.Playing {
		v.LastBeat = nil
	}
}

// SetBeat records the beat that just sounded
func (v *PlayerView) SetBeat(info api.BeatInfo) {
	v.LastBeat = &info
}

// Update handles messages
func (v PlayerView) Update(msg tea.Msg) (PlayerView, tea.Cmd) {
	return v, nil
}

// Indicator builds the beat row: the accent cycle in simple mode, the
// eight steps in pattern mode.
func (v PlayerView) Indicator() components.StepIndicator {
	if v.State.Mode == api.ModePattern {
		ind := components.NewStepIndicator(api.StepCount)
		for i, step := range v.State.Drum.Steps {
			switch step.Voice {
			case api.VoiceOne:
				ind.Cells[i] = components.CellOne
			case api.VoiceTwo:
				ind.Cells[i] = components.CellTwo
			}
		}
		if v.LastBeat != nil && v.LastBeat.Mode == api.ModePattern {
			ind.Active = v.LastBeat.Step
		}
		return ind
	}

	period := v.State.Accent.Modulus()
	if period == 0 {
		period = 4
	}
	ind := components.NewStepIndicator(period)
	for i := range ind.Cells {
		ind.Cells[i] = components.CellOne
	}
	if v.State.Accent.Modulus() > 0 {
		ind.Cells[0] = components.CellAccent
	}
	if v.LastBeat != nil && v.LastBeat.Mode == api.ModeSimple {
		ind.Active = v.LastBeat.Beat % period
	}
	return ind
}

func (v PlayerView) row(label, value string) string {
	return v.LabelStyle.Render(label) + v.ValueStyle.Render(value) + "\n"
}

func (v PlayerView) renderPresets() string {
	parts := make([]string, len(api.TempoPresets))
	for i, p := range api.TempoPresets {
		s := fmt.Sprintf("%d", p)
		if p == v.State.Tempo {
			parts[i] = v.TempoStyle.Render("[" + s + "]")
		} else {
			parts[i] = v.PresetStyle.Render(" " + s + " ")
		}
	}
	return strings.Join(parts, " ")
}

// View renders the player view
func (v PlayerView) View() string {
	var sb strings.Builder

	statusIcon := "⏸"
	if v.State.Playing {
		statusIcon = "▶"
	}
	sb.WriteString(v.StatusStyle.Render(statusIcon + " "))
	sb.WriteString(v.TempoStyle.Render(fmt.Sprintf("%d BPM", v.State.Tempo)))
	sb.WriteString("  ")
	sb.WriteString(v.renderPresets())
	sb.WriteString("\n\n")

	sb.WriteString(v.Indicator().View())
	sb.WriteString("\n\n")

	switch v.State.Mode {
	case api.ModePattern:
		drum := v.State.Drum
		sb.WriteString(v.row("Mode", "Pattern"))
		sb.WriteString(v.row("Voices", fmt.Sprintf("1 = %s, 2 = %s", drum.Sound1.DisplayName(), drum.Sound2.DisplayName())))
	default:
		sb.WriteString(v.row("Mode", "Simple"))
		sb.WriteString(v.row("Sound", v.State.Sound.DisplayName()))
		sb.WriteString(v.row("Accent", v.State.Accent.DisplayName()))
	}
	sb.WriteString(v.row("Route", fmt.Sprintf("%s (%s)", v.State.Route, v.State.Route.Description())))
	sb.WriteString(v.LabelStyle.Render("Volume"))
	sb.WriteString(v.VolumeBar.View())

	if v.Controls != "" {
		sb.WriteString("\n")
		sb.WriteString(v.ControlsStyle.Render(v.Controls))
	}

	width := v.Width - 4
	if width < 20 {
		width = 20
	}
	return v.BorderStyle.Width(width).Render(sb.String())
}
