package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders a bounded value, such as the volume, as a bar
type ProgressBar struct {
	Width       int
	Current     int
	Max         int
	BarChar     string
	EmptyChar   string
	ShowValue   bool
	Style       lipgloss.Style
	FilledStyle lipgloss.Style
	EmptyStyle  lipgloss.Style
}

// NewProgressBar creates a new progress bar
func NewProgressBar(width int) ProgressBar {
	return ProgressBar{
		Width:       width,
		Max:         100,
		BarChar:     "█",
		EmptyChar:   "░",
		ShowValue:   true,
		Style:       lipgloss.NewStyle(),
		FilledStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		EmptyStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// Update handles messages for the progress bar
func (p ProgressBar) Update(msg tea.Msg) (ProgressBar, tea.Cmd) {
	return p, nil
}

// SetProgress sets the current value and its maximum
func (p *ProgressBar) SetProgress(current, max int) {
	p.Current = current
	p.Max = max
}

// Percent returns Current/Max clamped to [0, 1]
func (p ProgressBar) Percent() float64 {
	if p.Max <= 0 {
		return 0
	}
	percent := float64(p.Current) / float64(p.Max)
	if percent < 0 {
		return 0
	}
	if percent > 1 {
		return 1
	}
	return percent
}

// View renders the progress bar
func (p ProgressBar) View() string {
	var sb strings.Builder

	barWidth := p.Width - 6 // room for the value
	if barWidth < 10 {
		barWidth = 10
	}

	filled := int(float64(barWidth) * p.Percent())
	empty := barWidth - filled

	sb.WriteString(p.FilledStyle.Render(strings.Repeat(p.BarChar, filled)))
	sb.WriteString(p.EmptyStyle.Render(strings.Repeat(p.EmptyChar, empty)))

	if p.ShowValue {
		sb.WriteString(fmt.Sprintf(" %3d%%", int(p.Percent()*100+0.5)))
	}

	return p.Style.Render(sb.String())
}
