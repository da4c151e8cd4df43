package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Cell is one slot of a StepIndicator
type Cell int

const (
	CellEmpty Cell = iota
	CellOne
	CellTwo
	CellAccent
)

// StepIndicator draws a row of beat or pattern cells with the playing
// one highlighted.
type StepIndicator struct {
	Cells  []Cell
	Active int // -1 for none

	EmptyStyle  lipgloss.Style
	OneStyle    lipgloss.Style
	TwoStyle    lipgloss.Style
	AccentStyle lipgloss.Style
	ActiveStyle lipgloss.Style
}

// NewStepIndicator creates an indicator with n empty cells
func NewStepIndicator(n int) StepIndicator {
	return StepIndicator{
		Cells:       make([]Cell, n),
		Active:      -1,
		EmptyStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		OneStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("86")),
		TwoStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		AccentStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		ActiveStyle: lipgloss.NewStyle().Background(lipgloss.Color("236")).Bold(true),
	}
}

func (s StepIndicator) glyph(c Cell) (string, lipgloss.Style) {
	switch c {
	case CellOne:
		return "1", s.OneStyle
	case CellTwo:
		return "2", s.TwoStyle
	case CellAccent:
		return "●", s.AccentStyle
	default:
		return "·", s.EmptyStyle
	}
}

// View renders the cells as "[1] [·] [2] ..."
func (s StepIndicator) View() string {
	parts := make([]string, len(s.Cells))
	for i, c := range s.Cells {
		g, style := s.glyph(c)
		if i == s.Active {
			if c == CellEmpty {
				g = "○"
			}
			style = style.Inherit(s.ActiveStyle)
			parts[i] = style.Render(">" + g + "<")
			continue
		}
		parts[i] = style.Render("[" + g + "]")
	}
	return strings.Join(parts, " ")
}
