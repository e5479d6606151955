package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rmax-ai/velnode/pkg/editor"
	"github.com/rmax-ai/velnode/pkg/value"
)

// Styles
var (
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true)

	nodeStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Width(34)

	selectedNodeStyle = nodeStyle.
				BorderForeground(lipgloss.Color("63"))

	pendingNodeStyle = nodeStyle.
				BorderForeground(lipgloss.Color("214"))

	nodeTitleStyle = lipgloss.NewStyle().Bold(true)

	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	fieldStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	focusedField = lipgloss.NewStyle().Reverse(true)

	buttonStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("238"))

	activeButtonStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Bold(true).
				Foreground(lipgloss.Color(editor.ActiveText.Hex())).
				Background(lipgloss.Color(editor.ActiveFill.Hex()))

	paneStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			PaddingRight(2)

	eventTimeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(10)
	eventTypeStyle = lipgloss.NewStyle().Width(21).Bold(true)
	rejectStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	addStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	infoStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	activeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(editor.ActiveFill.Hex()))
)

// portStyle colors a port marker by its DataType.
func portStyle(d value.DataType) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(d.Color().Hex()))
}
