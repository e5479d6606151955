package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rmax-ai/velnode/pkg/editor"
	"github.com/rmax-ai/velnode/pkg/graph"
	"github.com/rmax-ai/velnode/pkg/template"
)

// NodeView carries the cursor state the model overlays on a node.
type NodeView struct {
	Selected bool
	// Input is the index of the focused input row, or -1.
	Input int
	Field int
	// Pending marks the node whose output is waiting for a connect target.
	Pending bool
}

// RenderNode draws node id: title, input rows with their value editors or
// incoming wire, output rows, then the body control derived from state.
func RenderNode(id graph.NodeID, g *template.Graph, state editor.GraphState, view NodeView) string {
	n, ok := g.Node(id)
	if !ok {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(nodeTitleStyle.Render(n.Label))
	sb.WriteString("\n")

	for i, ref := range n.Inputs {
		in, _ := g.Input(ref.ID)
		cursor := "  "
		if view.Selected && view.Input == i {
			cursor = cursorStyle.Render("> ")
		}
		line := fmt.Sprintf("%s%s %-6s ", cursor, portStyle(in.Type).Render("●"), in.Name)
		if from, ok := g.Connection(ref.ID); ok {
			line += subtleStyle.Render("<- " + describeOutput(g, from))
		} else {
			ed := ValueEditor{
				Name:    in.Name,
				Value:   in.Value,
				Field:   view.Field,
				Focused: view.Selected && view.Input == i,
			}
			line += ed.View()
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	for _, ref := range n.Outputs {
		out, _ := g.Output(ref.ID)
		label := fmt.Sprintf("%s %s", out.Name, portStyle(out.Type).Render("●"))
		sb.WriteString(lipgloss.PlaceHorizontal(30, lipgloss.Right, label))
		sb.WriteString("\n")
	}

	body := editor.BodyFor(id, g, state)
	if body.Active {
		sb.WriteString(activeButtonStyle.Render(body.Control.Label))
	} else {
		sb.WriteString(buttonStyle.Render(body.Control.Label))
	}

	style := nodeStyle
	switch {
	case view.Pending:
		style = pendingNodeStyle
	case view.Selected:
		style = selectedNodeStyle
	}
	return style.Render(sb.String())
}

func describeOutput(g *template.Graph, id graph.OutputID) string {
	out, ok := g.Output(id)
	if !ok {
		return "?"
	}
	n, ok := g.Node(out.Node)
	if !ok {
		return out.Name
	}
	return n.Label + "." + out.Name
}
