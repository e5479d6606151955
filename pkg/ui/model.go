// Package ui is the terminal host of a node editor document, built on
// bubbletea.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rmax-ai/velnode/pkg/editor"
	"github.com/rmax-ai/velnode/pkg/graph"
	"github.com/rmax-ai/velnode/pkg/store"
)

const (
	pollRate       = time.Second
	maxEvents      = 20
	journalHeight  = 8
	defaultWidth   = 100
	finderHeight   = 20
	journalTimeout = 500 * time.Millisecond
)

type mode int

const (
	modeNormal mode = iota
	modeFinder
	modeConnect
)

type tickMsg time.Time

type eventsMsg struct {
	events []*store.Event
	err    error
}

// Model is the bubbletea model of the editor.
type Model struct {
	session  *editor.Session
	keys     keyMap
	help     help.Model
	finder   Finder
	viewport viewport.Model

	mode    mode
	node    int
	input   int
	field   int
	pending graph.OutputID

	events []*store.Event
	status string
	err    error
	width  int
}

// New returns a model driving session.
func New(session *editor.Session) Model {
	vp := viewport.New(defaultWidth, journalHeight)
	vp.Style = paneStyle
	return Model{
		session:  session,
		keys:     defaultKeyMap(),
		help:     help.New(),
		finder:   NewFinder(defaultWidth, finderHeight),
		viewport: vp,
		width:    defaultWidth,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadEvents(), tick())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = journalHeight
		m.finder.SetSize(msg.Width, max(msg.Height-4, 5))
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.loadEvents(), tick())

	case eventsMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.events = msg.events
			m.updateViewportContent()
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeFinder:
			return m.updateFinder(msg)
		case modeConnect:
			return m.updateConnect(msg)
		default:
			return m.updateNormal(msg)
		}
	}

	var cmd tea.Cmd
	if m.mode == modeFinder {
		m.finder.list, cmd = m.finder.list.Update(msg)
	}
	return m, cmd
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		m.selectNode(m.node - 1)
	case key.Matches(msg, m.keys.Down):
		m.selectNode(m.node + 1)
	case key.Matches(msg, m.keys.NextPort):
		m.selectInput(m.input + 1)
	case key.Matches(msg, m.keys.PrevPort):
		m.selectInput(m.input - 1)
	case key.Matches(msg, m.keys.NextField):
		m.moveField(1)
	case key.Matches(msg, m.keys.PrevField):
		m.moveField(-1)
	case key.Matches(msg, m.keys.Inc):
		return m.nudge(fineStep)
	case key.Matches(msg, m.keys.Dec):
		return m.nudge(-fineStep)
	case key.Matches(msg, m.keys.IncCoarse):
		return m.nudge(coarseStep)
	case key.Matches(msg, m.keys.DecCoarse):
		return m.nudge(-coarseStep)
	case key.Matches(msg, m.keys.Click):
		return m.click()
	case key.Matches(msg, m.keys.Add):
		m.finder.Reset()
		m.mode = modeFinder
	case key.Matches(msg, m.keys.Delete):
		return m.deleteSelected()
	case key.Matches(msg, m.keys.Connect):
		return m.beginConnect()
	case key.Matches(msg, m.keys.Disconnect):
		return m.disconnect()
	}
	return m, nil
}

func (m Model) updateFinder(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.finder.Filtering() {
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.mode = modeNormal
			return m, nil
		case msg.String() == "enter":
			t, ok := m.finder.Selected()
			m.mode = modeNormal
			if !ok {
				return m, nil
			}
			var id graph.NodeID
			err := m.session.Do(func(d *editor.Document) error {
				var err error
				id, err = d.CreateNode(t)
				return err
			})
			if err != nil {
				m.status = errorStyle.Render(err.Error())
				return m, nil
			}
			m.status = okStyle.Render("added " + t.Label())
			m.selectNodeID(id)
			return m, m.loadEvents()
		}
	}
	var cmd tea.Cmd
	m.finder.list, cmd = m.finder.list.Update(msg)
	return m, cmd
}

func (m Model) updateConnect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeNormal
		m.pending = ""
		m.status = subtleStyle.Render("connect cancelled")
	case key.Matches(msg, m.keys.Up):
		m.selectNode(m.node - 1)
	case key.Matches(msg, m.keys.Down):
		m.selectNode(m.node + 1)
	case key.Matches(msg, m.keys.NextPort):
		m.selectInput(m.input + 1)
	case key.Matches(msg, m.keys.PrevPort):
		m.selectInput(m.input - 1)
	case key.Matches(msg, m.keys.Click), key.Matches(msg, m.keys.Connect):
		in, ok := m.currentInput()
		if !ok {
			m.status = errorStyle.Render("select an input to connect to")
			return m, nil
		}
		out := m.pending
		m.mode = modeNormal
		m.pending = ""
		err := m.session.Do(func(d *editor.Document) error { return d.Connect(out, in) })
		if err != nil {
			m.status = errorStyle.Render(err.Error())
		} else {
			m.status = okStyle.Render("connected")
		}
		return m, m.loadEvents()
	}
	return m, nil
}

func (m Model) click() (tea.Model, tea.Cmd) {
	id, ok := m.currentNode()
	if !ok {
		return m, nil
	}
	var emitted []editor.Response
	err := m.session.Do(func(d *editor.Document) error {
		var err error
		emitted, err = d.Click(id)
		return err
	})
	if err != nil {
		m.status = errorStyle.Render(err.Error())
		return m, nil
	}
	kinds := make([]string, len(emitted))
	for i, r := range emitted {
		kinds[i] = r.Kind()
	}
	m.status = subtleStyle.Render(strings.Join(kinds, ", "))
	return m, m.loadEvents()
}

func (m Model) nudge(delta float64) (tea.Model, tea.Cmd) {
	in, ok := m.currentInput()
	if !ok {
		return m, nil
	}
	err := m.session.Do(func(d *editor.Document) error {
		param, ok := d.Graph().Input(in)
		if !ok {
			return fmt.Errorf("%w: %s", graph.ErrInputNotFound, in)
		}
		ed := ValueEditor{Value: param.Value, Field: m.field}
		return d.NudgeInput(in, ed.Current(), delta)
	})
	if err != nil {
		m.status = errorStyle.Render(err.Error())
		return m, nil
	}
	return m, m.loadEvents()
}

func (m Model) deleteSelected() (tea.Model, tea.Cmd) {
	id, ok := m.currentNode()
	if !ok {
		return m, nil
	}
	if err := m.session.Do(func(d *editor.Document) error { return d.DeleteNode(id) }); err != nil {
		m.status = errorStyle.Render(err.Error())
		return m, nil
	}
	m.status = okStyle.Render("deleted node")
	m.selectNode(m.node)
	return m, m.loadEvents()
}

func (m Model) beginConnect() (tea.Model, tea.Cmd) {
	id, ok := m.currentNode()
	if !ok {
		return m, nil
	}
	var out graph.OutputID
	m.session.View(func(d *editor.Document) {
		if n, ok := d.Graph().Node(id); ok && len(n.Outputs) > 0 {
			out = n.Outputs[0].ID
		}
	})
	if out == "" {
		m.status = errorStyle.Render("node has no output")
		return m, nil
	}
	m.pending = out
	m.mode = modeConnect
	m.status = subtleStyle.Render("pick an input and press enter, esc to cancel")
	return m, nil
}

func (m Model) disconnect() (tea.Model, tea.Cmd) {
	in, ok := m.currentInput()
	if !ok {
		return m, nil
	}
	if err := m.session.Do(func(d *editor.Document) error { return d.Disconnect(in) }); err != nil {
		m.status = errorStyle.Render(err.Error())
		return m, nil
	}
	return m, m.loadEvents()
}

func (m Model) nodeIDs() []graph.NodeID {
	var ids []graph.NodeID
	m.session.View(func(d *editor.Document) {
		for _, n := range d.Graph().Nodes() {
			ids = append(ids, n.ID)
		}
	})
	return ids
}

func (m Model) currentNode() (graph.NodeID, bool) {
	ids := m.nodeIDs()
	if m.node < 0 || m.node >= len(ids) {
		return "", false
	}
	return ids[m.node], true
}

func (m Model) currentInput() (graph.InputID, bool) {
	id, ok := m.currentNode()
	if !ok {
		return "", false
	}
	var in graph.InputID
	m.session.View(func(d *editor.Document) {
		if n, ok := d.Graph().Node(id); ok && m.input >= 0 && m.input < len(n.Inputs) {
			in = n.Inputs[m.input].ID
		}
	})
	return in, in != ""
}

func (m *Model) selectNode(i int) {
	m.node = clamp(i, 0, len(m.nodeIDs())-1)
	m.input = 0
	m.field = 0
}

func (m *Model) selectNodeID(id graph.NodeID) {
	for i, other := range m.nodeIDs() {
		if other == id {
			m.selectNode(i)
			return
		}
	}
}

func (m *Model) selectInput(i int) {
	id, ok := m.currentNode()
	if !ok {
		return
	}
	var count int
	m.session.View(func(d *editor.Document) {
		if n, ok := d.Graph().Node(id); ok {
			count = len(n.Inputs)
		}
	})
	m.input = clamp(i, 0, count-1)
	m.field = 0
}

// moveField shifts the field cursor within the selected input's value.
func (m *Model) moveField(delta int) {
	in, ok := m.currentInput()
	if !ok {
		return
	}
	m.session.View(func(d *editor.Document) {
		if param, ok := d.Graph().Input(in); ok {
			m.field = ValueEditor{Value: param.Value, Field: m.field}.Move(delta).Field
		}
	})
}

func (m *Model) updateViewportContent() {
	var sb strings.Builder
	for _, e := range m.events {
		ts := e.TsEvent.Local().Format("15:04:05")

		var typeStr string
		switch e.EventType {
		case store.EventTypeConnectionRejected:
			typeStr = rejectStyle.Render(string(e.EventType))
		case store.EventTypeNodeCreated, store.EventTypeConnectionAdded:
			typeStr = addStyle.Render(string(e.EventType))
		case store.EventTypeActiveSet, store.EventTypeActiveCleared:
			typeStr = activeStyle.Render(string(e.EventType))
		default:
			typeStr = infoStyle.Render(string(e.EventType))
		}

		node := e.NodeID
		if len(node) > 8 {
			node = node[:8]
		}
		fmt.Fprintf(&sb, "%s %s %s\n",
			eventTimeStyle.Render(ts),
			eventTypeStyle.Render(typeStr),
			subtleStyle.Render(node),
		)
	}
	m.viewport.SetContent(sb.String())
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	if m.mode == modeFinder {
		return m.finder.View()
	}

	var nodes []string
	var count int
	m.session.Do(func(d *editor.Document) error {
		// One redraw pass: drop a stale active id, then draw every node
		// against the same state.
		d.Bodies()
		g, state := d.Graph(), d.State()
		all := g.Nodes()
		count = len(all)
		for i, n := range all {
			view := NodeView{
				Selected: i == m.node,
				Input:    -1,
				Field:    m.field,
			}
			if view.Selected {
				view.Input = m.input
			}
			if m.pending != "" {
				if out, ok := g.Output(m.pending); ok && out.Node == n.ID {
					view.Pending = true
				}
			}
			nodes = append(nodes, RenderNode(n.ID, g, state, view))
		}
		return nil
	})

	var canvas string
	if count == 0 {
		canvas = subtleStyle.Render("Empty graph. Press a to add a node.")
	} else {
		canvas = lipgloss.JoinVertical(lipgloss.Left, layoutRows(nodes, m.width)...)
	}

	header := headerStyle.Width(m.width).Render("Journal")
	var status string
	if m.err != nil {
		status = errorStyle.Render(fmt.Sprintf("Journal offline: %v", m.err))
	} else {
		status = okStyle.Render(fmt.Sprintf("%d nodes • %d events", count, len(m.events)))
	}
	if m.status != "" {
		status += "  " + m.status
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		canvas,
		header,
		m.viewport.View(),
		status,
		m.help.View(m.keys),
	)
}

// layoutRows packs rendered nodes left to right, wrapping at width.
func layoutRows(nodes []string, width int) []string {
	var rows []string
	var row []string
	used := 0
	for _, n := range nodes {
		w := lipgloss.Width(n)
		if len(row) > 0 && used+w > width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row, used = nil, 0
		}
		row = append(row, n)
		used += w
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return rows
}

// Commands

func (m Model) loadEvents() tea.Cmd {
	session := m.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), journalTimeout)
		defer cancel()
		var journal store.Journal
		session.View(func(d *editor.Document) { journal = d.Journal() })
		if journal == nil {
			return eventsMsg{}
		}
		events, err := journal.ReadRecentEvents(ctx, maxEvents)
		return eventsMsg{events: events, err: err}
	}
}

func tick() tea.Cmd {
	return tea.Tick(pollRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
