package editor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rmax-ai/velnode/pkg/graph"
	"github.com/rmax-ai/velnode/pkg/store"
	"github.com/rmax-ai/velnode/pkg/template"
	"github.com/rmax-ai/velnode/pkg/value"
)

// ErrUnknownTemplate is returned by CreateNode for values outside the catalog.
var ErrUnknownTemplate = errors.New("editor: unknown template")

const journalTimeout = 2 * time.Second

// Document is one editor document: a graph built from the template catalog
// and the interaction state attached to it. A Document is not safe for
// concurrent use; wrap it in a Session when more than one goroutine needs it.
type Document struct {
	id      string
	graph   *template.Graph
	state   GraphState
	journal store.Journal
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Document.
type Option func(*Document)

// WithJournal records every transition of the document to j.
func WithJournal(j store.Journal) Option {
	return func(d *Document) { d.journal = j }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(d *Document) { d.logger = l }
}

// WithClock overrides the clock used for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(d *Document) { d.now = now }
}

// WithID fixes the document id instead of generating one.
func WithID(id string) Option {
	return func(d *Document) { d.id = id }
}

// New returns an empty document.
func New(opts ...Option) *Document {
	d := &Document{
		id:     uuid.NewString(),
		graph:  graph.New[template.NodeData, value.DataType, value.Value](),
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ID returns the document id written on every journaled event.
func (d *Document) ID() string { return d.id }

// Graph returns the graph. Callers must treat it as read-only and mutate the
// document through its methods.
func (d *Document) Graph() *template.Graph { return d.graph }

// State returns a copy of the interaction state.
func (d *Document) State() GraphState { return d.state }

// CreateNode instantiates t as a new node.
func (d *Document) CreateNode(t template.Template) (graph.NodeID, error) {
	if !t.Valid() {
		return "", fmt.Errorf("%w: %d", ErrUnknownTemplate, int(t))
	}
	id := d.graph.AddNode(t.GraphLabel(), t.UserData())
	t.Build(d.graph, id)

	NodesCreatedTotal.WithLabelValues(t.Slug()).Inc()
	GraphNodes.Set(float64(d.graph.Len()))
	d.logger.Debug("node_created", "document_id", d.id, "node_id", id, "template", t.Slug())
	d.record(store.EventTypeNodeCreated, id, map[string]any{
		"template": t.Slug(),
		"label":    t.GraphLabel(),
	})
	return id, nil
}

// DeleteNode removes a node with its ports and wires. An active id that
// pointed at the node is cleared.
func (d *Document) DeleteNode(id graph.NodeID) error {
	n, removed, err := d.graph.RemoveNode(id)
	if err != nil {
		return err
	}
	NodesDeletedTotal.Inc()
	GraphNodes.Set(float64(d.graph.Len()))
	d.logger.Debug("node_deleted", "document_id", d.id, "node_id", id, "connections_removed", len(removed))
	for _, c := range removed {
		// Wires into the deleted node are journaled against it; wires out of
		// it against the node that lost its input.
		node := id
		if in, ok := d.graph.Input(c.Input); ok {
			node = in.Node
		}
		d.recordRemoved(node, c.Output, c.Input, "node_deleted")
	}
	d.record(store.EventTypeNodeDeleted, id, map[string]any{
		"template":            n.UserData.Template().Slug(),
		"connections_removed": len(removed),
	})
	d.reconcile("node_deleted")
	return nil
}

// Connect wires output into input. Both ports must carry the same DataType.
// A wire already feeding input is replaced.
func (d *Document) Connect(output graph.OutputID, input graph.InputID) error {
	prev, wired := d.graph.Connection(input)
	if err := d.graph.Connect(output, input); err != nil {
		ConnectionsTotal.WithLabelValues("rejected").Inc()
		d.logger.Info("connection_rejected", "document_id", d.id, "output", output, "input", input, "error", err)
		var node graph.NodeID
		if in, ok := d.graph.Input(input); ok {
			node = in.Node
		}
		d.record(store.EventTypeConnectionRejected, node, map[string]any{
			"output": output,
			"input":  input,
			"reason": err.Error(),
		})
		return err
	}
	in, _ := d.graph.Input(input)
	if wired && prev != output {
		d.recordRemoved(in.Node, prev, input, "replaced")
	}
	ConnectionsTotal.WithLabelValues("accepted").Inc()
	d.logger.Debug("connection_added", "document_id", d.id, "output", output, "input", input)
	d.record(store.EventTypeConnectionAdded, in.Node, map[string]any{
		"output": output,
		"input":  input,
		"type":   in.Type,
	})
	return nil
}

// Disconnect removes the wire into input.
func (d *Document) Disconnect(input graph.InputID) error {
	in, ok := d.graph.Input(input)
	if !ok {
		return fmt.Errorf("%w: %s", graph.ErrInputNotFound, input)
	}
	out, ok := d.graph.Disconnect(input)
	if !ok {
		return nil
	}
	d.recordRemoved(in.Node, out, input, "disconnected")
	return nil
}

func (d *Document) recordRemoved(node graph.NodeID, output graph.OutputID, input graph.InputID, reason string) {
	d.logger.Debug("connection_removed", "document_id", d.id, "output", output, "input", input, "reason", reason)
	d.record(store.EventTypeConnectionRemoved, node, map[string]any{
		"output": output,
		"input":  input,
		"reason": reason,
	})
}

// SetInputValue replaces the locally edited value of input. The value must
// keep the port's DataType.
func (d *Document) SetInputValue(input graph.InputID, v value.Value) error {
	in, ok := d.graph.Input(input)
	if !ok {
		return fmt.Errorf("%w: %s", graph.ErrInputNotFound, input)
	}
	if v.Kind() != in.Type {
		return &value.TypeMismatchError{Expected: in.Type, Actual: v.Kind()}
	}
	if err := d.graph.SetInputValue(input, v); err != nil {
		return err
	}
	d.record(store.EventTypeValueEdited, in.Node, map[string]any{
		"input": input,
		"name":  in.Name,
		"value": v,
	})
	return nil
}

// NudgeInput adds delta to one field of input's value.
func (d *Document) NudgeInput(input graph.InputID, f value.Field, delta float64) error {
	in, ok := d.graph.Input(input)
	if !ok {
		return fmt.Errorf("%w: %s", graph.ErrInputNotFound, input)
	}
	v := in.Value
	if err := v.Nudge(f, delta); err != nil {
		return err
	}
	return d.SetInputValue(input, v)
}

// Apply folds responses into the state in order. It is the only path that
// changes the active node apart from deletion.
func (d *Document) Apply(responses ...Response) {
	for _, r := range responses {
		d.state.Apply(r)
		ResponsesAppliedTotal.WithLabelValues(r.Kind()).Inc()
		switch r := r.(type) {
		case SetActive:
			d.logger.Debug("active_set", "document_id", d.id, "node_id", r.Node)
			d.record(store.EventTypeActiveSet, r.Node, nil)
		case ClearActive:
			d.logger.Debug("active_cleared", "document_id", d.id)
			d.record(store.EventTypeActiveCleared, "", nil)
		}
	}
}

// Bodies runs one redraw pass: it drops a stale active id, then derives the
// body of every node in creation order.
func (d *Document) Bodies() []Body {
	d.reconcile("stale")
	nodes := d.graph.Nodes()
	bodies := make([]Body, 0, len(nodes))
	for _, n := range nodes {
		bodies = append(bodies, BodyFor(n.ID, d.graph, d.state))
	}
	return bodies
}

// Click presses the body control of node id and applies what it emits.
func (d *Document) Click(id graph.NodeID) ([]Response, error) {
	if !d.graph.HasNode(id) {
		return nil, fmt.Errorf("%w: %s", graph.ErrNodeNotFound, id)
	}
	d.reconcile("stale")
	responses := BodyFor(id, d.graph, d.state).Click()
	d.Apply(responses...)
	return responses, nil
}

// reconcile drops an active id whose node no longer exists and journals the
// clearing.
func (d *Document) reconcile(reason string) {
	stale, _ := d.state.Active()
	if !d.state.Reconcile(d.graph) {
		return
	}
	d.logger.Debug("active_cleared", "document_id", d.id, "node_id", stale, "reason", reason)
	d.record(store.EventTypeActiveCleared, stale, map[string]any{"reason": reason})
}

// Journal returns the journal the document records to, or nil. Journals are
// safe for concurrent use: read it outside the Session lock.
func (d *Document) Journal() store.Journal { return d.journal }

func (d *Document) record(t store.EventType, node graph.NodeID, payload map[string]any) {
	if d.journal == nil {
		return
	}
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			JournalErrorsTotal.Inc()
			d.logger.Error("failed to encode event payload", "event_type", t, "error", err)
			return
		}
		raw = b
	}
	event := &store.Event{
		EventID:       store.EventID(uuid.NewString()),
		EventType:     t,
		SchemaVersion: store.SchemaVersion,
		TsEvent:       d.now().UTC(),
		DocumentID:    d.id,
		NodeID:        string(node),
		Payload:       raw,
	}

	ctx, cancel := context.WithTimeout(context.Background(), journalTimeout)
	defer cancel()
	if err := d.journal.AppendEvent(ctx, event); err != nil {
		JournalErrorsTotal.Inc()
		level := slog.LevelWarn
		if errors.Is(err, context.DeadlineExceeded) {
			level = slog.LevelError
		}
		d.logger.Log(ctx, level, "failed to journal event", "event_type", t, "event_id", event.EventID, "error", err)
	}
}
