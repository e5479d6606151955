// Package mcp exposes an in-process editor document to agents over the Model
// Context Protocol.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/rmax-ai/velnode/pkg/api"
	"github.com/rmax-ai/velnode/pkg/editor"
	"github.com/rmax-ai/velnode/pkg/graph"
	"github.com/rmax-ai/velnode/pkg/template"
	"github.com/rmax-ai/velnode/pkg/value"
)

const graphURI = "velnode://graph"

// Server adapts an editor session to the Model Context Protocol.
type Server struct {
	mcpServer *server.MCPServer
	session   *editor.Session
	logger    *slog.Logger
}

// NewServer creates a new MCP server that owns session.
func NewServer(session *editor.Session, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		mcpServer: server.NewMCPServer("velnode", version),
		session:   session,
		logger:    logger,
	}
	s.registerResources()
	s.registerTools()
	s.registerPrompts()
	return s
}

// Serve starts the MCP server on stdio.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcpServer)
}

// --- Resources ---

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(
		graphURI,
		"Node Graph",
		mcp.WithResourceDescription("Nodes, ports, local values, connections and the active node"),
		mcp.WithMIMEType("application/json"),
	), s.handleReadGraph)
}

// --- Tools ---

func (s *Server) registerTools() {
	slugs := make([]string, 0, len(template.All()))
	for _, t := range template.All() {
		slugs = append(slugs, t.Slug())
	}

	s.mcpServer.AddTool(mcp.NewTool(
		"list_templates",
		mcp.WithDescription("List the node templates with their input and output ports."),
	), s.handleListTemplates)

	s.mcpServer.AddTool(mcp.NewTool(
		"create_node",
		mcp.WithDescription("Create a node from a template. Returns the node with its port ids."),
		mcp.WithString("template", mcp.Required(), mcp.Enum(slugs...), mcp.Description("Template slug")),
	), s.handleCreateNode)

	s.mcpServer.AddTool(mcp.NewTool(
		"delete_node",
		mcp.WithDescription("Delete a node with its ports and connections."),
		mcp.WithString("node_id", mcp.Required()),
	), s.handleDeleteNode)

	s.mcpServer.AddTool(mcp.NewTool(
		"connect",
		mcp.WithDescription("Wire an output port into an input port. Both ports must have the same data type."),
		mcp.WithString("from_node", mcp.Required(), mcp.Description("Node owning the output")),
		mcp.WithString("output", mcp.Description("Output port name (default \"out\")")),
		mcp.WithString("to_node", mcp.Required(), mcp.Description("Node owning the input")),
		mcp.WithString("input", mcp.Required(), mcp.Description("Input port name")),
	), s.handleConnect)

	s.mcpServer.AddTool(mcp.NewTool(
		"disconnect",
		mcp.WithDescription("Remove the connection into an input port."),
		mcp.WithString("node_id", mcp.Required()),
		mcp.WithString("input", mcp.Required(), mcp.Description("Input port name")),
	), s.handleDisconnect)

	s.mcpServer.AddTool(mcp.NewTool(
		"set_input_value",
		mcp.WithDescription("Set the local value of an input port. Scalar ports take 'value', 2d vector ports take 'x' and 'y'."),
		mcp.WithString("node_id", mcp.Required()),
		mcp.WithString("input", mcp.Required(), mcp.Description("Input port name")),
		mcp.WithNumber("value", mcp.Description("Scalar value")),
		mcp.WithNumber("x", mcp.Description("Vector x")),
		mcp.WithNumber("y", mcp.Description("Vector y")),
	), s.handleSetInputValue)

	s.mcpServer.AddTool(mcp.NewTool(
		"set_active",
		mcp.WithDescription("Make a node the active node."),
		mcp.WithString("node_id", mcp.Required()),
	), s.handleSetActive)

	s.mcpServer.AddTool(mcp.NewTool(
		"clear_active",
		mcp.WithDescription("Clear the active node."),
	), s.handleClearActive)

	s.mcpServer.AddTool(mcp.NewTool(
		"click_body",
		mcp.WithDescription("Press the body button of a node, as a user would. Toggles whether it is active."),
		mcp.WithString("node_id", mcp.Required()),
	), s.handleClickBody)
}

// --- Prompts ---

func (s *Server) registerPrompts() {
	s.mcpServer.AddPrompt(mcp.NewPrompt(
		"velnode-aware",
		mcp.WithPromptDescription("Explains velnode concepts (templates, ports, data types, the active node)"),
	), s.handleGetPrompt)
}

// --- Handlers ---

func (s *Server) handleReadGraph(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	var snap editor.Snapshot
	s.session.View(func(d *editor.Document) { snap = d.Snapshot() })

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal graph: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleListTemplates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(api.Templates())
}

func (s *Server) handleCreateNode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t, err := template.Parse(mcp.ParseString(request, "template", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var node editor.NodeSnapshot
	err = s.session.Do(func(d *editor.Document) error {
		id, err := d.CreateNode(t)
		if err != nil {
			return err
		}
		node = nodeSnapshot(d, id)
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.logger.Info("mcp_node_created", "node_id", node.ID, "template", t.Slug())
	return jsonResult(node)
}

func (s *Server) handleDeleteNode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := graph.NodeID(mcp.ParseString(request, "node_id", ""))
	if err := s.session.Do(func(d *editor.Document) error { return d.DeleteNode(id) }); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted %s", id)), nil
}

func (s *Server) handleConnect(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from := graph.NodeID(mcp.ParseString(request, "from_node", ""))
	output := mcp.ParseString(request, "output", "out")
	to := graph.NodeID(mcp.ParseString(request, "to_node", ""))
	input := mcp.ParseString(request, "input", "")

	err := s.session.Do(func(d *editor.Document) error {
		out, err := d.Graph().OutputNamed(from, output)
		if err != nil {
			return err
		}
		in, err := d.Graph().InputNamed(to, input)
		if err != nil {
			return err
		}
		return d.Connect(out, in)
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("connected %s.%s -> %s.%s", from, output, to, input)), nil
}

func (s *Server) handleDisconnect(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	node := graph.NodeID(mcp.ParseString(request, "node_id", ""))
	input := mcp.ParseString(request, "input", "")

	err := s.session.Do(func(d *editor.Document) error {
		in, err := d.Graph().InputNamed(node, input)
		if err != nil {
			return err
		}
		return d.Disconnect(in)
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("disconnected %s.%s", node, input)), nil
}

func (s *Server) handleSetInputValue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	node := graph.NodeID(mcp.ParseString(request, "node_id", ""))
	input := mcp.ParseString(request, "input", "")
	args := request.GetArguments()

	var result value.Value
	err := s.session.Do(func(d *editor.Document) error {
		id, err := d.Graph().InputNamed(node, input)
		if err != nil {
			return err
		}
		in, _ := d.Graph().Input(id)

		v := in.Value
		switch in.Type {
		case value.DataTypeScalar:
			if _, ok := args["value"]; !ok {
				return fmt.Errorf("input %q is a scalar: 'value' is required", input)
			}
			v = value.Scalar(mcp.ParseFloat64(request, "value", 0))
		case value.DataTypeVec2:
			cur, _ := v.AsVector()
			if _, ok := args["x"]; ok {
				cur.X = mcp.ParseFloat64(request, "x", 0)
			}
			if _, ok := args["y"]; ok {
				cur.Y = mcp.ParseFloat64(request, "y", 0)
			}
			v = value.VectorOf(cur)
		}
		if err := d.SetInputValue(id, v); err != nil {
			return err
		}
		result = v
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s.%s = %s", node, input, result)), nil
}

func (s *Server) handleSetActive(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := graph.NodeID(mcp.ParseString(request, "node_id", ""))
	err := s.session.Do(func(d *editor.Document) error {
		if !d.Graph().HasNode(id) {
			return fmt.Errorf("%w: %s", graph.ErrNodeNotFound, id)
		}
		d.Apply(editor.SetActive{Node: id})
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("active node: %s", id)), nil
}

func (s *Server) handleClearActive(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.session.Do(func(d *editor.Document) error {
		d.Apply(editor.ClearActive{})
		return nil
	})
	return mcp.NewToolResultText("active node cleared"), nil
}

func (s *Server) handleClickBody(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := graph.NodeID(mcp.ParseString(request, "node_id", ""))
	var emitted []editor.Response
	err := s.session.Do(func(d *editor.Document) error {
		var err error
		emitted, err = d.Click(id)
		return err
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	kinds := make([]string, len(emitted))
	for i, r := range emitted {
		kinds[i] = r.Kind()
	}
	return jsonResult(map[string]any{"node_id": id, "responses": kinds})
}

func (s *Server) handleGetPrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := request.Params.Name
	if name != "velnode-aware" {
		return nil, fmt.Errorf("prompt not found: %s", name)
	}

	promptText := `You are editing a velnode graph: nodes built from templates, wired port to port.

Concepts:
- Template: a node kind such as 'make_scalar' or 'vector_times_scalar'. Use 'list_templates'.
- Port: a named input or output with a data type, either 'scalar' or '2d vector'.
- Connection: an output wired into an input of the same data type. An input has at most one.
- Local value: the constant an input holds when it is not connected.
- Active node: at most one node is active. Clicking a node's body toggles it.

Read the 'velnode://graph' resource to see node and port ids before wiring.
`

	return mcp.NewGetPromptResult(
		"velnode-aware",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(promptText)),
		},
	), nil
}

func nodeSnapshot(d *editor.Document, id graph.NodeID) editor.NodeSnapshot {
	for _, n := range d.Snapshot().Nodes {
		if n.ID == id {
			return n
		}
	}
	return editor.NodeSnapshot{ID: id}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
