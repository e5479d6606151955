// Package editor holds the per-document interaction state of a node editor
// and the closed set of Responses that node bodies emit back to the host.
// All active-node transitions go through one reducer.
package editor

import (
	"fmt"

	"github.com/rmax-ai/velnode/pkg/graph"
)

// Response is emitted by a node body during a redraw. The set is closed:
// SetActive and ClearActive are the only implementations.
type Response interface {
	response()
	// Kind is a stable name for logs, metrics and the journal.
	Kind() string
}

// SetActive asks the host to make Node the active node.
type SetActive struct {
	Node graph.NodeID
}

// ClearActive asks the host to clear the active node, whatever it is.
type ClearActive struct{}

func (SetActive) response()   {}
func (ClearActive) response() {}

func (SetActive) Kind() string   { return "set_active" }
func (ClearActive) Kind() string { return "clear_active" }

func (r SetActive) String() string { return fmt.Sprintf("SetActive(%s)", r.Node) }
func (ClearActive) String() string { return "ClearActive" }
