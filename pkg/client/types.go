package client

import (
	"github.com/rmax-ai/velnode/pkg/api"
	"github.com/rmax-ai/velnode/pkg/editor"
	"github.com/rmax-ai/velnode/pkg/store"
)

// Status is the body of /v1/health.
type Status struct {
	Status string `json:"status"`
}

type (
	Template = api.TemplateInfo
	Graph    = editor.Snapshot
	State    = editor.StateSnapshot
	Event    = store.Event
)
