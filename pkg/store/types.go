package store

import (
	"context"
	"encoding/json"
	"time"
)

// EventType represents the kind of interaction event.
type EventType string

const (
	EventTypeNodeCreated        EventType = "node_created"
	EventTypeNodeDeleted        EventType = "node_deleted"
	EventTypeConnectionAdded    EventType = "connection_added"
	EventTypeConnectionRemoved  EventType = "connection_removed"
	EventTypeConnectionRejected EventType = "connection_rejected"
	EventTypeValueEdited        EventType = "value_edited"
	EventTypeActiveSet          EventType = "active_set"
	EventTypeActiveCleared      EventType = "active_cleared"
)

// SchemaVersion is written on every event.
const SchemaVersion = 1

// EventID is a unique identifier for an event.
type EventID string

// Event is the envelope for every journaled editor transition.
type Event struct {
	EventID       EventID         `json:"event_id"`
	EventType     EventType       `json:"event_type"`
	SchemaVersion int             `json:"schema_version"`
	TsEvent       time.Time       `json:"ts_event"`
	DocumentID    string          `json:"document_id"`
	NodeID        string          `json:"node_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// EventFilter defines filters for querying events.
type EventFilter struct {
	EventTypes []EventType
	DocumentID string
	NodeID     string
	Limit      int
}

// Journal is implemented by every event backend.
type Journal interface {
	AppendEvent(ctx context.Context, event *Event) error
	ReadRecentEvents(ctx context.Context, limit int) ([]*Event, error)
}
