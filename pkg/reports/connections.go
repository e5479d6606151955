package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rmax-ai/velnode/pkg/store"
)

// ConnectionReport lists every wire added, removed or refused.
type ConnectionReport struct {
	store ReportStore
}

func NewConnectionReport(s ReportStore) *ConnectionReport {
	return &ConnectionReport{store: s}
}

type connectionPayload struct {
	Output string `json:"output"`
	Input  string `json:"input"`
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

var connectionResults = map[store.EventType]string{
	store.EventTypeConnectionAdded:    "added",
	store.EventTypeConnectionRemoved:  "removed",
	store.EventTypeConnectionRejected: "rejected",
}

func (r *ConnectionReport) Generate(ctx context.Context, params ReportParams) (io.Reader, error) {
	events, err := r.store.QueryEvents(ctx, params.filter(
		store.EventTypeConnectionAdded,
		store.EventTypeConnectionRemoved,
		store.EventTypeConnectionRejected,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}

	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	headers := []string{"timestamp", "result", "node_id", "output", "input", "type", "reason"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write headers: %w", err)
	}

	for _, e := range events {
		var p connectionPayload
		if err := json.Unmarshal(e.Payload, &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal payload for event %s: %w", e.EventID, err)
		}
		row := []string{
			e.TsEvent.UTC().Format(time.RFC3339Nano),
			connectionResults[e.EventType],
			e.NodeID,
			p.Output,
			p.Input,
			p.Type,
			p.Reason,
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush writer: %w", err)
	}
	return buf, nil
}
