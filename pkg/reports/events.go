package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// EventReport lists raw journal events.
type EventReport struct {
	store ReportStore
}

func NewEventReport(s ReportStore) *EventReport {
	return &EventReport{store: s}
}

func (r *EventReport) Generate(ctx context.Context, params ReportParams) (io.Reader, error) {
	events, err := r.store.QueryEvents(ctx, params.filter())
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}

	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	headers := []string{"event_id", "timestamp", "event_type", "schema_version", "document_id", "node_id", "payload"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write headers: %w", err)
	}

	for _, e := range events {
		row := []string{
			string(e.EventID),
			e.TsEvent.UTC().Format(time.RFC3339Nano),
			string(e.EventType),
			strconv.Itoa(e.SchemaVersion),
			e.DocumentID,
			e.NodeID,
			string(e.Payload),
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
