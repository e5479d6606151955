package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/rmax-ai/velnode/pkg/store"
)

// ActivityReport aggregates journal events per node and event type.
type ActivityReport struct {
	store ReportStore
}

func NewActivityReport(s ReportStore) *ActivityReport {
	return &ActivityReport{store: s}
}

type activityKey struct {
	node      string
	eventType store.EventType
}

type activityStat struct {
	count       int
	first, last time.Time
}

func (r *ActivityReport) Generate(ctx context.Context, params ReportParams) (io.Reader, error) {
	events, err := r.store.QueryEvents(ctx, params.filter())
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}

	stats := make(map[activityKey]*activityStat)
	for _, e := range events {
		k := activityKey{node: e.NodeID, eventType: e.EventType}
		s, ok := stats[k]
		if !ok {
			s = &activityStat{first: e.TsEvent, last: e.TsEvent}
			stats[k] = s
		}
		s.count++
		if e.TsEvent.Before(s.first) {
			s.first = e.TsEvent
		}
		if e.TsEvent.After(s.last) {
			s.last = e.TsEvent
		}
	}

	keys := make([]activityKey, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].node != keys[j].node {
			return keys[i].node < keys[j].node
		}
		return keys[i].eventType < keys[j].eventType
	})

	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	headers := []string{"node_id", "event_type", "event_count", "first_seen", "last_seen"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write headers: %w", err)
	}
	for _, k := range keys {
		s := stats[k]
		row := []string{
			k.node,
			string(k.eventType),
			strconv.Itoa(s.count),
			s.first.UTC().Format(time.RFC3339),
			s.last.UTC().Format(time.RFC3339),
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
