package reports

import (
	"context"
	"io"

	"github.com/rmax-ai/velnode/pkg/store"
)

type ReportType string

const (
	ReportTypeEvents      ReportType = "events"
	ReportTypeConnections ReportType = "connections"
	ReportTypeActivity    ReportType = "activity"
)

// ReportTypes lists every report in the order hosts offer them.
func ReportTypes() []ReportType {
	return []ReportType{ReportTypeEvents, ReportTypeConnections, ReportTypeActivity}
}

type ReportParams struct {
	DocumentID string
	NodeID     string
	// Limit caps the number of journal events read. Zero reads all of them.
	Limit int
}

// ReportStore is the journal access reports need.
type ReportStore interface {
	QueryEvents(ctx context.Context, filter store.EventFilter) ([]*store.Event, error)
}

// Generator renders one report as CSV.
type Generator interface {
	Generate(ctx context.Context, params ReportParams) (io.Reader, error)
}

func (p ReportParams) filter(types ...store.EventType) store.EventFilter {
	return store.EventFilter{
		EventTypes: types,
		DocumentID: p.DocumentID,
		NodeID:     p.NodeID,
		Limit:      p.Limit,
	}
}
