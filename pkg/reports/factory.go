package reports

import (
	"errors"
	"fmt"
)

var ErrUnknownReport = errors.New("unknown report type")

// NewReportGenerator creates a report generator based on the report type.
func NewReportGenerator(reportType ReportType, s ReportStore) (Generator, error) {
	switch reportType {
	case ReportTypeEvents:
		return NewEventReport(s), nil
	case ReportTypeConnections:
		return NewConnectionReport(s), nil
	case ReportTypeActivity:
		return NewActivityReport(s), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownReport, reportType)
	}
}
