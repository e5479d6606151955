package editor

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// NodesCreatedTotal counts nodes instantiated from the catalog
	NodesCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "velnode_nodes_created_total",
			Help: "Total number of nodes created, by template",
		},
		[]string{"template"},
	)

	// NodesDeletedTotal counts node deletions
	NodesDeletedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "velnode_nodes_deleted_total",
			Help: "Total number of nodes deleted",
		},
	)

	// GraphNodes tracks the node count of the most recently mutated document
	GraphNodes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "velnode_graph_nodes",
			Help: "Current number of nodes in the graph",
		},
	)

	// ConnectionsTotal counts connection attempts by outcome
	ConnectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "velnode_connections_total",
			Help: "Total number of connection attempts",
		},
		[]string{"result"},
	)

	// ResponsesAppliedTotal counts responses folded into graph state
	ResponsesAppliedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "velnode_responses_applied_total",
			Help: "Total number of node responses applied to the graph state",
		},
		[]string{"kind"},
	)

	// JournalErrorsTotal counts events that could not be journaled
	JournalErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "velnode_journal_errors_total",
			Help: "Total number of interaction events that failed to persist",
		},
	)
)

func init() {
	prometheus.MustRegister(NodesCreatedTotal)
	prometheus.MustRegister(NodesDeletedTotal)
	prometheus.MustRegister(GraphNodes)
	prometheus.MustRegister(ConnectionsTotal)
	prometheus.MustRegister(ResponsesAppliedTotal)
	prometheus.MustRegister(JournalErrorsTotal)
}
