// Package api serves a read-only HTTP view of a live editor document.
package api

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rmax-ai/velnode/pkg/editor"
	"github.com/rmax-ai/velnode/pkg/reports"
	"github.com/rmax-ai/velnode/pkg/store"
)

type contextKey string

const traceIDKey contextKey = "trace_id"

const (
	defaultEventLimit = 50
	maxEventLimit     = 1000
)

// Server encapsulates the inspection HTTP server
type Server struct {
	session *editor.Session
	reports reports.ReportStore
	server  *http.Server
	logger  *slog.Logger
}

// NewServer creates a server for session listening on addr.
func NewServer(session *editor.Session, addr string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{session: session, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/health", handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/v1/templates", s.handleTemplates)
	mux.HandleFunc("/v1/graph", s.handleGraph)
	mux.HandleFunc("/v1/state", s.handleState)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/reports/", s.handleReport)

	handler := s.withLogging(s.withRecovery(withSecureHeaders(mux)))

	if addr == "" {
		addr = "127.0.0.1:8091"
	}
	s.server = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  15 * time.Second,
	}
	return s
}

// SetReportStore enables /v1/reports. Only the SQLite journal can serve
// report queries.
func (s *Server) SetReportStore(rs reports.ReportStore) {
	s.reports = rs
}

// Handler exposes the full middleware chain.
func (s *Server) Handler() http.Handler { return s.server.Handler }

// Start runs the HTTP server (blocking)
func (s *Server) Start() error {
	s.logger.Info("server_starting", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("server_stopping")
	return s.server.Shutdown(ctx)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, `{"error":"method_not_allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, `{"error":"method_not_allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	s.writeJSON(w, r, Templates())
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, `{"error":"method_not_allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	var snap editor.Snapshot
	s.session.View(func(d *editor.Document) { snap = d.Snapshot() })
	s.writeJSON(w, r, snap)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, `{"error":"method_not_allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	var state editor.StateSnapshot
	s.session.View(func(d *editor.Document) { state = d.StateSnapshot() })
	s.writeJSON(w, r, state)
}

// handleEvents returns the most recent journal events, oldest first.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, `{"error":"method_not_allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	limit := defaultEventLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		val, err := strconv.Atoi(l)
		if err != nil || val <= 0 {
			http.Error(w, `{"error":"invalid_limit"}`, http.StatusBadRequest)
			return
		}
		limit = min(val, maxEventLimit)
	}

	var journal store.Journal
	s.session.View(func(d *editor.Document) { journal = d.Journal() })
	if journal == nil {
		s.writeJSON(w, r, []*store.Event{})
		return
	}

	events, err := journal.ReadRecentEvents(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed_to_read_events", "trace_id", getTraceID(r.Context()), "error", err)
		http.Error(w, `{"error":"internal_server_error"}`, http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []*store.Event{}
	}
	s.writeJSON(w, r, events)
}

// handleReport streams a CSV report: /v1/reports/{events|connections|activity}
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, `{"error":"method_not_allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	if s.reports == nil {
		http.Error(w, `{"error":"reports_unavailable"}`, http.StatusNotFound)
		return
	}

	reportType := reports.ReportType(strings.TrimPrefix(r.URL.Path, "/v1/reports/"))
	gen, err := reports.NewReportGenerator(reportType, s.reports)
	if errors.Is(err, reports.ErrUnknownReport) {
		http.Error(w, `{"error":"unknown_report"}`, http.StatusNotFound)
		return
	}

	q := r.URL.Query()
	params := reports.ReportParams{NodeID: q.Get("node_id")}
	if l := q.Get("limit"); l != "" {
		val, err := strconv.Atoi(l)
		if err != nil || val <= 0 {
			http.Error(w, `{"error":"invalid_limit"}`, http.StatusBadRequest)
			return
		}
		params.Limit = val
	}
	if q.Get("all_documents") == "" {
		s.session.View(func(d *editor.Document) { params.DocumentID = d.ID() })
	}

	body, err := gen.Generate(r.Context(), params)
	if err != nil {
		s.logger.Error("failed_to_generate_report", "trace_id", getTraceID(r.Context()), "report", reportType, "error", err)
		http.Error(w, `{"error":"internal_server_error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", string(reportType)+".csv"))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		s.logger.Error("failed_to_write_report", "trace_id", getTraceID(r.Context()), "error", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed_to_encode_response", "trace_id", getTraceID(r.Context()), "path", r.URL.Path, "error", err)
	}
}

// Middleware: Panic Recovery
func (s *Server) withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.logger.Error("panic_recovered", "error", fmt.Sprint(err), "path", r.URL.Path)
				http.Error(w, `{"error":"internal_server_error"}`, http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Middleware: Request Logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		traceID := r.Header.Get("X-Trace-ID")
		if traceID == "" {
			traceID = generateTraceID()
		}
		r = r.WithContext(context.WithValue(r.Context(), traceIDKey, traceID))

		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		w.Header().Set("X-Trace-ID", traceID)

		next.ServeHTTP(ww, r)

		s.logger.Info("http_request",
			"trace_id", traceID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func generateTraceID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}

func getTraceID(ctx context.Context) string {
	if v, ok := ctx.Value(traceIDKey).(string); ok {
		return v
	}
	return ""
}

// statusWriter captures HTTP status code
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Middleware: Secure Headers
func withSecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")

		next.ServeHTTP(w, r)
	})
}
