// Package archive moves old interaction events out of the SQLite journal into
// gzipped JSON-lines objects in a blob store.
package archive

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rmax-ai/velnode/pkg/blob"
	"github.com/rmax-ai/velnode/pkg/store"
)

// ArchivedTotal counts events moved to the blob store.
var ArchivedTotal = prometheus.NewCounter(prometheus.CounterOpts{
	Name: "velnode_journal_archived_total",
	Help: "Total number of journal events archived to blob storage",
})

func init() {
	prometheus.MustRegister(ArchivedTotal)
}

// Source is the journal being drained.
type Source interface {
	ReadEventsBefore(ctx context.Context, cutoff time.Time, limit int) ([]*store.Event, error)
	DeleteEvents(ctx context.Context, ids []store.EventID) (int64, error)
}

type Config struct {
	// Retention is how long events stay in the journal.
	Retention     time.Duration
	BatchSize     int
	CheckInterval time.Duration
}

// Archiver drains events older than the retention window.
type Archiver struct {
	source Source
	blobs  blob.BlobStore
	config Config
	logger *slog.Logger
	now    func() time.Time
}

func New(source Source, blobs blob.BlobStore, cfg Config, logger *slog.Logger) *Archiver {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 500
	}
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Archiver{source: source, blobs: blobs, config: cfg, logger: logger, now: time.Now}
}

// Run archives on start and then every CheckInterval until ctx is done.
func (a *Archiver) Run(ctx context.Context) {
	a.logger.Info("archiver_started", "retention", a.config.Retention, "interval", a.config.CheckInterval)
	ticker := time.NewTicker(a.config.CheckInterval)
	defer ticker.Stop()

	for {
		if n, err := a.Drain(ctx); err != nil {
			a.logger.Error("archive_failed", "error", err)
		} else if n > 0 {
			a.logger.Info("events_archived", "count", n)
		}

		select {
		case <-ctx.Done():
			a.logger.Info("archiver_stopping")
			return
		case <-ticker.C:
		}
	}
}

// Drain archives batches until nothing older than the retention remains.
func (a *Archiver) Drain(ctx context.Context) (int, error) {
	total := 0
	for {
		n, err := a.ArchiveOnce(ctx)
		total += n
		if err != nil || n < a.config.BatchSize {
			return total, err
		}
	}
}

// ArchiveOnce writes one batch to the blob store and deletes it from the
// journal. Events are deleted only after the upload succeeds.
func (a *Archiver) ArchiveOnce(ctx context.Context) (int, error) {
	cutoff := a.now().UTC().Add(-a.config.Retention)
	events, err := a.source.ReadEventsBefore(ctx, cutoff, a.config.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to read candidate events: %w", err)
	}
	if len(events) == 0 {
		return 0, nil
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	enc := json.NewEncoder(gz)
	for _, e := range events {
		if err := enc.Encode(e); err != nil {
			gz.Close()
			return 0, fmt.Errorf("failed to encode event %s: %w", e.EventID, err)
		}
	}
	if err := gz.Close(); err != nil {
		return 0, fmt.Errorf("failed to close gzip writer: %w", err)
	}

	key := Key(events[0].TsEvent, events[len(events)-1].TsEvent)
	if err := a.blobs.Put(ctx, key, &buf); err != nil {
		return 0, fmt.Errorf("failed to upload archive: %w", err)
	}

	ids := make([]store.EventID, len(events))
	for i, e := range events {
		ids[i] = e.EventID
	}
	if _, err := a.source.DeleteEvents(ctx, ids); err != nil {
		return 0, fmt.Errorf("failed to delete archived events: %w", err)
	}

	ArchivedTotal.Add(float64(len(events)))
	a.logger.Debug("archive_written", "key", key, "events", len(events))
	return len(events), nil
}

// Key names an archive object: events/YYYY/MM/DD/<first>_<last>_<uuid>.jsonl.gz
func Key(first, last time.Time) string {
	first = first.UTC()
	year, month, day := first.Date()
	return fmt.Sprintf("events/%04d/%02d/%02d/%d_%d_%s.jsonl.gz",
		year, month, day,
		first.Unix(),
		last.UTC().Unix(),
		uuid.NewString(),
	)
}
