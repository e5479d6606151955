package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store manages the SQLite connection and schema.
type Store struct {
	db *sql.DB
}

// NewStore initializes the SQLite database connection.
// It enables WAL mode for concurrency and durability.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	s := &Store{db: db}

	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("schema migration failed: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the necessary tables if they don't exist.
func (s *Store) migrate() error {
	// Append-only: rows are never updated. seq preserves insertion order even
	// when two events share a timestamp.
	query := `
	CREATE TABLE IF NOT EXISTS events (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		event_id TEXT NOT NULL UNIQUE,
		event_type TEXT NOT NULL,
		schema_version INTEGER NOT NULL,
		ts_event DATETIME NOT NULL,
		document_id TEXT NOT NULL,
		node_id TEXT NOT NULL DEFAULT '',
		payload JSON NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_node ON events(node_id);
	CREATE INDEX IF NOT EXISTS idx_events_document ON events(document_id);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create events table: %w", err)
	}

	return nil
}

// AppendEvent writes one event to the journal.
func (s *Store) AppendEvent(ctx context.Context, event *Event) error {
	if event == nil {
		return errors.New("event cannot be nil")
	}
	if event.EventID == "" {
		return errors.New("event_id cannot be empty")
	}
	payload := event.Payload
	if len(payload) == 0 {
		payload = json.RawMessage(`{}`)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (event_id, event_type, schema_version, ts_event, document_id, node_id, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(event.EventID),
		string(event.EventType),
		event.SchemaVersion,
		event.TsEvent.UTC(),
		event.DocumentID,
		event.NodeID,
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("failed to append event %s: %w", event.EventID, err)
	}
	return nil
}

// GetEvent returns a single event, or nil if it does not exist.
func (s *Store) GetEvent(ctx context.Context, id EventID) (*Event, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT event_id, event_type, schema_version, ts_event, document_id, node_id, payload
		FROM events WHERE event_id = ?`, string(id))

	evt, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event %s: %w", id, err)
	}
	return evt, nil
}

// ReadRecentEvents returns the newest limit events, oldest first.
func (s *Store) ReadRecentEvents(ctx context.Context, limit int) ([]*Event, error) {
	return s.QueryEvents(ctx, EventFilter{Limit: limit})
}

// QueryEvents returns the newest events matching filter, oldest first.
func (s *Store) QueryEvents(ctx context.Context, filter EventFilter) ([]*Event, error) {
	var (
		where []string
		args  []any
	)
	if len(filter.EventTypes) > 0 {
		placeholders := make([]string, len(filter.EventTypes))
		for i, t := range filter.EventTypes {
			placeholders[i] = "?"
			args = append(args, string(t))
		}
		where = append(where, fmt.Sprintf("event_type IN (%s)", strings.Join(placeholders, ", ")))
	}
	if filter.DocumentID != "" {
		where = append(where, "document_id = ?")
		args = append(args, filter.DocumentID)
	}
	if filter.NodeID != "" {
		where = append(where, "node_id = ?")
		args = append(args, filter.NodeID)
	}

	query := `SELECT event_id, event_type, schema_version, ts_event, document_id, node_id, payload FROM events`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY seq DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		evt, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Newest-first from SQL, reversed so callers read in journal order.
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	return events, nil
}

// ReadEventsBefore returns up to limit of the oldest events recorded before
// cutoff, in journal order.
func (s *Store) ReadEventsBefore(ctx context.Context, cutoff time.Time, limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = 1000
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT event_id, event_type, schema_version, ts_event, document_id, node_id, payload
		FROM events WHERE ts_event < ? ORDER BY seq ASC LIMIT ?`, cutoff.UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read events before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		evt, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, evt)
	}
	return events, rows.Err()
}

// DeleteEvents removes the given events in one transaction. It returns the
// number of rows deleted.
func (s *Store) DeleteEvents(ctx context.Context, ids []EventID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `DELETE FROM events WHERE event_id = ?`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare delete: %w", err)
	}
	defer stmt.Close()

	var deleted int64
	for _, id := range ids {
		res, err := stmt.ExecContext(ctx, string(id))
		if err != nil {
			return 0, fmt.Errorf("failed to delete event %s: %w", id, err)
		}
		n, _ := res.RowsAffected()
		deleted += n
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit delete: %w", err)
	}
	return deleted, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(row scanner) (*Event, error) {
	var (
		evt     Event
		id      string
		typ     string
		ts      time.Time
		payload string
	)
	if err := row.Scan(&id, &typ, &evt.SchemaVersion, &ts, &evt.DocumentID, &evt.NodeID, &payload); err != nil {
		return nil, err
	}
	evt.EventID = EventID(id)
	evt.EventType = EventType(typ)
	evt.TsEvent = ts
	evt.Payload = json.RawMessage(payload)
	return &evt, nil
}
