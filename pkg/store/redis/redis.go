package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rmax-ai/velnode/pkg/store"
)

// DefaultKey is the list that holds the journal when no key is configured.
const DefaultKey = "velnode:journal"

// DefaultMaxLen caps the list so a long editing session cannot grow it
// without bound.
const DefaultMaxLen = 10000

// Journal stores interaction events in a Redis list, oldest first.
type Journal struct {
	client *redis.Client
	key    string
	maxLen int64
}

// NewJournal creates a journal on key. An empty key selects DefaultKey and a
// non-positive maxLen selects DefaultMaxLen.
func NewJournal(client *redis.Client, key string, maxLen int64) *Journal {
	if key == "" {
		key = DefaultKey
	}
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}
	return &Journal{client: client, key: key, maxLen: maxLen}
}

// AppendEvent pushes event onto the list and trims it to the cap.
func (j *Journal) AppendEvent(ctx context.Context, event *store.Event) error {
	if event == nil {
		return errors.New("event cannot be nil")
	}
	if event.EventID == "" {
		return errors.New("event_id cannot be empty")
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", event.EventID, err)
	}

	pipe := j.client.TxPipeline()
	pipe.RPush(ctx, j.key, data)
	pipe.LTrim(ctx, j.key, -j.maxLen, -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to RPUSH event %s: %w", event.EventID, err)
	}
	return nil
}

// ReadRecentEvents returns the newest limit events, oldest first. A
// non-positive limit returns the whole list.
func (j *Journal) ReadRecentEvents(ctx context.Context, limit int) ([]*store.Event, error) {
	start := int64(0)
	if limit > 0 {
		start = -int64(limit)
	}
	values, err := j.client.LRange(ctx, j.key, start, -1).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []*store.Event{}, nil
		}
		return nil, fmt.Errorf("failed to LRANGE %s: %w", j.key, err)
	}

	events := make([]*store.Event, 0, len(values))
	for _, raw := range values {
		var evt store.Event
		if err := json.Unmarshal([]byte(raw), &evt); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event from %s: %w", j.key, err)
		}
		events = append(events, &evt)
	}
	return events, nil
}

// Len returns the number of stored events.
func (j *Journal) Len(ctx context.Context) (int64, error) {
	return j.client.LLen(ctx, j.key).Result()
}

// Clear removes the journal list.
func (j *Journal) Clear(ctx context.Context) error {
	if err := j.client.Del(ctx, j.key).Err(); err != nil {
		return fmt.Errorf("failed to DEL %s: %w", j.key, err)
	}
	return nil
}

var _ store.Journal = (*Journal)(nil)
