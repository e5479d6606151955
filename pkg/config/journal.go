package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/rmax-ai/velnode/pkg/archive"
	"github.com/rmax-ai/velnode/pkg/blob"
	"github.com/rmax-ai/velnode/pkg/store"
	"github.com/rmax-ai/velnode/pkg/store/redis"
)

const redisDialTimeout = 2 * time.Second

// OpenJournal connects the configured interaction journal. With journal=off
// it returns a nil Journal. The closer must be called on shutdown.
func (c Config) OpenJournal(ctx context.Context) (store.Journal, io.Closer, error) {
	switch c.JournalBackend {
	case BackendSQLite:
		st, err := store.NewStore(c.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return st, st, nil

	case BackendRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:        c.RedisAddr,
			DialTimeout: redisDialTimeout,
		})
		pingCtx, cancel := context.WithTimeout(ctx, redisDialTimeout)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to reach redis at %s: %w", c.RedisAddr, err)
		}
		return redis.NewJournal(client, c.RedisKey, 0), client, nil

	case BackendOff:
		return nil, io.NopCloser(nil), nil
	}
	return nil, nil, fmt.Errorf("unsupported journal backend: %s", c.JournalBackend)
}

// NewArchiver returns an archiver for the SQLite journal, or nil when
// archiving is disabled or the journal is not SQLite.
func (c Config) NewArchiver(journal store.Journal, logger *slog.Logger) *archive.Archiver {
	st, ok := journal.(*store.Store)
	if c.ArchiveDir == "" || !ok {
		return nil
	}
	return archive.New(st, blob.NewLocalBlobStore(c.ArchiveDir), archive.Config{
		Retention:     c.ArchiveAfter,
		CheckInterval: c.ArchiveInterval,
	}, logger)
}
