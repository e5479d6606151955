package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// OpenLogger builds the JSON logger described by c. The returned closer
// releases the log file, if any.
func (c Config) OpenLogger() (*slog.Logger, io.Closer, error) {
	opts := &slog.HandlerOptions{Level: c.Level()}
	if c.LogPath == "" || c.LogPath == "-" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(c.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewJSONHandler(f, opts)), f, nil
}
