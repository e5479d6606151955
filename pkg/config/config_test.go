package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("velnode", nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.JournalBackend != BackendSQLite {
		t.Errorf("backend = %q", cfg.JournalBackend)
	}
	if !filepath.IsAbs(cfg.DBPath) || filepath.Base(cfg.DBPath) != "velnode.db" {
		t.Errorf("db path = %q", cfg.DBPath)
	}
	if cfg.InspectAddr != "" {
		t.Errorf("inspection API should be off by default, got %q", cfg.InspectAddr)
	}
	if cfg.Level() != slog.LevelInfo {
		t.Errorf("level = %v", cfg.Level())
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		envVars     map[string]string
		expectError bool
		errorSubstr string
	}{
		{
			name: "redis backend from flag",
			args: []string{"-journal", "redis", "-redis-addr", "localhost:6380"},
		},
		{
			name:    "backend alias from env",
			envVars: map[string]string{"VELNODE_JOURNAL": "none"},
		},
		{
			name:        "unknown backend",
			args:        []string{"-journal", "postgres"},
			expectError: true,
			errorSubstr: "unsupported journal backend",
		},
		{
			name:        "redis without address",
			args:        []string{"-journal", "redis", "-redis-addr", " "},
			expectError: true,
			errorSubstr: "requires redis-addr",
		},
		{
			name:        "bad log level from env",
			envVars:     map[string]string{"VELNODE_LOG_LEVEL": "loud"},
			expectError: true,
			errorSubstr: "invalid log level",
		},
		{
			name: "archive with sqlite",
			args: []string{"-archive-dir", "archive", "-archive-after", "48h"},
		},
		{
			name:        "archive with redis",
			args:        []string{"-journal", "redis", "-archive-dir", "archive"},
			expectError: true,
			errorSubstr: "requires journal=sqlite",
		},
		{
			name:        "bad archive duration from env",
			envVars:     map[string]string{"VELNODE_ARCHIVE_AFTER": "soon"},
			expectError: true,
			errorSubstr: "VELNODE_ARCHIVE_AFTER",
		},
		{
			name:        "unknown flag",
			args:        []string{"-nope"},
			expectError: true,
			errorSubstr: "not defined",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			_, err := Load("velnode", tt.args)
			if tt.expectError {
				if err == nil {
					t.Errorf("expected error containing %q, got nil", tt.errorSubstr)
				} else if !strings.Contains(err.Error(), tt.errorSubstr) {
					t.Errorf("expected error containing %q, got %q", tt.errorSubstr, err.Error())
				}
				return
			}
			if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "velnode.yaml")
	file := "journal_backend: redis\nredis_addr: file:6379\nredis_key: file-key\ninspect_addr: 127.0.0.1:7000\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(file), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("VELNODE_REDIS_KEY", "env-key")
	cfg, err := Load("velnode", []string{"-config", path, "-inspect-addr", "127.0.0.1:9000"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.JournalBackend != BackendRedis || cfg.RedisAddr != "file:6379" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.RedisKey != "env-key" {
		t.Errorf("env should override file, got %q", cfg.RedisKey)
	}
	if cfg.InspectAddr != "127.0.0.1:9000" {
		t.Errorf("flag should override file, got %q", cfg.InspectAddr)
	}
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("level = %v", cfg.Level())
	}
}

func TestLoadArchiveDurationsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "velnode.yaml")
	file := "archive_dir: /tmp/velnode-archive\narchive_after: 72h\narchive_interval: 30m\n"
	if err := os.WriteFile(path, []byte(file), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("velnode", []string{"-config", path, "-archive-interval", "5m"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ArchiveDir != "/tmp/velnode-archive" || cfg.ArchiveAfter != 72*time.Hour {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.ArchiveInterval != 5*time.Minute {
		t.Errorf("flag should override file, got %v", cfg.ArchiveInterval)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "c.yaml")
	if err := os.WriteFile(path, []byte("journal_backend: off\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VELNODE_CONFIG", path)

	cfg, err := Load("velnode", nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.JournalBackend != BackendOff {
		t.Errorf("backend = %q", cfg.JournalBackend)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := Load("velnode", []string{"-config=" + filepath.Join(t.TempDir(), "missing.yaml")})
	if err == nil || !strings.Contains(err.Error(), "read config") {
		t.Fatalf("expected read config error, got %v", err)
	}
}

func TestOpenLogger(t *testing.T) {
	cfg := Default(t.TempDir())
	logger, closer, err := cfg.OpenLogger()
	if err != nil {
		t.Fatalf("OpenLogger failed: %v", err)
	}
	logger.Info("hello", "k", "v")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(cfg.LogPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Errorf("log file = %s", data)
	}
}
