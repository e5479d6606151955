// Package config resolves runtime settings for the velnode binaries.
//
// Precedence, lowest first:
//  1. built-in defaults
//  2. YAML file named by -config or $VELNODE_CONFIG
//  3. VELNODE_* environment variables
//  4. command-line flags
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendOff    = "off"

	defaultBackend   = BackendSQLite
	defaultRedisAddr = "127.0.0.1:6379"
	defaultRedisKey  = "velnode:journal"
	defaultLogLevel  = "info"

	defaultArchiveAfter    = 7 * 24 * time.Hour
	defaultArchiveInterval = time.Hour
)

type Config struct {
	JournalBackend string `yaml:"journal_backend"`
	DBPath         string `yaml:"db_path"`
	RedisAddr      string `yaml:"redis_addr"`
	RedisKey       string `yaml:"redis_key"`
	InspectAddr    string `yaml:"inspect_addr"`
	LogPath        string `yaml:"log_path"`
	LogLevel       string `yaml:"log_level"`

	// ArchiveDir enables moving old SQLite journal events into gzipped
	// objects under this directory. Empty disables archiving.
	ArchiveDir      string        `yaml:"archive_dir"`
	ArchiveAfter    time.Duration `yaml:"archive_after"`
	ArchiveInterval time.Duration `yaml:"archive_interval"`
}

// Default returns the settings used when nothing is configured.
func Default(cwd string) Config {
	return Config{
		JournalBackend: defaultBackend,
		DBPath:         filepath.Join(cwd, "velnode.db"),
		RedisAddr:      defaultRedisAddr,
		RedisKey:       defaultRedisKey,
		LogPath:        filepath.Join(cwd, "velnode.log"),
		LogLevel:       defaultLogLevel,

		ArchiveAfter:    defaultArchiveAfter,
		ArchiveInterval: defaultArchiveInterval,
	}
}

// Load builds a Config for the program name from args and the environment.
func Load(name string, args []string) (Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, fmt.Errorf("failed to get cwd: %w", err)
	}
	cfg := Default(cwd)

	configPath := configPathFromArgs(args)
	if configPath == "" {
		configPath = os.Getenv("VELNODE_CONFIG")
	}
	if configPath != "" {
		if err := cfg.mergeFile(resolvePath(configPath, cwd)); err != nil {
			return Config{}, err
		}
	}

	cfg.JournalBackend = envOrDefault("VELNODE_JOURNAL", cfg.JournalBackend)
	cfg.DBPath = envOrDefault("VELNODE_DB_PATH", cfg.DBPath)
	cfg.RedisAddr = envOrDefault("VELNODE_REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisKey = envOrDefault("VELNODE_REDIS_KEY", cfg.RedisKey)
	cfg.InspectAddr = envOrDefault("VELNODE_INSPECT_ADDR", cfg.InspectAddr)
	cfg.LogPath = envOrDefault("VELNODE_LOG_PATH", cfg.LogPath)
	cfg.LogLevel = envOrDefault("VELNODE_LOG_LEVEL", cfg.LogLevel)
	cfg.ArchiveDir = envOrDefault("VELNODE_ARCHIVE_DIR", cfg.ArchiveDir)
	if cfg.ArchiveAfter, err = envDuration("VELNODE_ARCHIVE_AFTER", cfg.ArchiveAfter); err != nil {
		return Config{}, err
	}
	if cfg.ArchiveInterval, err = envDuration("VELNODE_ARCHIVE_INTERVAL", cfg.ArchiveInterval); err != nil {
		return Config{}, err
	}

	flagSet := flag.NewFlagSet(name, flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.String("config", configPath, "path to YAML config file")
	flagBackend := flagSet.String("journal", cfg.JournalBackend, "interaction journal: sqlite|redis|off")
	flagDB := flagSet.String("db", cfg.DBPath, "path to SQLite journal")
	flagRedisAddr := flagSet.String("redis-addr", cfg.RedisAddr, "Redis address for journal=redis")
	flagRedisKey := flagSet.String("redis-key", cfg.RedisKey, "Redis list key for journal=redis")
	flagInspect := flagSet.String("inspect-addr", cfg.InspectAddr, "inspection API listen address; empty disables it")
	flagLogPath := flagSet.String("log", cfg.LogPath, "log file path; - for stderr")
	flagLogLevel := flagSet.String("log-level", cfg.LogLevel, "log level: debug|info|warn|error")
	flagArchiveDir := flagSet.String("archive-dir", cfg.ArchiveDir, "directory for archived journal events; empty disables archiving")
	flagArchiveAfter := flagSet.Duration("archive-after", cfg.ArchiveAfter, "age after which journal events are archived")
	flagArchiveInterval := flagSet.Duration("archive-interval", cfg.ArchiveInterval, "how often the archiver runs")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			flagSet.SetOutput(os.Stdout)
			flagSet.PrintDefaults()
		}
		return Config{}, err
	}

	cfg = Config{
		JournalBackend: normalizeBackend(*flagBackend),
		DBPath:         resolvePath(*flagDB, cwd),
		RedisAddr:      strings.TrimSpace(*flagRedisAddr),
		RedisKey:       strings.TrimSpace(*flagRedisKey),
		InspectAddr:    strings.TrimSpace(*flagInspect),
		LogPath:        strings.TrimSpace(*flagLogPath),
		LogLevel:       strings.ToLower(strings.TrimSpace(*flagLogLevel)),

		ArchiveDir:      resolvePath(*flagArchiveDir, cwd),
		ArchiveAfter:    *flagArchiveAfter,
		ArchiveInterval: *flagArchiveInterval,
	}
	if cfg.LogPath != "-" {
		cfg.LogPath = resolvePath(cfg.LogPath, cwd)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	switch c.JournalBackend {
	case BackendSQLite:
		if c.DBPath == "" {
			return errors.New("journal=sqlite requires db path")
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			return errors.New("journal=redis requires redis-addr")
		}
	case BackendOff:
	default:
		return fmt.Errorf("unsupported journal backend: %s", c.JournalBackend)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.ArchiveDir != "" {
		if c.JournalBackend != BackendSQLite {
			return errors.New("archive-dir requires journal=sqlite")
		}
		if c.ArchiveAfter <= 0 || c.ArchiveInterval <= 0 {
			return errors.New("archive-after and archive-interval must be positive")
		}
	}
	return nil
}

// Level returns the parsed log level.
func (c Config) Level() slog.Level {
	lvl, _ := ParseLevel(c.LogLevel)
	return lvl
}

// ParseLevel maps a level name to slog.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return lvl, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if file.JournalBackend != "" {
		c.JournalBackend = file.JournalBackend
	}
	if file.DBPath != "" {
		c.DBPath = file.DBPath
	}
	if file.RedisAddr != "" {
		c.RedisAddr = file.RedisAddr
	}
	if file.RedisKey != "" {
		c.RedisKey = file.RedisKey
	}
	if file.InspectAddr != "" {
		c.InspectAddr = file.InspectAddr
	}
	if file.LogPath != "" {
		c.LogPath = file.LogPath
	}
	if file.LogLevel != "" {
		c.LogLevel = file.LogLevel
	}
	if file.ArchiveDir != "" {
		c.ArchiveDir = file.ArchiveDir
	}
	if file.ArchiveAfter != 0 {
		c.ArchiveAfter = file.ArchiveAfter
	}
	if file.ArchiveInterval != 0 {
		c.ArchiveInterval = file.ArchiveInterval
	}
	return nil
}

// configPathFromArgs finds -config before the full flag set is built, so the
// file can seed the flag defaults.
func configPathFromArgs(args []string) string {
	for i, arg := range args {
		name, val, hasVal := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if !strings.HasPrefix(arg, "-") || name != "config" {
			continue
		}
		if hasVal {
			return val
		}
		if i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func resolvePath(path string, cwd string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return trimmed
	}
	if filepath.IsAbs(trimmed) {
		return trimmed
	}
	return filepath.Join(cwd, trimmed)
}

func normalizeBackend(backend string) string {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", "sqlite", "sqlite3":
		return BackendSQLite
	case "redis":
		return BackendRedis
	case "off", "none", "disabled":
		return BackendOff
	default:
		return strings.ToLower(strings.TrimSpace(backend))
	}
}
