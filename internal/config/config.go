package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const FileName = "config.yaml"

type StorageConfig struct {
	Backend  string `yaml:"backend"` // "sqlite" | "redis"
	Path     string `yaml:"path"`    // sqlite file, relative to the workspace dir
	RedisURL string `yaml:"redis_url"`
}

// ServiceConfig names the slot the team is stored under in the
// configuration service.
type ServiceConfig struct {
	Segment string `yaml:"segment"`
	Version string `yaml:"version"`
}

type BroadcastConfig struct {
	RedisURL string `yaml:"redis_url"` // empty disables broadcasting
	Channel  string `yaml:"channel"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type LoadConfig struct {
	MaxAttempts    int `yaml:"max_attempts"`
	RetryDelayMs   int `yaml:"retry_delay_ms"`
	PollIntervalMs int `yaml:"poll_interval_ms"` // negative disables polling in watch
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

type Config struct {
	Storage   StorageConfig   `yaml:"storage"`
	Service   ServiceConfig   `yaml:"config_service"`
	Broadcast BroadcastConfig `yaml:"broadcast"`
	Server    ServerConfig    `yaml:"server"`
	Load      LoadConfig      `yaml:"load"`
	Logging   LoggingConfig   `yaml:"logging"`
}

func Defaults() Config {
	return Config{
		Storage:   StorageConfig{Backend: "sqlite", Path: "team.db"},
		Service:   ServiceConfig{Segment: "broadcaster", Version: "1"},
		Broadcast: BroadcastConfig{Channel: "broadcast"},
		Server:    ServerConfig{Addr: ":3000"},
		Load:      LoadConfig{MaxAttempts: 3, RetryDelayMs: 1000, PollIntervalMs: 2000},
		Logging:   LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvStorageBackend = "TEAM_STORAGE_BACKEND"
	EnvStoragePath    = "TEAM_STORAGE_PATH"
	EnvRedisURL       = "TEAM_REDIS_URL"
	EnvBroadcastURL   = "TEAM_BROADCAST_URL"
	EnvServerAddr     = "TEAM_SERVER_ADDR"
	EnvLoadAttempts   = "TEAM_LOAD_ATTEMPTS"
	EnvLogLevel       = "TEAM_LOG_LEVEL"
	EnvLogFormat      = "TEAM_LOG_FORMAT"
	EnvLogFile        = "TEAM_LOG_FILE"
)

// RetryDelay is the pause between configuration load attempts.
func (l LoadConfig) RetryDelay() time.Duration {
	return time.Duration(l.RetryDelayMs) * time.Millisecond
}

// PollInterval is how often watch checks the stored team for a new version.
// Zero means polling is disabled.
func (l LoadConfig) PollInterval() time.Duration {
	if l.PollIntervalMs <= 0 {
		return 0
	}
	return time.Duration(l.PollIntervalMs) * time.Millisecond
}

// DBPath resolves the sqlite path against the workspace dir.
func (c Config) DBPath(dir string) string {
	if filepath.IsAbs(c.Storage.Path) {
		return c.Storage.Path
	}
	return filepath.Join(dir, c.Storage.Path)
}

// Load reads dir/config.yaml if present, fills gaps from Defaults and then
// applies environment overrides.
func Load(dir string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	switch {
	case err == nil:
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, fmt.Errorf("parsing %s: %w", FileName, err)
		}
		mergeInto(&cfg, &fileCfg)
	case !errors.Is(err, os.ErrNotExist):
		return cfg, fmt.Errorf("reading %s: %w", FileName, err)
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes cfg to dir/config.yaml.
func Save(dir string, cfg Config) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, FileName), data, 0o644)
}

func (c Config) Validate() error {
	switch c.Storage.Backend {
	case "sqlite":
	case "redis":
		if c.Storage.RedisURL == "" {
			return fmt.Errorf("storage.redis_url is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Load.MaxAttempts < 1 {
		return fmt.Errorf("load.max_attempts must be at least 1")
	}
	return nil
}

func mergeInto(dst, src *Config) {
	if src.Storage.Backend != "" {
		dst.Storage.Backend = strings.ToLower(strings.TrimSpace(src.Storage.Backend))
	}
	if src.Storage.Path != "" {
		dst.Storage.Path = src.Storage.Path
	}
	if src.Storage.RedisURL != "" {
		dst.Storage.RedisURL = src.Storage.RedisURL
	}
	if src.Service.Segment != "" {
		dst.Service.Segment = src.Service.Segment
	}
	if src.Service.Version != "" {
		dst.Service.Version = src.Service.Version
	}
	if src.Broadcast.RedisURL != "" {
		dst.Broadcast.RedisURL = src.Broadcast.RedisURL
	}
	if src.Broadcast.Channel != "" {
		dst.Broadcast.Channel = src.Broadcast.Channel
	}
	if src.Server.Addr != "" {
		dst.Server.Addr = src.Server.Addr
	}
	if src.Load.MaxAttempts != 0 {
		dst.Load.MaxAttempts = src.Load.MaxAttempts
	}
	if src.Load.RetryDelayMs != 0 {
		dst.Load.RetryDelayMs = src.Load.RetryDelayMs
	}
	if src.Load.PollIntervalMs != 0 {
		dst.Load.PollIntervalMs = src.Load.PollIntervalMs
	}
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvStorageBackend)); v != "" {
		cfg.Storage.Backend = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvStoragePath)); v != "" {
		cfg.Storage.Path = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvRedisURL)); v != "" {
		cfg.Storage.RedisURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvBroadcastURL)); v != "" {
		cfg.Broadcast.RedisURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvServerAddr)); v != "" {
		cfg.Server.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLoadAttempts)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Load.MaxAttempts = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}
