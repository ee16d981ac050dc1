// Package config provides unified configuration loading for docbridge.
// Supports YAML files, environment variables, and programmatic overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for docbridge.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Converter     ConverterConfig     `yaml:"converter"`
	Batch         BatchConfig         `yaml:"batch"`
	Cache         CacheConfig         `yaml:"cache"`
	Journal       JournalConfig       `yaml:"journal"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
	MaxUploadBytes   int64         `yaml:"max_upload_bytes"`
}

// ConverterConfig holds default conversion engine settings.
type ConverterConfig struct {
	EnableOCR            bool          `yaml:"enable_ocr"`
	EnableTableStructure bool          `yaml:"enable_table_structure"`
	DefaultFormat        string        `yaml:"default_format"` // markdown, json or html
	FetchTimeout         time.Duration `yaml:"fetch_timeout"`
}

// BatchConfig holds batch orchestration settings.
type BatchConfig struct {
	MaxWorkers  int           `yaml:"max_workers"`
	ItemTimeout time.Duration `yaml:"item_timeout"`
}

// CacheConfig holds result cache settings.
type CacheConfig struct {
	Driver     string        `yaml:"driver"` // memory or redis
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"max_entries"`
	Redis      RedisConfig   `yaml:"redis"`
}

// RedisConfig holds Redis-specific settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// JournalConfig holds batch-run history settings.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	ServiceName string `yaml:"service_name"`
}

// Load reads configuration from a YAML file and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}

		// A relative journal path in the file is anchored to the file, not to
		// wherever the process happens to run from.
		if cfg.Journal.Path != "" {
			cfg.Journal.Path = ResolveRelativePath(path, cfg.Journal.Path)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults for development.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8080,
			ReadTimeout:      60 * time.Second,
			WriteTimeout:     60 * time.Second,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 10 * time.Second,
			MaxUploadBytes:   64 << 20, // 64 MiB
		},
		Converter: ConverterConfig{
			EnableOCR:            false,
			EnableTableStructure: true,
			DefaultFormat:        "markdown",
			FetchTimeout:         30 * time.Second,
		},
		Batch: BatchConfig{
			MaxWorkers:  4,
			ItemTimeout: 0,
		},
		Cache: CacheConfig{
			Driver:     "memory",
			TTL:        10 * time.Minute,
			MaxEntries: 1000,
			Redis: RedisConfig{
				Addr:     "localhost:6379",
				DB:       0,
				PoolSize: 10,
			},
		},
		Journal: JournalConfig{
			Enabled: true,
			Path:    defaultJournalPath(),
		},
		Observability: ObservabilityConfig{
			LogLevel:    "info",
			LogFormat:   "console",
			ServiceName: "docbridge",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Converter.DefaultFormat {
	case "markdown", "json", "html":
	default:
		return fmt.Errorf("invalid default format: %s", c.Converter.DefaultFormat)
	}

	if c.Batch.MaxWorkers < 1 {
		return fmt.Errorf("batch max_workers must be positive, got %d", c.Batch.MaxWorkers)
	}

	if c.Cache.Driver != "memory" && c.Cache.Driver != "redis" {
		return fmt.Errorf("invalid cache driver: %s", c.Cache.Driver)
	}

	if c.Journal.Enabled && c.Journal.Path == "" {
		return fmt.Errorf("journal enabled but no path configured")
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DOCBRIDGE_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}

	if v := os.Getenv("DOCBRIDGE_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}

	if v := os.Getenv("DOCBRIDGE_MAX_WORKERS"); v != "" {
		if workers, err := strconv.Atoi(v); err == nil {
			cfg.Batch.MaxWorkers = workers
		}
	}

	if v := os.Getenv("DOCBRIDGE_REDIS_URL"); v != "" {
		cfg.Cache.Driver = "redis"
		cfg.Cache.Redis.Addr = strings.TrimPrefix(v, "redis://")
	}

	if v := os.Getenv("DOCBRIDGE_JOURNAL_PATH"); v != "" {
		cfg.Journal.Path = v
	}

	if v := os.Getenv("DOCBRIDGE_LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	if v := os.Getenv("DOCBRIDGE_LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
}

// defaultJournalPath places the journal under the user cache dir, falling
// back to the system temp dir when the cache dir cannot be resolved.
func defaultJournalPath() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "docbridge", "journal.db")
}

// ResolveRelativePath resolves a path relative to the config file location.
func ResolveRelativePath(configPath, targetPath string) string {
	if filepath.IsAbs(targetPath) {
		return targetPath
	}
	configDir := filepath.Dir(configPath)
	return filepath.Join(configDir, targetPath)
}
