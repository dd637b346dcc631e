// ABOUTME: Configuration loading and parsing for the aloka client
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults for a config without a file
const (
	DefaultStorageKey   = "aloka_nexus_stable_v11"
	DefaultDatabaseName = "aloka.db"
	DefaultAuditDelay   = 2 * time.Second
	DefaultSyncDelay    = 2 * time.Second
	DefaultModel        = "gemini-3-flash-preview"
	DefaultLanguage     = "Malagasy"
)

// Config represents the complete client configuration
type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	Timing   TimingConfig   `yaml:"timing"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// StorageConfig holds session storage configuration
type StorageConfig struct {
	Path       string `yaml:"path"`        // empty: <data dir>/aloka.db
	Key        string `yaml:"key"`         // document key
	QuotaBytes int    `yaml:"quota_bytes"` // 0: unlimited
}

// TimingConfig holds the simulated verification delays
type TimingConfig struct {
	AuditDelay time.Duration `yaml:"-"`
	SyncDelay  time.Duration `yaml:"-"`

	// Raw string values for YAML unmarshaling
	AuditDelayRaw string `yaml:"audit_delay"`
	SyncDelayRaw  string `yaml:"sync_delay"`
}

// AnalysisConfig holds the vision and chat model configuration
type AnalysisConfig struct {
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
	Language string `yaml:"translate_language"`
}

// CatalogConfig points at an optional TOML platform catalog
type CatalogConfig struct {
	Path string `yaml:"path"` // empty: built-in catalog
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a runnable configuration
func Default() *Config {
	return &Config{
		Storage: StorageConfig{Key: DefaultStorageKey},
		Timing: TimingConfig{
			AuditDelay: DefaultAuditDelay,
			SyncDelay:  DefaultSyncDelay,
		},
		Analysis: AnalysisConfig{
			Model:    DefaultModel,
			Language: DefaultLanguage,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// Load reads a configuration file from the given path on top of Default.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expandedData), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := parseDurations(cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all configuration fields are usable.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Storage.Key == "" {
		return fmt.Errorf("storage.key is required")
	}
	if c.Storage.QuotaBytes < 0 {
		return fmt.Errorf("storage.quota_bytes must not be negative")
	}
	if c.Timing.AuditDelay < 0 {
		return fmt.Errorf("timing.audit_delay must not be negative")
	}
	if c.Timing.SyncDelay < 0 {
		return fmt.Errorf("timing.sync_delay must not be negative")
	}
	if c.Logging.Level != "" && !slices.Contains([]string{"debug", "info", "warn", "error"}, c.Logging.Level) {
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	if c.Logging.Format != "" && c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("logging.format %q must be text or json", c.Logging.Format)
	}
	return nil
}

// DatabasePath returns the configured storage path, or the default file
// inside dataDir
func (c *Config) DatabasePath(dataDir string) string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	return filepath.Join(dataDir, DefaultDatabaseName)
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	var err error

	if cfg.Timing.AuditDelayRaw != "" {
		cfg.Timing.AuditDelay, err = time.ParseDuration(cfg.Timing.AuditDelayRaw)
		if err != nil {
			return fmt.Errorf("parsing audit_delay %q: %w", cfg.Timing.AuditDelayRaw, err)
		}
	}

	if cfg.Timing.SyncDelayRaw != "" {
		cfg.Timing.SyncDelay, err = time.ParseDuration(cfg.Timing.SyncDelayRaw)
		if err != nil {
			return fmt.Errorf("parsing sync_delay %q: %w", cfg.Timing.SyncDelayRaw, err)
		}
	}

	return nil
}
