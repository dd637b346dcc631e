// ABOUTME: Environment overrides for secrets and paths
// ABOUTME: Parsed with caarlos0/env on top of the file configuration

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvOverrides are the environment variables that take precedence over
// the configuration file
type EnvOverrides struct {
	APIKey       string `env:"ALOKA_API_KEY"`
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	StoragePath  string `env:"ALOKA_STORAGE_PATH"`
	CatalogPath  string `env:"ALOKA_CATALOG"`
	LogLevel     string `env:"ALOKA_LOG_LEVEL"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ApplyEnv overlays EnvOverrides onto c and revalidates. ALOKA_API_KEY
// replaces the file's key; GEMINI_API_KEY only fills an empty one.
func (c *Config) ApplyEnv() error {
	var o EnvOverrides
	if err := ParseEnv(&o); err != nil {
		return err
	}

	switch {
	case o.APIKey != "":
		c.Analysis.APIKey = o.APIKey
	case o.GeminiAPIKey != "" && c.Analysis.APIKey == "":
		c.Analysis.APIKey = o.GeminiAPIKey
	}
	if o.StoragePath != "" {
		c.Storage.Path = o.StoragePath
	}
	if o.CatalogPath != "" {
		c.Catalog.Path = o.CatalogPath
	}
	if o.LogLevel != "" {
		c.Logging.Level = o.LogLevel
	}
	return c.Validate()
}
