// Package config loads tool-level settings from .repomap/config.json.
// These are ambient defaults for the CLI; per-render behavior lives in
// the render plan and overrides anything here.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/kevinaud/repo-map/internal/plan"
)

// Config represents the complete tool configuration.
type Config struct {
	Version int `json:"version" mapstructure:"version"`

	// Budget is the default token budget when the plan omits one.
	Budget int `json:"budget" mapstructure:"budget"`

	Scan    ScanConfig    `json:"scan" mapstructure:"scan"`
	Cache   CacheConfig   `json:"cache" mapstructure:"cache"`
	Scip    ScipConfig    `json:"scip" mapstructure:"scip"`
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// ScanConfig contains repository walker settings.
type ScanConfig struct {
	// NoDefaultExcludes disables the builtin exclude patterns
	// (lockfiles, editor directories, caches).
	NoDefaultExcludes bool `json:"noDefaultExcludes" mapstructure:"noDefaultExcludes"`

	// NoGitignore disables .gitignore handling.
	NoGitignore bool `json:"noGitignore" mapstructure:"noGitignore"`

	// Exclude adds glob patterns on top of the builtin excludes.
	Exclude []string `json:"exclude" mapstructure:"exclude"`

	// Workers bounds the extraction pool. Zero means one per CPU.
	Workers int `json:"workers" mapstructure:"workers"`
}

// CacheConfig contains extraction cache settings.
type CacheConfig struct {
	Enabled bool `json:"enabled" mapstructure:"enabled"`

	// Dir overrides the cache location. Empty means <root>/.repomap.
	Dir string `json:"dir" mapstructure:"dir"`
}

// ScipConfig points at an optional SCIP index used to supplement the
// heuristic reference graph.
type ScipConfig struct {
	Enabled   bool   `json:"enabled" mapstructure:"enabled"`
	IndexPath string `json:"indexPath" mapstructure:"indexPath"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Budget:  plan.DefaultBudget,
		Cache: CacheConfig{
			Enabled: true,
		},
		Scip: ScipConfig{
			IndexPath: "index.scip",
		},
		Logging: LoggingConfig{
			Format: "text",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from <repoRoot>/.repomap/config.json,
// falling back to defaults when the file does not exist.
func LoadConfig(repoRoot string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("version", defaults.Version)
	v.SetDefault("budget", defaults.Budget)
	v.SetDefault("cache.enabled", defaults.Cache.Enabled)
	v.SetDefault("scip.indexPath", defaults.Scip.IndexPath)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.level", defaults.Logging.Level)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(repoRoot, ".repomap"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaults, nil
		}
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the configuration to <repoRoot>/.repomap/config.json.
func (c *Config) Save(repoRoot string) error {
	dir := filepath.Join(repoRoot, ".repomap")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if c.Budget < 0 {
		return &ConfigError{Field: "budget", Message: "budget must be non-negative"}
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return &ConfigError{Field: "logging.format", Message: "must be text or json"}
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return &ConfigError{Field: "logging.level", Message: "must be debug, info, warn, or error"}
	}
	return nil
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
