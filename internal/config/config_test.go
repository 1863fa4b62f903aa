package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kevinaud/repo-map/internal/plan"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.Budget != plan.DefaultBudget {
		t.Errorf("Budget = %d, want %d", cfg.Budget, plan.DefaultBudget)
	}
	if !cfg.Cache.Enabled {
		t.Error("cache should be enabled by default")
	}
	if cfg.Logging.Format != "text" || cfg.Logging.Level != "info" {
		t.Errorf("Logging = %+v, want text/info", cfg.Logging)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"wrong version", func(c *Config) { c.Version = 2 }, true},
		{"negative budget", func(c *Config) { c.Budget = -1 }, true},
		{"json format", func(c *Config) { c.Logging.Format = "json" }, false},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, true},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Budget != plan.DefaultBudget {
		t.Errorf("Budget = %d, want default", cfg.Budget)
	}
}

func TestLoadConfigReadsFile(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, ".repomap")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	body := `{
		"budget": 8000,
		"scan": {"exclude": ["vendor/**"], "workers": 2},
		"scip": {"enabled": true, "indexPath": "out/index.scip"},
		"logging": {"format": "json", "level": "debug"}
	}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Budget != 8000 {
		t.Errorf("Budget = %d, want 8000", cfg.Budget)
	}
	if len(cfg.Scan.Exclude) != 1 || cfg.Scan.Exclude[0] != "vendor/**" {
		t.Errorf("Scan.Exclude = %v", cfg.Scan.Exclude)
	}
	if cfg.Scan.Workers != 2 {
		t.Errorf("Scan.Workers = %d", cfg.Scan.Workers)
	}
	if !cfg.Scip.Enabled || cfg.Scip.IndexPath != "out/index.scip" {
		t.Errorf("Scip = %+v", cfg.Scip)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	// Defaults still apply to untouched fields.
	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if !cfg.Cache.Enabled {
		t.Error("cache default lost on partial config")
	}
}

func TestConfigSaveRoundTrip(t *testing.T) {
	root := t.TempDir()
	cfg := DefaultConfig()
	cfg.Budget = 12345
	cfg.Scan.Exclude = []string{"*.gen.go"}
	if err := cfg.Save(root); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadConfig(root)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Budget != 12345 {
		t.Errorf("Budget = %d, want 12345", loaded.Budget)
	}
	if len(loaded.Scan.Exclude) != 1 || loaded.Scan.Exclude[0] != "*.gen.go" {
		t.Errorf("Scan.Exclude = %v", loaded.Scan.Exclude)
	}
}
