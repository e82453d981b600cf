package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func overrideConfigPath(t *testing.T, path string) {
	t.Helper()
	original := ConfigPath
	ConfigPath = func() string {
		return path
	}
	t.Cleanup(func() {
		ConfigPath = original
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Source != SourceFile {
		t.Errorf("Expected file source, got %s", cfg.Source)
	}
	if cfg.ContentDir == "" {
		t.Error("Expected ContentDir to be set")
	}
	if cfg.PageSize != 6 {
		t.Errorf("Expected PageSize to be 6, got %d", cfg.PageSize)
	}
	if cfg.QueryTimeout != 10*time.Second {
		t.Errorf("Expected QueryTimeout to be 10s, got %v", cfg.QueryTimeout)
	}
	if len(cfg.LeadInPhrases) == 0 {
		t.Error("Expected default lead-in phrases")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config { return DefaultConfig() }

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid config", mutate: func(*Config) {}, wantErr: false},
		{name: "unknown source", mutate: func(c *Config) { c.Source = "ftp" }, wantErr: true},
		{name: "file source without dir", mutate: func(c *Config) { c.ContentDir = "" }, wantErr: true},
		{name: "sqlite source without path", mutate: func(c *Config) { c.Source = SourceSQLite; c.SQLitePath = "" }, wantErr: true},
		{name: "postgres source without dsn", mutate: func(c *Config) { c.Source = SourcePostgres }, wantErr: true},
		{name: "postgres source with dsn", mutate: func(c *Config) { c.Source = SourcePostgres; c.PostgresDSN = "postgres://localhost/site" }, wantErr: false},
		{name: "empty snapshot dir", mutate: func(c *Config) { c.SnapshotDir = "" }, wantErr: true},
		{name: "zero page size", mutate: func(c *Config) { c.PageSize = 0 }, wantErr: true},
		{name: "negative timeout", mutate: func(c *Config) { c.QueryTimeout = -time.Second }, wantErr: true},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	overrideConfigPath(t, filepath.Join(tmpDir, "config.json"))

	testCfg := &Config{
		Source:           SourceSQLite,
		ContentDir:       filepath.Join(tmpDir, "content"),
		SQLitePath:       filepath.Join(tmpDir, "content.db"),
		SnapshotDir:      filepath.Join(tmpDir, "snapshots"),
		LogLevel:         "debug",
		PageSize:         9,
		LeadInPhrases:    []string{"Highlights:"},
		EmptyPlaceholder: "Nothing here yet.",
		QueryTimeout:     45 * time.Second,
	}

	if err := testCfg.Save(); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	loadedCfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loadedCfg.QueryTimeout != testCfg.QueryTimeout {
		t.Errorf("QueryTimeout mismatch: got %v, want %v", loadedCfg.QueryTimeout, testCfg.QueryTimeout)
	}
	if loadedCfg.Source != SourceSQLite {
		t.Errorf("Source mismatch: got %s", loadedCfg.Source)
	}
	if loadedCfg.PageSize != 9 {
		t.Errorf("PageSize mismatch: got %d", loadedCfg.PageSize)
	}
	if len(loadedCfg.LeadInPhrases) != 1 || loadedCfg.LeadInPhrases[0] != "Highlights:" {
		t.Errorf("LeadInPhrases mismatch: got %v", loadedCfg.LeadInPhrases)
	}
	if loadedCfg.SQLitePath != testCfg.SQLitePath {
		t.Errorf("SQLitePath mismatch: got %s, want %s", loadedCfg.SQLitePath, testCfg.SQLitePath)
	}
}

func TestLoadPartialConfigKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")
	overrideConfigPath(t, configPath)

	if err := os.WriteFile(configPath, []byte(`{"content_dir": "/srv/site/content"}`), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Source != SourceFile {
		t.Errorf("Expected default source, got %s", cfg.Source)
	}
	if cfg.PageSize != 6 {
		t.Errorf("Expected default page size, got %d", cfg.PageSize)
	}
	if cfg.QueryTimeout != 10*time.Second {
		t.Errorf("Expected default timeout, got %v", cfg.QueryTimeout)
	}
	if len(cfg.LeadInPhrases) != 1 {
		t.Errorf("Expected default phrases, got %v", cfg.LeadInPhrases)
	}
}

func TestLoadInvalidTimeout(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")
	overrideConfigPath(t, configPath)

	if err := os.WriteFile(configPath, []byte(`{"query_timeout": "soon"}`), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid query_timeout")
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	tmpDir := t.TempDir()
	overrideConfigPath(t, filepath.Join(tmpDir, "nonexistent.json"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() should not error on missing file: %v", err)
	}

	if cfg.QueryTimeout != 10*time.Second {
		t.Errorf("Expected default timeout 10s, got %v", cfg.QueryTimeout)
	}
	if !filepath.IsAbs(cfg.ContentDir) {
		t.Errorf("Expected ContentDir to be absolute, got %s", cfg.ContentDir)
	}
}

func TestExpandPath(t *testing.T) {
	homeDir, _ := os.UserHomeDir()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "tilde expansion",
			input:    "~/test",
			expected: filepath.Join(homeDir, "test"),
		},
		{
			name:     "tilde only",
			input:    "~",
			expected: homeDir,
		},
		{
			name:     "absolute path",
			input:    "/tmp/test",
			expected: "/tmp/test",
		},
		{
			name:     "empty path",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := expandPath(tt.input)
			if err != nil {
				t.Fatalf("expandPath() error = %v", err)
			}
			if result != tt.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}
