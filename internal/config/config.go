package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Content source kinds
const (
	SourceFile     = "file"
	SourceSQLite   = "sqlite"
	SourcePostgres = "postgres"
)

// Config represents the propsite configuration
type Config struct {
	Source           string        `json:"source"`
	ContentDir       string        `json:"content_dir"`
	SQLitePath       string        `json:"sqlite_path,omitempty"`
	PostgresDSN      string        `json:"postgres_dsn,omitempty"`
	SnapshotDir      string        `json:"snapshot_dir"`
	LogFile          string        `json:"log_file,omitempty"`
	LogLevel         string        `json:"log_level,omitempty"`
	PageSize         int           `json:"page_size"`
	LeadInPhrases    []string      `json:"lead_in_phrases,omitempty"`
	EmptyPlaceholder string        `json:"empty_placeholder,omitempty"`
	QueryTimeout     time.Duration `json:"-"` // Custom JSON handling below
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Source:           SourceFile,
		ContentDir:       "content",
		SQLitePath:       filepath.Join(xdg.DataHome, "propsite", "content.db"),
		SnapshotDir:      "snapshots",
		LogLevel:         "info",
		PageSize:         6,
		LeadInPhrases:    []string{"Key Features:"},
		EmptyPlaceholder: "No content available.",
		QueryTimeout:     10 * time.Second,
	}
}

// ConfigPath returns the path to the config file
// Uses ~/.config on all platforms for consistency
// Can be overridden for testing
var ConfigPath = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(xdg.ConfigHome, "propsite", "config.json")
	}
	return filepath.Join(home, ".config", "propsite", "config.json")
}

// LeadsFilePath returns the path of the captured leads queue
// Can be overridden for testing
var LeadsFilePath = func() string {
	return filepath.Join(xdg.DataHome, "propsite", "leads.json")
}

// fileConfig is the on-disk shape; durations are strings
type fileConfig struct {
	Source           string   `json:"source"`
	ContentDir       string   `json:"content_dir"`
	SQLitePath       string   `json:"sqlite_path,omitempty"`
	PostgresDSN      string   `json:"postgres_dsn,omitempty"`
	SnapshotDir      string   `json:"snapshot_dir"`
	LogFile          string   `json:"log_file,omitempty"`
	LogLevel         string   `json:"log_level,omitempty"`
	PageSize         int      `json:"page_size"`
	LeadInPhrases    []string `json:"lead_in_phrases,omitempty"`
	EmptyPlaceholder string   `json:"empty_placeholder,omitempty"`
	QueryTimeout     string   `json:"query_timeout,omitempty"`
}

// Load reads configuration from the config path.
// A missing file yields the defaults.
func Load() (*Config, error) {
	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			if err := cfg.ExpandPaths(); err != nil {
				return nil, fmt.Errorf("failed to expand paths: %w", err)
			}
			return cfg, nil
		}
		return nil, err
	}

	defaults := DefaultConfig()
	raw := fileConfig{
		Source:      defaults.Source,
		ContentDir:  defaults.ContentDir,
		SQLitePath:  defaults.SQLitePath,
		SnapshotDir: defaults.SnapshotDir,
		LogLevel:    defaults.LogLevel,
		PageSize:    defaults.PageSize,
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	timeout := defaults.QueryTimeout
	if raw.QueryTimeout != "" {
		timeout, err = time.ParseDuration(raw.QueryTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid query_timeout format '%s': %w", raw.QueryTimeout, err)
		}
	}

	// nil keeps the default phrases; an explicit empty list disables them
	phrases := raw.LeadInPhrases
	if phrases == nil {
		phrases = defaults.LeadInPhrases
	}

	cfg := &Config{
		Source:           raw.Source,
		ContentDir:       raw.ContentDir,
		SQLitePath:       raw.SQLitePath,
		PostgresDSN:      raw.PostgresDSN,
		SnapshotDir:      raw.SnapshotDir,
		LogFile:          raw.LogFile,
		LogLevel:         raw.LogLevel,
		PageSize:         raw.PageSize,
		LeadInPhrases:    phrases,
		EmptyPlaceholder: raw.EmptyPlaceholder,
		QueryTimeout:     timeout,
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.ExpandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	return cfg, nil
}

// Save writes configuration to the config path
func (c *Config) Save() error {
	configPath := ConfigPath()
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	raw := fileConfig{
		Source:           c.Source,
		ContentDir:       c.ContentDir,
		SQLitePath:       c.SQLitePath,
		PostgresDSN:      c.PostgresDSN,
		SnapshotDir:      c.SnapshotDir,
		LogFile:          c.LogFile,
		LogLevel:         c.LogLevel,
		PageSize:         c.PageSize,
		LeadInPhrases:    c.LeadInPhrases,
		EmptyPlaceholder: c.EmptyPlaceholder,
		QueryTimeout:     c.QueryTimeout.String(),
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Source {
	case SourceFile:
		if c.ContentDir == "" {
			return fmt.Errorf("content_dir cannot be empty for the file source")
		}
	case SourceSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("sqlite_path cannot be empty for the sqlite source")
		}
	case SourcePostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("postgres_dsn cannot be empty for the postgres source")
		}
	default:
		return fmt.Errorf("invalid source '%s': must be one of: file, sqlite, postgres", c.Source)
	}

	if c.SnapshotDir == "" {
		return fmt.Errorf("snapshot_dir cannot be empty")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive")
	}
	if c.QueryTimeout <= 0 {
		return fmt.Errorf("query_timeout must be positive")
	}

	validLevels := map[string]bool{
		"":      true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level '%s': must be one of: debug, info, warn, error", c.LogLevel)
	}

	return nil
}

// ExpandPaths expands any ~ or relative paths to absolute paths
func (c *Config) ExpandPaths() error {
	var err error

	c.ContentDir, err = expandPath(c.ContentDir)
	if err != nil {
		return fmt.Errorf("failed to expand content_dir: %w", err)
	}

	c.SQLitePath, err = expandPath(c.SQLitePath)
	if err != nil {
		return fmt.Errorf("failed to expand sqlite_path: %w", err)
	}

	c.SnapshotDir, err = expandPath(c.SnapshotDir)
	if err != nil {
		return fmt.Errorf("failed to expand snapshot_dir: %w", err)
	}

	c.LogFile, err = expandPath(c.LogFile)
	if err != nil {
		return fmt.Errorf("failed to expand log_file: %w", err)
	}

	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		path = filepath.Join(homeDir, path[1:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return absPath, nil
}
