// Package config provides configuration loading and structs for the Kensaku server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hyperjump/kensaku/internal/models"
	"github.com/hyperjump/kensaku/internal/ranking"
)

// Config holds all configuration for the application.
type Config struct {
	Debug   bool                  `yaml:"debug"`
	Server  ServerConfig          `yaml:"server"`
	Storage StorageConfig         `yaml:"storage"`
	Dataset DatasetConfig         `yaml:"dataset"`
	Search  SearchConfig          `yaml:"search"`
	Scoring ranking.ScoringConfig `yaml:"scoring"`
	Fields  []models.FieldConfig  `yaml:"fields"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds history persistence settings. An empty HistoryDBPath
// keeps history in memory for the lifetime of the process.
type StorageConfig struct {
	HistoryDBPath string `yaml:"history_db_path"`
	HistoryKey    string `yaml:"history_key"`
}

// DatasetConfig holds the dataset file settings.
type DatasetConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"`
}

// SearchConfig holds search, suggestion, and history settings.
type SearchConfig struct {
	DebounceMS      int `yaml:"debounce_ms"`
	MaxHistoryItems int `yaml:"max_history_items"`
	MaxSuggestions  int `yaml:"max_suggestions"`
	DefaultLimit    int `yaml:"default_limit"`
	MaxLimit        int `yaml:"max_limit"`
}

// Debounce returns the debounce interval as a duration.
func (s *SearchConfig) Debounce() time.Duration {
	return time.Duration(s.DebounceMS) * time.Millisecond
}

// Load reads and parses the config file at path, expands paths, and applies
// defaults. Returns an error if the file cannot be read or parsed, or if no
// searchable field is configured.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	configDir := filepath.Dir(path)
	if cfg.Storage.HistoryDBPath != "" {
		cfg.Storage.HistoryDBPath = expandPath(cfg.Storage.HistoryDBPath, configDir)
	}
	if cfg.Dataset.Path != "" {
		cfg.Dataset.Path = expandPath(cfg.Dataset.Path, configDir)
	}

	return &cfg, nil
}

// Validate checks invariants that defaults cannot repair.
func (c *Config) Validate() error {
	if len(c.Fields) == 0 {
		return fmt.Errorf("config: at least one field must be configured")
	}
	seen := make(map[string]bool, len(c.Fields))
	for _, f := range c.Fields {
		if f.Key == "" {
			return fmt.Errorf("config: field key cannot be empty")
		}
		if seen[f.Key] {
			return fmt.Errorf("config: duplicate field key %q", f.Key)
		}
		seen[f.Key] = true
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are
// relative to configDir; other relative paths are relative to the home
// directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
