// Package config provides configuration loading and structs for the katalog server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hyperjump/katalog/internal/catalog"
	"github.com/hyperjump/katalog/internal/models"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug   bool          `yaml:"debug"`
	Server  ServerConfig  `yaml:"server"`
	Catalog CatalogConfig `yaml:"catalog"`
	Columns ColumnsConfig `yaml:"columns"`
	Search  SearchConfig  `yaml:"search"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// CatalogConfig locates the catalog document.
type CatalogConfig struct {
	Path  string `yaml:"path"`
	Watch *bool  `yaml:"watch"`
	// Debounce is how long the document must be quiet before a reload, e.g. "400ms".
	Debounce time.Duration `yaml:"debounce"`
}

// WatchOrDefault returns whether to reload the document on change; defaults to true when unset.
func (c *CatalogConfig) WatchOrDefault() bool {
	if c.Watch != nil {
		return *c.Watch
	}
	return true
}

// ColumnsConfig names the document headers the catalog relies on.
type ColumnsConfig struct {
	NameOne      string `yaml:"name_one"`
	NameTwo      string `yaml:"name_two"`
	Registration string `yaml:"registration"`
	TotalCost    string `yaml:"total_cost"`
	Unit         string `yaml:"unit"`
	Manufacturer string `yaml:"manufacturer"`
}

// ToColumns converts to catalog columns.
func (c ColumnsConfig) ToColumns() catalog.Columns {
	return catalog.Columns{
		NameOne:      c.NameOne,
		NameTwo:      c.NameTwo,
		Registration: c.Registration,
		TotalCost:    c.TotalCost,
		Unit:         c.Unit,
		Manufacturer: c.Manufacturer,
	}.WithDefaults()
}

// SearchConfig holds grid filter, highlight and part lookup settings.
type SearchConfig struct {
	// FilterMatch is the grid filter rule: exact or contains.
	FilterMatch string `yaml:"filter_match"`
	// HighlightMatch is the model highlight rule: exact or contains.
	HighlightMatch string `yaml:"highlight_match"`
	CacheSize      int    `yaml:"cache_size"`
	PartFuzziness  int    `yaml:"part_fuzziness"`
	PartLimit      int    `yaml:"part_limit"`
}

// Rules parses the configured match rules.
func (s SearchConfig) Rules() (filter, highlight models.MatchRule, err error) {
	filter, err = models.ParseMatchRule(s.FilterMatch, models.MatchExact)
	if err != nil {
		return "", "", fmt.Errorf("filter_match: %w", err)
	}
	highlight, err = models.ParseMatchRule(s.HighlightMatch, models.MatchContains)
	if err != nil {
		return "", "", fmt.Errorf("highlight_match: %w", err)
	}
	return filter, highlight, nil
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed, or a match rule is unknown.
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
	if _, _, err := cfg.Search.Rules(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.Catalog.Path = expandPath(cfg.Catalog.Path, filepath.Dir(path))
	return &cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
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
