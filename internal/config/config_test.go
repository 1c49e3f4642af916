package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hyperjump/katalog/internal/catalog"
	"github.com/hyperjump/katalog/internal/models"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
catalog:
  path: "/data/cameraData.xlsx"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Catalog.Path != "/data/cameraData.xlsx" {
		t.Errorf("catalog path = %s", cfg.Catalog.Path)
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
	if cfg.Columns.NameOne != catalog.DefaultNameOne {
		t.Errorf("name_one default = %q", cfg.Columns.NameOne)
	}
}

func TestLoad_expandPathDotSlashRelativeToConfigDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
catalog:
  path: "./data/cameraData.xlsx"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "data", "cameraData.xlsx")
	if cfg.Catalog.Path != want {
		t.Errorf("catalog path = %s, want %s", cfg.Catalog.Path, want)
	}
}

func TestLoad_invalidMatchRule(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
search:
  filter_match: "regex"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown filter_match")
	}
}

func TestLoad_missingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	if cfg.Server.Host != "localhost" {
		t.Errorf("default host: got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default port: got %d", cfg.Server.Port)
	}
	if cfg.Search.FilterMatch != "exact" || cfg.Search.HighlightMatch != "contains" {
		t.Errorf("match defaults: filter=%s highlight=%s", cfg.Search.FilterMatch, cfg.Search.HighlightMatch)
	}
	if cfg.Search.CacheSize != 256 || cfg.Search.PartLimit != 10 || cfg.Search.PartFuzziness != 1 {
		t.Errorf("search defaults: %+v", cfg.Search)
	}
	if cfg.Catalog.Watch == nil || !*cfg.Catalog.Watch {
		t.Error("watch should default to true")
	}
	if cfg.Catalog.Debounce != 400*time.Millisecond {
		t.Errorf("debounce default = %v", cfg.Catalog.Debounce)
	}
	if cfg.Columns.Manufacturer != "MNF" {
		t.Errorf("manufacturer default = %q", cfg.Columns.Manufacturer)
	}
}

func TestLoad_Debounce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
catalog:
  path: "/data/cameraData.xlsx"
  debounce: 1.5s
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Catalog.Debounce != 1500*time.Millisecond {
		t.Errorf("debounce = %v, want 1.5s", cfg.Catalog.Debounce)
	}

	saved := filepath.Join(t.TempDir(), "saved.yaml")
	if err := Save(saved, cfg); err != nil {
		t.Fatal(err)
	}
	reloaded, err := Load(saved)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Catalog.Debounce != cfg.Catalog.Debounce {
		t.Errorf("round trip debounce = %v", reloaded.Catalog.Debounce)
	}
}

func TestCatalogConfig_WatchOrDefault(t *testing.T) {
	t.Run("nil_returns_true", func(t *testing.T) {
		c := &CatalogConfig{}
		if got := c.WatchOrDefault(); !got {
			t.Errorf("WatchOrDefault() = %v, want true", got)
		}
	})
	t.Run("false_returns_false", func(t *testing.T) {
		f := false
		c := &CatalogConfig{Watch: &f}
		if got := c.WatchOrDefault(); got {
			t.Errorf("WatchOrDefault() = %v, want false", got)
		}
	})
}

func TestSearchConfig_Rules(t *testing.T) {
	filter, highlight, err := SearchConfig{}.Rules()
	if err != nil {
		t.Fatal(err)
	}
	if filter != models.MatchExact || highlight != models.MatchContains {
		t.Errorf("Rules() = %q, %q", filter, highlight)
	}
	if _, _, err := (SearchConfig{HighlightMatch: "bogus"}).Rules(); err == nil {
		t.Error("expected error for bogus highlight_match")
	}
}

func TestColumnsConfig_ToColumns(t *testing.T) {
	cols := ColumnsConfig{NameOne: "Group"}.ToColumns()
	if cols.NameOne != "Group" || cols.NameTwo != catalog.DefaultNameTwo {
		t.Errorf("ToColumns() = %+v", cols)
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "saved.yaml")
	cfg := &Config{
		Server:  ServerConfig{Host: "localhost", Port: 9090},
		Catalog: CatalogConfig{Path: "/tmp/catalog.xlsx"},
	}
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Server.Port != 9090 {
		t.Errorf("loaded port: got %d", loaded.Server.Port)
	}
	if loaded.Catalog.Path != "/tmp/catalog.xlsx" {
		t.Errorf("loaded catalog path: got %s", loaded.Catalog.Path)
	}
}
