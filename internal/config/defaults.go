package config

import (
	"time"

	"github.com/hyperjump/katalog/internal/catalog"
)

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = "/usr/local/var/katalog/cameraData.xlsx"
	}
	if cfg.Catalog.Debounce <= 0 {
		cfg.Catalog.Debounce = 400 * time.Millisecond
	}
	d := catalog.DefaultColumns()
	if cfg.Columns.NameOne == "" {
		cfg.Columns.NameOne = d.NameOne
	}
	if cfg.Columns.NameTwo == "" {
		cfg.Columns.NameTwo = d.NameTwo
	}
	if cfg.Columns.Registration == "" {
		cfg.Columns.Registration = d.Registration
	}
	if cfg.Columns.TotalCost == "" {
		cfg.Columns.TotalCost = d.TotalCost
	}
	if cfg.Columns.Unit == "" {
		cfg.Columns.Unit = d.Unit
	}
	if cfg.Columns.Manufacturer == "" {
		cfg.Columns.Manufacturer = d.Manufacturer
	}
	if cfg.Search.FilterMatch == "" {
		cfg.Search.FilterMatch = "exact"
	}
	if cfg.Search.HighlightMatch == "" {
		cfg.Search.HighlightMatch = "contains"
	}
	if cfg.Search.CacheSize == 0 {
		cfg.Search.CacheSize = 256
	}
	if cfg.Search.PartFuzziness == 0 {
		cfg.Search.PartFuzziness = 1
	}
	if cfg.Search.PartLimit == 0 {
		cfg.Search.PartLimit = 10
	}
	// Watch defaults to true when unset (nil).
	if cfg.Catalog.Watch == nil {
		t := true
		cfg.Catalog.Watch = &t
	}
}
