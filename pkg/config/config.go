// Package config defines the mdcore configuration types.
// These types are plain data with yaml tags; loading and merging live in
// internal/configloader.
package config

import "github.com/yaklabco/mdcore/pkg/cache"

// Flavor specifies the Markdown flavor to use for parsing.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// IsValid reports whether f is a known flavor.
func (f Flavor) IsValid() bool {
	switch f {
	case FlavorCommonMark, FlavorGFM:
		return true
	default:
		return false
	}
}

// DefaultTooltipLimit is the default outline tooltip length in runes.
const DefaultTooltipLimit = 800

// ContinuationConfig controls list and quote continuation.
type ContinuationConfig struct {
	// Enabled turns continuation on Enter on or off.
	Enabled bool `yaml:"enabled"`
}

// CacheConfig controls the parse cache.
type CacheConfig struct {
	// Capacity is the number of parsed snapshots kept.
	Capacity int `yaml:"capacity"`
}

// ParseConfig controls background parsing.
type ParseConfig struct {
	// Workers is the number of background parse workers; 0 means one per CPU.
	Workers int `yaml:"workers"`
}

// LinksConfig controls relative link validation.
type LinksConfig struct {
	// Enabled turns link validation on or off.
	Enabled bool `yaml:"enabled"`

	// MarkdownExtensions are extra extensions tried for extensionless links.
	MarkdownExtensions []string `yaml:"markdown_extensions,omitempty"`
}

// OutlineConfig controls outline regions.
type OutlineConfig struct {
	// TooltipLimit is the number of runes kept in a region tooltip.
	TooltipLimit int `yaml:"tooltip_limit"`
}

// Config is the root configuration structure.
type Config struct {
	// Flavor specifies the Markdown flavor ("commonmark" or "gfm").
	Flavor Flavor `yaml:"flavor"`

	// LogLevel is the minimum log level ("debug", "info", "warn", "error").
	LogLevel string `yaml:"log_level"`

	Continuation ContinuationConfig `yaml:"continuation"`
	Cache        CacheConfig        `yaml:"cache"`
	Parse        ParseConfig        `yaml:"parse"`
	Links        LinksConfig        `yaml:"links"`
	Outline      OutlineConfig      `yaml:"outline"`

	// Ignore contains glob patterns for files to ignore.
	Ignore []string `yaml:"ignore,omitempty"`

	// CLI-level options (not persisted to config files).

	// Jobs overrides Parse.Workers for multi-file runs.
	Jobs int `yaml:"-"`
}

// NewConfig returns a Config with the defaults.
func NewConfig() *Config {
	return &Config{
		Flavor:       FlavorGFM,
		LogLevel:     "info",
		Continuation: ContinuationConfig{Enabled: true},
		Cache:        CacheConfig{Capacity: cache.DefaultCapacity},
		Parse:        ParseConfig{Workers: 0},
		Links:        LinksConfig{Enabled: true},
		Outline:      OutlineConfig{TooltipLimit: DefaultTooltipLimit},
	}
}

// Workers returns the worker count for multi-file runs.
func (c *Config) Workers() int {
	if c.Jobs > 0 {
		return c.Jobs
	}
	return c.Parse.Workers
}
