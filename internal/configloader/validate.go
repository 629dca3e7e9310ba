package configloader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/samber/lo"

	"github.com/yaklabco/mdcore/internal/logging"
	"github.com/yaklabco/mdcore/pkg/config"
)

// ValidationError reports one bad configuration value.
type ValidationError struct {
	FilePath string // config file, when known
	Field    string // dotted key, e.g. "cache.capacity"
	Value    any
	Message  string
}

// Error renders "file: field: message", omitting unknown parts.
func (e *ValidationError) Error() string {
	return strings.Join(lo.Compact([]string{e.FilePath, e.Field, e.Message}), ": ")
}

// ValidationResult collects the errors and warnings of one Validate call.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// Valid reports whether no errors were found.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Err joins every error, or returns nil for a valid result.
func (r *ValidationResult) Err() error {
	return errors.Join(lo.Map(r.Errors, func(e ValidationError, _ int) error {
		return &e
	})...)
}

func (r *ValidationResult) fail(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warn(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// Validate checks the ranges and formats of cfg. A nil config is valid.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if !cfg.Flavor.IsValid() {
		result.fail("flavor", cfg.Flavor, "invalid flavor %q; must be one of: commonmark, gfm", cfg.Flavor)
	}
	if _, known := logging.ParseLevel(cfg.LogLevel); cfg.LogLevel != "" && !known {
		result.fail("log_level", cfg.LogLevel, "invalid log level %q; must be one of: %s",
			cfg.LogLevel, strings.Join(logging.LevelNames, ", "))
	}

	for _, bound := range []struct {
		field string
		value int
		min   int
	}{
		{"cache.capacity", cfg.Cache.Capacity, 1},
		{"parse.workers", cfg.Parse.Workers, 0},
		{"jobs", cfg.Jobs, 0},
		{"outline.tooltip_limit", cfg.Outline.TooltipLimit, 1},
	} {
		if bound.value < bound.min {
			result.fail(bound.field, bound.value, "must be >= %d, got %d", bound.min, bound.value)
		}
	}

	for i, ext := range cfg.Links.MarkdownExtensions {
		field := fmt.Sprintf("links.markdown_extensions[%d]", i)
		switch {
		case strings.Trim(ext, ".") == "":
			result.fail(field, ext, "extension must not be empty")
		case !strings.HasPrefix(ext, "."):
			result.warn(field, ext, "extension %q has no leading dot; using %q", ext, "."+ext)
		}
	}

	for i, pattern := range cfg.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			result.fail(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern %q", pattern)
		}
	}

	return result
}
