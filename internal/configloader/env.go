package configloader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/yaklabco/mdcore/pkg/config"
)

const envVarPrefix = "MDCORE_"

// envVar binds one MDCORE_* variable to a config field.
type envVar struct {
	suffix      string
	field       string
	description string
	apply       func(cfg *config.Config, value string) error
}

func (v envVar) name() string { return envVarPrefix + v.suffix }

//nolint:gochecknoglobals // read-only binding table
var envVars = []envVar{
	{"FLAVOR", "flavor", "Markdown flavor: commonmark or gfm",
		stringSetter(func(cfg *config.Config) *string { return (*string)(&cfg.Flavor) })},
	{"LOG_LEVEL", "log_level", "Log level: debug, info, warn or error",
		stringSetter(func(cfg *config.Config) *string { return &cfg.LogLevel })},
	{"CONTINUATION_ENABLED", "continuation.enabled", "Continue lists and quotes on Enter: true or false",
		boolSetter(func(cfg *config.Config) *bool { return &cfg.Continuation.Enabled })},
	{"CACHE_CAPACITY", "cache.capacity", "Number of parsed snapshots kept",
		intSetter(func(cfg *config.Config) *int { return &cfg.Cache.Capacity })},
	{"PARSE_WORKERS", "parse.workers", "Number of parse workers (0 = auto)",
		intSetter(func(cfg *config.Config) *int { return &cfg.Parse.Workers })},
	{"LINKS_ENABLED", "links.enabled", "Validate relative links: true or false",
		boolSetter(func(cfg *config.Config) *bool { return &cfg.Links.Enabled })},
	{"LINKS_MARKDOWN_EXTENSIONS", "links.markdown_extensions", "Comma-separated extra Markdown extensions",
		listSetter(func(cfg *config.Config) *[]string { return &cfg.Links.MarkdownExtensions })},
	{"OUTLINE_TOOLTIP_LIMIT", "outline.tooltip_limit", "Maximum outline tooltip length",
		intSetter(func(cfg *config.Config) *int { return &cfg.Outline.TooltipLimit })},
	{"IGNORE", "ignore", "Comma-separated list of ignore patterns",
		listSetter(func(cfg *config.Config) *[]string { return &cfg.Ignore })},
}

func stringSetter(field func(*config.Config) *string) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		*field(cfg) = value
		return nil
	}
}

func boolSetter(field func(*config.Config) *bool) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%q is not a boolean (expected true/false/1/0)", value)
		}
		*field(cfg) = b
		return nil
	}
}

func intSetter(field func(*config.Config) *int) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		i, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%q is not an integer", value)
		}
		*field(cfg) = i
		return nil
	}
}

func listSetter(field func(*config.Config) *[]string) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		*field(cfg) = splitList(value)
		return nil
	}
}

// splitList splits a comma-separated value, trimming items and dropping
// empty ones.
func splitList(value string) []string {
	return lo.Compact(lo.Map(strings.Split(value, ","), func(item string, _ int) string {
		return strings.TrimSpace(item)
	}))
}

// loadFromEnv applies every set MDCORE_* variable to cfg in table order.
func loadFromEnv(cfg *config.Config, getenv func(string) string) error {
	if cfg == nil {
		return nil
	}

	for _, v := range envVars {
		value := getenv(v.name())
		if value == "" {
			continue
		}
		if err := v.apply(cfg, value); err != nil {
			return fmt.Errorf("%s: %w", v.name(), err)
		}
	}

	return nil
}

// GetEnvVarName returns the variable bound to a dotted config field, or ""
// when none is.
func GetEnvVarName(field string) string {
	v, ok := lo.Find(envVars, func(v envVar) bool { return v.field == field })
	if !ok {
		return ""
	}
	return v.name()
}

// ListEnvVars maps every supported variable to its description.
func ListEnvVars() map[string]string {
	return lo.SliceToMap(envVars, func(v envVar) (string, string) {
		return v.name(), v.description
	})
}
