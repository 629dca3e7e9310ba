package configloader

import (
	"github.com/samber/lo"

	"github.com/yaklabco/mdcore/pkg/config"
)

// Overrides holds the values set by CLI flags. Nil fields were not set and
// leave the configuration unchanged, so a flag can switch a feature off
// as well as on.
type Overrides struct {
	Flavor              *config.Flavor
	LogLevel            *string
	ContinuationEnabled *bool
	LinksEnabled        *bool
	CacheCapacity       *int
	TooltipLimit        *int
	Jobs                *int

	// Ignore patterns are appended to the configured ones.
	Ignore []string

	// MarkdownExtensions are appended to the configured ones.
	MarkdownExtensions []string
}

// Apply writes the set overrides onto cfg. A nil receiver does nothing.
func (o *Overrides) Apply(cfg *config.Config) {
	if o == nil || cfg == nil {
		return
	}

	if o.Flavor != nil {
		cfg.Flavor = *o.Flavor
	}
	if o.LogLevel != nil {
		cfg.LogLevel = *o.LogLevel
	}
	if o.ContinuationEnabled != nil {
		cfg.Continuation.Enabled = *o.ContinuationEnabled
	}
	if o.LinksEnabled != nil {
		cfg.Links.Enabled = *o.LinksEnabled
	}
	if o.CacheCapacity != nil {
		cfg.Cache.Capacity = *o.CacheCapacity
	}
	if o.TooltipLimit != nil {
		cfg.Outline.TooltipLimit = *o.TooltipLimit
	}
	if o.Jobs != nil {
		cfg.Jobs = *o.Jobs
	}

	cfg.Ignore = appendUnique(cfg.Ignore, o.Ignore...)
	cfg.Links.MarkdownExtensions = appendUnique(cfg.Links.MarkdownExtensions, o.MarkdownExtensions...)
}

// MergeAll layers overrides in order, later ones taking precedence, and
// returns the combined set.
func MergeAll(all ...*Overrides) *Overrides {
	result := &Overrides{}
	for _, o := range all {
		if o == nil {
			continue
		}
		result.Flavor = pick(result.Flavor, o.Flavor)
		result.LogLevel = pick(result.LogLevel, o.LogLevel)
		result.ContinuationEnabled = pick(result.ContinuationEnabled, o.ContinuationEnabled)
		result.LinksEnabled = pick(result.LinksEnabled, o.LinksEnabled)
		result.CacheCapacity = pick(result.CacheCapacity, o.CacheCapacity)
		result.TooltipLimit = pick(result.TooltipLimit, o.TooltipLimit)
		result.Jobs = pick(result.Jobs, o.Jobs)
		result.Ignore = appendUnique(result.Ignore, o.Ignore...)
		result.MarkdownExtensions = appendUnique(result.MarkdownExtensions, o.MarkdownExtensions...)
	}
	return result
}

func pick[T any](base, override *T) *T {
	if override != nil {
		return override
	}
	return base
}

func appendUnique(base []string, values ...string) []string {
	for _, v := range values {
		if !lo.Contains(base, v) {
			base = append(base, v)
		}
	}
	return base
}
