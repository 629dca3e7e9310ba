package reporter

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Format names an output format.
type Format string

// Output formats understood by New.
const (
	FormatText    Format = "text"
	FormatTable   Format = "table"
	FormatJSON    Format = "json"
	FormatSARIF   Format = "sarif"
	FormatSummary Format = "summary"
)

// Formats lists every supported format in help order.
var Formats = []Format{FormatText, FormatTable, FormatJSON, FormatSARIF, FormatSummary}

// ParseFormat resolves a user-supplied format name. Matching ignores case
// and surrounding space; the empty string selects text.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return FormatText, nil
	}
	if format := Format(name); format.IsValid() {
		return format, nil
	}
	return "", fmt.Errorf("unknown format %q; valid formats: %s", name, strings.Join(lo.Map(Formats, func(f Format, _ int) string {
		return string(f)
	}), ", "))
}

func (f Format) String() string {
	return string(f)
}

// IsValid reports whether f is one of Formats.
func (f Format) IsValid() bool {
	return lo.Contains(Formats, f)
}
