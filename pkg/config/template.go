package config

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every key with its default value and documentation.
	// If false, generates a short template with most keys commented out.
	Full bool
}

// keyDocs documents each configuration key by its dotted path.
//
//nolint:gochecknoglobals // read-only documentation table
var keyDocs = map[string]string{
	"flavor":                    "Markdown flavor: commonmark or gfm.",
	"log_level":                 "Minimum log level: debug, info, warn or error.",
	"continuation":              "List, quote and footer continuation when Enter is pressed.",
	"continuation.enabled":      "Continue the current structure on a new line, or erase an empty item.",
	"cache":                     "Parsed document cache shared by all features.",
	"cache.capacity":            "Number of parsed snapshots kept; the least recently used is evicted first.",
	"parse":                     "Background parsing.",
	"parse.workers":             "Number of parse workers (0 = one per CPU).",
	"links":                     "Relative link validation.",
	"links.enabled":             "Report links whose target file does not exist.",
	"links.markdown_extensions": "Extra extensions tried for links written without one.",
	"outline":                   "Outline regions for folding and navigation.",
	"outline.tooltip_limit":     "Maximum number of characters shown in a region tooltip.",
	"ignore":                    "Glob patterns for files skipped by multi-file commands.",
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Full {
		return generateFullTemplate()
	}
	return generateMinimalTemplate(), nil
}

func generateMinimalTemplate() []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# Markdown flavor: commonmark or gfm
flavor: gfm

# Continue lists and quotes when Enter is pressed
# continuation:
#   enabled: true

# Number of parsed snapshots kept in memory
# cache:
#   capacity: 8

# Extra extensions tried for links written without one
# links:
#   enabled: true
#   markdown_extensions:
#     - .mdx

# File patterns to ignore (glob patterns)
# ignore:
#   - "vendor/**"
#   - "node_modules/**"
`)

	return buf.Bytes()
}

// generateFullTemplate encodes the defaults with every key documented.
func generateFullTemplate() ([]byte, error) {
	var root yaml.Node
	if err := root.Encode(NewConfig()); err != nil {
		return nil, fmt.Errorf("encode defaults: %w", err)
	}
	documentKeys(&root, "")

	body, err := encodeYAML(&root)
	if err != nil {
		return nil, err
	}
	return append([]byte(DefaultTemplateHeader()+"\n\n"), body...), nil
}

// documentKeys attaches keyDocs entries as head comments of mapping keys.
func documentKeys(node *yaml.Node, prefix string) {
	if node.Kind != yaml.MappingNode {
		return
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]

		path := key.Value
		if prefix != "" {
			path = prefix + "." + key.Value
		}

		if doc, ok := keyDocs[path]; ok {
			key.HeadComment = wrapComment(doc, commentWrapWidth)
		}
		documentKeys(value, path)
	}
}

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	currentLine := ""

	for _, word := range strings.Fields(text) {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n")
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# mdcore configuration
# See: https://github.com/yaklabco/mdcore`
}
