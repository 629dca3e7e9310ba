// Package langdetect guesses the language of fenced code blocks that carry
// no info string, so outlines can label them. Detection tries a shebang,
// then a few cheap patterns for the languages common in documentation,
// then the go-enry classifier.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
	"github.com/samber/lo"
)

// Text is returned by Detect when no language is recognized.
const Text = "text"

// candidates limits the enry classifier to languages seen in docs.
//
//nolint:gochecknoglobals // read-only classifier candidates
var candidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Dockerfile",
}

// pattern recognizes one language from the trimmed code.
type pattern struct {
	lang  string
	match func(code string) bool
}

// patterns are tried in order; earlier entries are more specific.
//
//nolint:gochecknoglobals // read-only pattern table
var patterns = []pattern{
	{"go", func(code string) bool {
		return strings.HasPrefix(code, "package ")
	}},
	{"python", looksLikePython},
	{"html", func(code string) bool {
		lower := strings.ToLower(code)
		return lo.SomeBy([]string{"<!doctype html", "<html", "<head>", "<body>"}, func(tag string) bool {
			return strings.Contains(lower, tag)
		})
	}},
	{"json", func(code string) bool {
		return (strings.HasPrefix(code, "{") || strings.HasPrefix(code, "[")) && strings.Contains(code, `"`)
	}},
	{"dockerfile", func(code string) bool {
		return strings.HasPrefix(code, "FROM ") ||
			(strings.Contains(code, "\nFROM ") && strings.Contains(code, "\nRUN ")) ||
			(strings.Contains(code, "WORKDIR ") && strings.Contains(code, "COPY "))
	}},
	{"sql", func(code string) bool {
		upper := strings.ToUpper(code)
		return lo.SomeBy([]string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "}, func(kw string) bool {
			return strings.HasPrefix(upper, kw)
		})
	}},
	{"rust", func(code string) bool {
		return strings.Contains(code, "fn main()") ||
			strings.Contains(code, "println!") ||
			strings.Contains(code, "let mut ")
	}},
	{"javascript", func(code string) bool {
		return lo.SomeBy([]string{"=>", "const ", "let ", "console.log"}, func(token string) bool {
			return strings.Contains(code, token)
		})
	}},
	{"yaml", looksLikeYAML},
}

// Guess returns the fence tag for content, or "" when the language cannot
// be told apart from plain text.
func Guess(content []byte) string {
	if lang := Detect(content); lang != Text {
		return lang
	}
	return ""
}

// Detect returns the fence tag for content, or Text when detection fails
// or the classifier is not confident.
func Detect(content []byte) string {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return Text
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return fenceTag(lang)
	}

	code := string(trimmed)
	for _, p := range patterns {
		if p.match(code) {
			return p.lang
		}
	}

	if lang, safe := enry.GetLanguageByClassifier(content, candidates); safe && lang != "" {
		return fenceTag(lang)
	}

	return Text
}

func looksLikePython(code string) bool {
	switch {
	case strings.Contains(code, "def ") && strings.Contains(code, "):"):
		return true
	case strings.Contains(code, "__name__") || strings.Contains(code, "__main__"):
		return true
	case strings.Contains(code, "import (") || !strings.Contains(code, "import "):
		return false
	default:
		return strings.HasPrefix(code, "import ") || strings.Contains(code, "from ")
	}
}

// looksLikeYAML counts "key: value" lines and root list items.
func looksLikeYAML(code string) bool {
	count := 0
	for _, line := range strings.Split(code, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.Contains(line, ": ") && !strings.ContainsAny(line, "({") && !strings.HasPrefix(line, `"`) {
			count++
		}
		if strings.HasPrefix(line, "- ") {
			count++
		}
	}
	return count >= 2
}

// fenceTag converts a go-enry language name to a fence info tag.
func fenceTag(lang string) string {
	if lang == "Shell" {
		return "bash"
	}
	return strings.ToLower(lang)
}
