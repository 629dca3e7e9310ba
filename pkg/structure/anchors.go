package structure

import (
	"strconv"
	"strings"
	"unicode"
)

// Anchors hands out GitHub-compatible heading anchors for one document,
// suffixing repeats of a slug with -1, -2 and so on.
type Anchors struct {
	seen map[string]int
	n    int
}

func NewAnchors() *Anchors {
	return &Anchors{seen: map[string]int{}}
}

// Add returns the anchor for the next heading with text.
func (a *Anchors) Add(text string) string {
	base := Slug(text)
	count := a.seen[base]
	a.seen[base]++
	a.n++

	if count == 0 {
		return base
	}
	return base + "-" + strconv.Itoa(count)
}

// Len is the number of anchors handed out.
func (a *Anchors) Len() int {
	return a.n
}

// Slug converts heading text to a base anchor:
// lowercase, punctuation other than '-' and '_' dropped, spaces to hyphens,
// hyphen runs collapsed and trimmed.
func Slug(text string) string {
	var buf strings.Builder
	buf.Grow(len(text))

	prevHyphen := false
	for _, ch := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(ch) || unicode.IsNumber(ch):
			buf.WriteRune(ch)
			prevHyphen = false
		case ch == '-' || ch == '_':
			buf.WriteRune(ch)
			prevHyphen = ch == '-'
		case ch == ' ':
			if !prevHyphen && buf.Len() > 0 {
				buf.WriteByte('-')
				prevHyphen = true
			}
		}
	}

	result := strings.Trim(buf.String(), "-")
	for strings.Contains(result, "--") {
		result = strings.ReplaceAll(result, "--", "-")
	}
	return result
}
