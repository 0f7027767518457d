// Package sanitize cleans user-supplied text before it is stored.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strict = bluemonday.StrictPolicy()
	rich   = bluemonday.UGCPolicy()

	// Only entities that cannot form markup are decoded; &lt; and &gt; stay
	// escaped so typed-in tags never come back as real ones.
	plainEntities = strings.NewReplacer("&amp;", "&", "&#39;", "'", "&#34;", `"`)
)

// Text strips all markup from a plain-text field (titles, names, comments).
// Ampersands and quotes escaped by the policy are decoded back so "&" stays "&".
func Text(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(plainEntities.Replace(strict.Sanitize(s)))
}

// Rich keeps safe formatting markup (descriptions, bios) and drops scripts,
// event handlers and javascript: links.
func Rich(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(rich.Sanitize(s))
}

// Texts applies Text to every element and drops the ones left empty.
func Texts(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = Text(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
