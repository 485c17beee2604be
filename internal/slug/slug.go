// Package slug derives URL-safe article identifiers from titles.
package slug

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD and drops combining marks, so accented
// titles slugify to their ASCII skeleton ("Café" -> "Cafe").
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Make returns a slug for the title: the normalized stem plus a
// `-<unix-millis>-<6 hex>` uniqueness tail.
//
// The timestamp alone leaves a collision window when two articles with the
// same title are created within the same millisecond; the random tail
// closes it without a retry-on-conflict loop. Collisions are treated as
// negligible, not impossible - the store's UNIQUE constraint is the
// backstop.
func Make(title string) string {
	return fmt.Sprintf("%s-%d-%s", Prefix(title), time.Now().UnixMilli(), randomTail())
}

// Prefix returns the normalized stem of the slug for a title: lowercased,
// with every run of non-alphanumeric characters collapsed to a single
// hyphen. "My First Post" -> "my-first-post".
func Prefix(title string) string {
	normalized, _, err := transform.String(stripMarks, title)
	if err != nil {
		// Normalization is best-effort; fall back to the raw title.
		normalized = title
	}

	var b strings.Builder
	b.Grow(len(normalized))
	pendingHyphen := false
	for _, r := range strings.ToLower(normalized) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}

	if b.Len() == 0 {
		return "untitled"
	}
	return b.String()
}

// randomTail returns 6 hex characters sourced from a v4 UUID.
func randomTail() string {
	return uuid.NewString()[:6]
}
