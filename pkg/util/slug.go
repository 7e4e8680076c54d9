package util

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lower = cases.Lower(language.Und)

// Slugify lowercases s and collapses every run of characters outside
// [a-z0-9] and the Arabic block (U+0600..U+06FF) into a single '-'.
// Leading and trailing separators are dropped.
func Slugify(s string) string {
	s = strings.TrimSpace(lower.String(s))

	var b strings.Builder
	b.Grow(len(s))
	pendingSep := false
	for _, r := range s {
		if isSlugRune(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

// FavoriteSlug derives the fallback favorite identifier from a title and
// its displayed price. Two products sharing both collide. An empty title
// yields "" so callers can reject the item instead of inventing an id.
func FavoriteSlug(title, price string) string {
	if strings.TrimSpace(title) == "" {
		return ""
	}
	return Slugify(title + "-" + price)
}

func isSlugRune(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= '0' && r <= '9') ||
		(r >= 0x0600 && r <= 0x06FF)
}
