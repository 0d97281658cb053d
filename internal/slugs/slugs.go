// Package slugs normalizes user-chosen names into URL slugs.
package slugs

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const maxSlugLength = 30

// Slugify lowercases the input, strips accents, collapses every run of
// non-alphanumeric characters to a single dash and caps the result length.
// An input with no usable characters yields an empty slug.
func Slugify(raw string) string {
	decomposed := norm.NFD.String(raw)

	var b strings.Builder
	lastDash := true
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		r = unicode.ToLower(r)
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}

	slug := strings.Trim(b.String(), "-")
	if len(slug) > maxSlugLength {
		slug = strings.Trim(slug[:maxSlugLength], "-")
	}
	return slug
}
