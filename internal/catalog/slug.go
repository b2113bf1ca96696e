package catalog

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Slugify lowercases name and collapses every non-alphanumeric run into a
// single hyphen. Slugs are derived at creation and immutable afterwards.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// SlugWithSuffix derives a slug with a short random suffix, used when the
// plain slug is already taken.
func SlugWithSuffix(name string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	slug := Slugify(name)
	if slug == "" {
		return suffix
	}
	return slug + "-" + suffix
}
