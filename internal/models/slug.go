package models

import "strings"

// NormalizeSlug derives a URL-safe identifier from a title or an existing
// slug: lower-case, spaces become underscores, apostrophes are removed. No
// other characters are altered.
func NormalizeSlug(candidate string) string {
	slug := strings.ToLower(candidate)
	slug = strings.ReplaceAll(slug, " ", "_")
	return strings.ReplaceAll(slug, "'", "")
}
