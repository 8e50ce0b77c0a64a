package site

import (
	"fmt"
	"regexp"
	"strings"
)

/*
	Artist profile slugs
	--------------------
	- generate the slug from the username
	- suffix the user id so slugs stay unique
	- build the public profile URL
*/

var (
	nonSlug   = regexp.MustCompile(`[^a-z0-9\-]+`)
	multiDash = regexp.MustCompile(`-+`)
)

var PublicBaseURL = "https://artmarket.example.com"

// Slugify lowercases name and keeps only [a-z0-9-]. It returns "" when
// nothing usable is left.
func Slugify(name string) string {
	base := strings.ToLower(strings.TrimSpace(name))
	base = strings.ReplaceAll(base, " ", "-")
	base = strings.ReplaceAll(base, "_", "-")
	base = nonSlug.ReplaceAllString(base, "")
	base = multiDash.ReplaceAllString(base, "-")
	return strings.Trim(base, "-")
}

// MakeSlug generates a URL-safe base slug.
// Example: "Mira Q. Stone" -> "mira-q-stone"
func MakeSlug(name string) string {
	if base := Slugify(name); base != "" {
		return base
	}
	return "artist"
}

// ProfileSlug must be called after the user has an ID.
func ProfileSlug(username string, userID uint) (string, error) {
	if userID == 0 {
		return "", fmt.Errorf("user ID missing (create the user first)")
	}
	return fmt.Sprintf("%s-%d", MakeSlug(username), userID), nil
}

// BuildPublicURL builds the public artist page URL from a slug.
// Example: "mira-stone-32" -> "https://artmarket.example.com/artists/mira-stone-32"
func BuildPublicURL(slug string) string {
	return strings.TrimRight(PublicBaseURL, "/") + "/artists/" + slug
}
