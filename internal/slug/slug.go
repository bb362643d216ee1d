// Package slug builds the public portfolio URLs for resumes.
package slug

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
)

var nonWord = regexp.MustCompile(`[^\w ]+`)
var spaces = regexp.MustCompile(` +`)

// Make turns a display name into a URL slug: lowercase, punctuation stripped,
// spaces collapsed to hyphens. "Krishna Chaturvedi" becomes
// "krishna-chaturvedi".
func Make(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = nonWord.ReplaceAllString(s, "")
	s = spaces.ReplaceAllString(s, "-")
	return s
}

// Final builds the published slug for a profile name plus a 4-digit
// uniqueness suffix.
func Final(name string) string {
	return fmt.Sprintf("%s-%d", Make(name), 1000+rand.Intn(9000))
}

// Temporary builds a placeholder slug used between upload and analysis, so
// the initial insert satisfies the slug uniqueness constraint.
func Temporary() string {
	return fmt.Sprintf("user-%d", 100000+rand.Intn(900000))
}
