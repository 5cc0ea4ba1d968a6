// Package textnorm cleans raw complaint text before classification.
package textnorm

import (
	"regexp"
	"strings"
)

// Transform order matters: token-level removals run on the raw (lowered)
// text so URL/email/phone shapes are still intact, character filters run
// next, and whitespace is collapsed last so the result is idempotent.
var (
	urlPattern      = regexp.MustCompile(`http\S+|www\S+`)
	emailPattern    = regexp.MustCompile(`\S+@\S+`)
	phonePattern    = regexp.MustCompile(`(\+91|0)?[6-9]\d{9}`)
	nonASCIIPattern = regexp.MustCompile(`[^\x00-\x7F]+`)
	keepPattern     = regexp.MustCompile(`[^a-zA-Z0-9\s.,!?]`)
	spacePattern    = regexp.MustCompile(`\s+`)
)

// Normalize lower-cases text and strips URLs, emails, phone numbers,
// non-ASCII runs, and punctuation noise. Empty input yields empty output;
// Normalize never fails.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ToLower(text)
	text = urlPattern.ReplaceAllString(text, "")
	text = emailPattern.ReplaceAllString(text, "")
	text = phonePattern.ReplaceAllString(text, "")
	text = nonASCIIPattern.ReplaceAllString(text, "")
	text = keepPattern.ReplaceAllString(text, "")
	text = spacePattern.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}
