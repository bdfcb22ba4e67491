// Package processing turns upstream text fragments into display text.
package processing

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var whitespace = regexp.MustCompile(`\s+`)

// Sanitizer strips markup from HTML fragments. It is safe for concurrent use.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer returns a Sanitizer that keeps no elements at all.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Plain removes tags, decodes entities and squeezes whitespace.
func (s *Sanitizer) Plain(input string) string {
	if input == "" {
		return ""
	}
	return Squeeze(html.UnescapeString(s.policy.Sanitize(input)))
}

// Squeeze collapses whitespace runs into single spaces and trims the ends.
func Squeeze(input string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(input, " "))
}
