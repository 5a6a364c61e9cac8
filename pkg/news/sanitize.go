package news

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips markup from provider supplied text
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer makes a sanitizer removing all HTML elements
func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Text returns s without tags, entities decoded and whitespace collapsed
func (s *Sanitizer) Text(text string) string {
	if text == "" {
		return ""
	}
	cleaned := html.UnescapeString(s.policy.Sanitize(text))
	return strings.Join(strings.Fields(cleaned), " ")
}
