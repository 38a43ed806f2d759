package tags

import (
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	literalPolicyOnce sync.Once
	literalPolicy     *bluemonday.Policy
)

// Sanitize cleans caller supplied markup so it can be embedded as a child of
// a generated tag. Inline formatting survives; scripts, handlers and unknown
// elements are stripped.
func Sanitize(raw string) template.HTML {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return template.HTML(strings.TrimSpace(literalSanitizer().Sanitize(trimmed)))
}

func literalSanitizer() *bluemonday.Policy {
	literalPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("b", "strong", "i", "em", "small", "span", "abbr", "code", "br")
		policy.AllowAttrs("class").OnElements("span", "abbr", "code")
		policy.AllowAttrs("title").OnElements("abbr")
		literalPolicy = policy
	})
	return literalPolicy
}
