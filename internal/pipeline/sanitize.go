package pipeline

import (
	"context"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// HTMLSanitizer removes unsafe markup from rendered HTML.
type HTMLSanitizer interface {
	SanitizeHTML(ctx context.Context, htmlContent string) string
}

// classPattern admits the class lists produced by goldmark and chroma
// (language-go, chroma, nt, footnote-ref, ...).
var classPattern = regexp.MustCompile(`^[\w\- ]+$`)

// UGCSanitizer applies bluemonday's user-generated content policy,
// extended so that highlighting classes, heading ids, task list checkboxes
// and <mark> survive.
type UGCSanitizer struct {
	policy *bluemonday.Policy
}

// NewUGCSanitizer creates a sanitizer. The policy is safe for concurrent use.
func NewUGCSanitizer() *UGCSanitizer {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(classPattern).Globally()
	p.AllowElements("mark", "section")
	p.AllowAttrs("type", "checked", "disabled").OnElements("input")
	p.AllowAttrs("role").Matching(regexp.MustCompile(`^doc-[a-z]+$`)).OnElements("a", "section", "li")
	return &UGCSanitizer{policy: p}
}

// SanitizeHTML implements HTMLSanitizer. On cancellation it returns "".
func (s *UGCSanitizer) SanitizeHTML(ctx context.Context, htmlContent string) string {
	if ctx.Err() != nil {
		return ""
	}
	return s.policy.Sanitize(htmlContent)
}

var _ HTMLSanitizer = (*UGCSanitizer)(nil)
