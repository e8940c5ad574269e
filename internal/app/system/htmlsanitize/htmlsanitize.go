// Package htmlsanitize cleans free text submitted through public forms and
// prepares it for display.
package htmlsanitize

import (
	"html"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict drops every tag. bluemonday policies are safe for concurrent use.
var strict = bluemonday.StrictPolicy()

// Text strips all markup from s and returns the plain text, trimmed.
// Entities are decoded so the stored value is what the user typed; templates
// escape it again on output.
func Text(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// PlainTextToHTML escapes s and turns newlines into <br> inside one paragraph.
func PlainTextToHTML(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return "<p>" + strings.ReplaceAll(html.EscapeString(s), "\n", "<br>") + "</p>"
}

// PrepareForDisplay renders stored plain text as HTML for templates.
func PrepareForDisplay(s string) template.HTML {
	return template.HTML(PlainTextToHTML(s)) //nolint:gosec // escaped above
}
