package classifier

import (
	"html"
	"regexp"
	"strings"
)

var (
	tagRe    = regexp.MustCompile(`<[^>]*>`)
	styleRe  = regexp.MustCompile(`(?is)<(?:style|script)[^>]*>.*?</(?:style|script)>`)
	markupRe = regexp.MustCompile(`(?i)<\s*(?:html|body|div|p|br|table|span|a)\b`)
)

// Normalize turns a message body into plain text: markup is stripped, HTML
// entities are decoded, whitespace is collapsed. Unicode content passes
// through unmodified. All classification matching runs on this output.
func Normalize(body string) string {
	text := body
	if markupRe.MatchString(text) {
		text = styleRe.ReplaceAllString(text, " ")
		text = tagRe.ReplaceAllString(text, " ")
	}
	text = html.UnescapeString(text)

	// Collapse runs of whitespace into single spaces
	return strings.Join(strings.Fields(text), " ")
}
