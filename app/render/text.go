package render

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mitchellh/go-wordwrap"
	"golang.org/x/text/unicode/norm"
)

type TextCleaner struct {
	policy *bluemonday.Policy
}

func NewTextCleaner() *TextCleaner {
	policy := bluemonday.StrictPolicy()
	policy.AddSpaceWhenStrippingTag(true)

	return &TextCleaner{
		policy: policy,
	}
}

// Run turns feed HTML into a single line of plain text.
func (c *TextCleaner) Run(s string) string {
	if s == "" {
		return ""
	}

	// StrictPolicy escapes the text it keeps
	return normalizeText(html.UnescapeString(c.policy.Sanitize(s)))
}

// normalizeText composes s to NFC and collapses whitespace. It leaves markup
// alone: titles arrive entity-decoded, so "<T>" there is text.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// wrap breaks text at width columns and prefixes every line with indent.
func wrap(text, indent string, width int) string {
	limit := width - len(indent)
	if limit < minWrapWidth {
		limit = minWrapWidth
	}

	lines := strings.Split(wordwrap.WrapString(text, uint(limit)), "\n")
	for i, line := range lines {
		lines[i] = indent + line
	}

	return strings.Join(lines, "\n")
}
