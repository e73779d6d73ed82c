package export

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	lineBreakTags  = regexp.MustCompile(`(?i)<br\s*/?>`)
	blockCloseTags = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|blockquote|pre|tr|ul|ol)\s*>`)
	listItemOpen   = regexp.MustCompile(`(?i)<li(\s[^>]*)?>`)
	spaceRuns      = regexp.MustCompile(`[ \t\r\f\v]+`)
)

// RichTextFlattener converts question HTML into plain text for the PDF.
// Block elements become line breaks, list items get a dash, every other tag
// is stripped by a bluemonday strict policy.
//
// Safe for concurrent use.
type RichTextFlattener struct {
	policy *bluemonday.Policy
}

// NewRichTextFlattener creates a flattener backed by bluemonday.StrictPolicy
func NewRichTextFlattener() *RichTextFlattener {
	return &RichTextFlattener{policy: bluemonday.StrictPolicy()}
}

// Flatten returns the text content with one line per block. Blank lines and
// repeated spaces are dropped; entities are decoded.
func (f *RichTextFlattener) Flatten(richText string) string {
	s := lineBreakTags.ReplaceAllString(richText, "\n")
	s = listItemOpen.ReplaceAllString(s, "\n- ")
	s = blockCloseTags.ReplaceAllString(s, "\n")

	// The strict policy escapes what it keeps, so decode afterwards
	s = html.UnescapeString(f.policy.Sanitize(s))
	s = strings.ReplaceAll(s, "\u00a0", " ")

	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(spaceRuns.ReplaceAllString(line, " "))
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
