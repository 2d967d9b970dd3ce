package nethtml

import (
	"strings"

	"github.com/fwojciec/siteindex"
)

// Ensure TextExtractor implements siteindex.TextExtractor at compile time.
var _ siteindex.TextExtractor = (*TextExtractor)(nil)

// TextExtractor flattens markup to its visible text.
type TextExtractor struct{}

// NewTextExtractor creates a TextExtractor.
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

// ExtractText returns the words of every text run outside script and
// style elements, joined by single spaces. Only the first
// siteindex.MaxScanBytes of markup are scanned.
func (e *TextExtractor) ExtractText(markup string) string {
	markup = siteindex.TruncateMarkup(markup, siteindex.MaxScanBytes)

	var b strings.Builder
	skip := ""
	for ev := range Scan(markup) {
		switch ev.Kind {
		case StartTag:
			if skip == "" && isHidden(ev.Name) {
				skip = ev.Name
			}
		case EndTag:
			if ev.Name == skip {
				skip = ""
			}
		case Text:
			if skip != "" {
				continue
			}
			for _, word := range strings.Fields(ev.Text) {
				if b.Len() > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(word)
			}
		}
	}
	return b.String()
}

func isHidden(tag string) bool {
	return tag == "script" || tag == "style"
}
