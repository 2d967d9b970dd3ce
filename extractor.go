package siteindex

// MaxScanBytes bounds how much of a page the extractors look at,
// capping cost on pathological pages.
const MaxScanBytes = 200_000

// TextExtractor reduces markup to a flat text blob.
type TextExtractor interface {
	// ExtractText returns the visible text of html, script and style
	// content removed, text runs joined by single spaces.
	// Malformed markup never fails; whatever was accumulated is returned.
	ExtractText(html string) string
}

// LinkExtractor discovers in-scope links in markup.
type LinkExtractor interface {
	// ExtractLinks returns the deduplicated, normalized, in-scope URLs
	// referenced by html, resolved against pageURL, in document order.
	ExtractLinks(html string, pageURL string) []string
}

// TruncateMarkup cuts s to at most n bytes without splitting a UTF-8 sequence.
func TruncateMarkup(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && cut > n-4 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
