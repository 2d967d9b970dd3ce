// Package goquery implements link discovery using github.com/PuerkitoBio/goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/siteindex"
)

// Ensure LinkExtractor implements siteindex.LinkExtractor at compile time.
var _ siteindex.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor collects the href attribute of every element and keeps
// the links that resolve inside the origin.
type LinkExtractor struct {
	origin *siteindex.Origin
}

// NewLinkExtractor creates a LinkExtractor scoped to origin.
func NewLinkExtractor(origin *siteindex.Origin) *LinkExtractor {
	return &LinkExtractor{origin: origin}
}

// ExtractLinks returns in-scope links of html resolved against pageURL.
// Only the first siteindex.MaxScanBytes of markup are scanned.
func (e *LinkExtractor) ExtractLinks(html string, pageURL string) []string {
	html = siteindex.TruncateMarkup(html, siteindex.MaxScanBytes)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var links []string
	doc.Find("[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if isNonHTTPLink(href) {
			return
		}
		resolved, ok := e.origin.Resolve(pageURL, href)
		if !ok || seen[resolved] {
			return
		}
		seen[resolved] = true
		links = append(links, resolved)
	})
	return links
}

// isNonHTTPLink reports whether href uses a scheme that never yields a page.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
