package mock

import "github.com/fwojciec/siteindex"

var _ siteindex.TextExtractor = (*TextExtractor)(nil)

// TextExtractor is a mock implementation of siteindex.TextExtractor.
type TextExtractor struct {
	ExtractTextFn func(html string) string
}

func (e *TextExtractor) ExtractText(html string) string {
	return e.ExtractTextFn(html)
}

var _ siteindex.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of siteindex.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html string, pageURL string) []string
}

func (e *LinkExtractor) ExtractLinks(html string, pageURL string) []string {
	return e.ExtractLinksFn(html, pageURL)
}
