package siteindex

import (
	"strings"
	"unicode/utf8"
)

// SnippetWidth is the number of characters shown around a match.
const SnippetWidth = 320

// Tokenize splits text into lowercase ASCII alphanumeric tokens,
// one per maximal run, in order of appearance.
func Tokenize(text string) []string {
	var tokens []string
	start := -1
	for i := 0; i <= len(text); i++ {
		if i < len(text) && isAlnum(text[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, lowerASCII(text[start:i]))
			start = -1
		}
	}
	return tokens
}

// Score sums the case-insensitive substring occurrences of every token in text.
// Tokens match inside larger words.
func Score(tokens []string, text string) int {
	lower := lowerASCII(text)
	score := 0
	for _, t := range tokens {
		if t == "" {
			continue
		}
		score += strings.Count(lower, t)
	}
	return score
}

// Snippet returns a window of width characters around the first occurrence
// of the first token that appears anywhere in text, tokens tried in order.
// Without any occurrence the window starts at the beginning of text.
func Snippet(text string, tokens []string, width int) string {
	lower := lowerASCII(text)
	pos := 0
	for _, t := range tokens {
		if t == "" {
			continue
		}
		if i := strings.Index(lower, t); i >= 0 {
			pos = utf8.RuneCountInString(text[:i])
			break
		}
	}

	runes := []rune(text)
	start := max(0, pos-width/2)
	end := min(len(runes), start+width)
	if start > end {
		start = end
	}
	return strings.TrimSpace(string(runes[start:end]))
}

// Excerpt returns the first width characters of text, trimmed.
func Excerpt(text string, width int) string {
	if utf8.RuneCountInString(text) <= width {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(string([]rune(text)[:width]))
}

func isAlnum(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

// lowerASCII lowercases A-Z only, keeping byte offsets aligned with s.
func lowerASCII(s string) string {
	hasUpper := false
	for i := 0; i < len(s); i++ {
		if 'A' <= s[i] && s[i] <= 'Z' {
			hasUpper = true
			break
		}
	}
	if !hasUpper {
		return s
	}
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
