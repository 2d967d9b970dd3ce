package siteindex

import "context"

// DefaultTopK is the number of hits rendered when the caller does not say.
const DefaultTopK = 3

// Asker answers keyword questions against the current index.
type Asker interface {
	// Ask renders the best matching snippets for question.
	// Guard conditions (no index, empty question, no match) are answered
	// with a fixed message rather than an error.
	Ask(ctx context.Context, question string, topK int) (string, error)
}
