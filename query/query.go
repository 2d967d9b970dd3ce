// Package query answers keyword questions against the live index using
// term-frequency scoring.
package query

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/fwojciec/siteindex"
)

// Fixed answers for questions that cannot produce hits.
const (
	NoIndexMessage    = "No index loaded. Run a crawl first."
	EmptyQuestion     = "Please provide a non-empty question."
	NoRelevantContent = "No relevant content found for that question."
)

// Hit is one scored document.
type Hit struct {
	URL     string
	Snippet string
	Score   int
}

// Ensure Engine implements siteindex.Asker at compile time.
var _ siteindex.Asker = (*Engine)(nil)

// Engine scores the documents of an index against a question.
type Engine struct {
	index   *siteindex.IndexStore
	baseURL string
}

// NewEngine creates an Engine reading index. baseURL names the origin in
// rendered answers.
func NewEngine(index *siteindex.IndexStore, baseURL string) *Engine {
	return &Engine{index: index, baseURL: baseURL}
}

// Search returns up to topK documents with a positive score, best first.
// Documents with equal scores keep index order. A topK below one selects
// siteindex.DefaultTopK.
//
// Returns ENOINDEX when the index is empty, EINVALID when question has no
// alphanumeric content and ENOTFOUND when nothing matches.
func (e *Engine) Search(question string, topK int) ([]Hit, error) {
	if topK < 1 {
		topK = siteindex.DefaultTopK
	}

	docs := e.index.Documents()
	if len(docs) == 0 {
		return nil, siteindex.Errorf(siteindex.ENOINDEX, NoIndexMessage)
	}
	tokens := siteindex.Tokenize(question)
	if len(tokens) == 0 {
		return nil, siteindex.Errorf(siteindex.EINVALID, EmptyQuestion)
	}

	type scored struct {
		doc   siteindex.Document
		score int
	}
	var matches []scored
	for _, doc := range docs {
		if score := siteindex.Score(tokens, doc.Text); score > 0 {
			matches = append(matches, scored{doc: doc, score: score})
		}
	}
	if len(matches) == 0 {
		return nil, siteindex.Errorf(siteindex.ENOTFOUND, NoRelevantContent)
	}

	slices.SortStableFunc(matches, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})
	matches = matches[:min(topK, len(matches))]

	hits := make([]Hit, 0, len(matches))
	for _, m := range matches {
		hits = append(hits, Hit{
			URL:     m.doc.URL,
			Snippet: siteindex.Snippet(m.doc.Text, tokens, siteindex.SnippetWidth),
			Score:   m.score,
		})
	}
	return hits, nil
}

// Ask renders the hits for question. Questions that cannot produce hits
// are answered with one of the fixed messages and a nil error.
func (e *Engine) Ask(ctx context.Context, question string, topK int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	hits, err := e.Search(question, topK)
	switch siteindex.ErrorCode(err) {
	case "":
	case siteindex.ENOINDEX, siteindex.EINVALID, siteindex.ENOTFOUND:
		return siteindex.ErrorMessage(err), nil
	default:
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Answer based on %s:\n", e.baseURL)
	for _, h := range hits {
		fmt.Fprintf(&b, "\n- Source: %s\n  Snippet: %s\n  Score: %d", h.URL, h.Snippet, h.Score)
	}
	return b.String(), nil
}
