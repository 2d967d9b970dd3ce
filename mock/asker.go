package mock

import (
	"context"

	"github.com/fwojciec/siteindex"
)

var _ siteindex.Asker = (*Asker)(nil)

// Asker is a mock implementation of siteindex.Asker.
type Asker struct {
	AskFn func(ctx context.Context, question string, topK int) (string, error)
}

func (a *Asker) Ask(ctx context.Context, question string, topK int) (string, error) {
	return a.AskFn(ctx, question, topK)
}
